package eventlog

import (
	"bufio"
	"fmt"
	"os"

	"matchbook/engine"
)

// SaveEvents writes the event log to path, one textual record per line, in
// log order.
func SaveEvents(path string, events []engine.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for _, ev := range events {
		if _, err := w.WriteString(EncodeLine(ev)); err != nil {
			f.Close()
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadEvents reads a line-delimited event log from path. Blank lines are
// skipped; a malformed line fails with its line number.
func LoadEvents(path string) ([]engine.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []engine.Event
	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if len(text) == 0 {
			continue
		}
		ev, err := DecodeLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// LoadEngine rebuilds an engine by replaying the event log at path.
func LoadEngine(path string) (*engine.Engine, error) {
	events, err := LoadEvents(path)
	if err != nil {
		return nil, err
	}
	return engine.Replay(events), nil
}
