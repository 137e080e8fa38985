package eventlog

import (
	"encoding/binary"
	"fmt"

	"github.com/cockroachdb/pebble"

	"matchbook/engine"
)

// Store archives event records in a Pebble database, keyed by big-endian
// sequence number so iteration order is log order. The store is an external
// persistence layer; the engine never touches it.
type Store struct {
	db *pebble.DB
}

var (
	keyPrefix  = []byte("e:")
	keyCeiling = []byte("e;") // first key past the prefix range
)

// OpenStore opens (or creates) the archive at dir.
func OpenStore(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("eventlog: open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func eventKey(seq uint64) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], seq)
	return key
}

// Append archives one event under the given log sequence.
func (s *Store) Append(seq uint64, ev engine.Event) error {
	rec := NewRecord(seq, ev)
	if err := s.db.Set(eventKey(seq), rec.Marshal(), pebble.Sync); err != nil {
		return fmt.Errorf("eventlog: append seq %d: %w", seq, err)
	}
	return nil
}

// AppendAll archives a whole event log starting at sequence 1.
func (s *Store) AppendAll(events []engine.Event) error {
	for i, ev := range events {
		if err := s.Append(uint64(i)+1, ev); err != nil {
			return err
		}
	}
	return nil
}

// Replay visits archived events in sequence order.
func (s *Store) Replay(fn func(seq uint64, ev engine.Event) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: keyPrefix,
		UpperBound: keyCeiling,
	})
	if err != nil {
		return fmt.Errorf("eventlog: replay: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		rec, _, err := UnmarshalRecord(iter.Value())
		if err != nil {
			return err
		}
		ev, err := rec.Event()
		if err != nil {
			return err
		}
		if err := fn(rec.Seq, ev); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Events loads every archived event in order.
func (s *Store) Events() ([]engine.Event, error) {
	var events []engine.Event
	err := s.Replay(func(_ uint64, ev engine.Event) error {
		events = append(events, ev)
		return nil
	})
	return events, err
}
