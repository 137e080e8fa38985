package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
logging:
  level: debug
  file: logs/matchbook.log
eventlog:
  path: data/events.log
store:
  dir: data/archive
replay:
  depth: 25
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File != "logs/matchbook.log" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.EventLog.Path != "data/events.log" || cfg.Store.Dir != "data/archive" {
		t.Errorf("paths = %+v %+v", cfg.EventLog, cfg.Store)
	}
	if cfg.Replay.Depth != 25 {
		t.Errorf("depth = %d", cfg.Replay.Depth)
	}
}

func TestDefaultsFillGaps(t *testing.T) {
	cfg, err := Load(writeConfig(t, "store:\n  dir: somewhere\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "info" || cfg.EventLog.Path != "events.log" || cfg.Replay.Depth != 10 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MATCHBOOK_LOG_LEVEL", "error")
	t.Setenv("MATCHBOOK_EVENTLOG", "/tmp/other.log")
	t.Setenv("MATCHBOOK_REPLAY_DEPTH", "3")

	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "error" || cfg.EventLog.Path != "/tmp/other.log" || cfg.Replay.Depth != 3 {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	if _, err := Load(writeConfig(t, "logging:\n  level: loud\n")); err == nil {
		t.Error("unknown log level should fail validation")
	}
	if _, err := Load(writeConfig(t, "replay:\n  depth: -1\n")); err == nil {
		t.Error("negative depth should fail validation")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
