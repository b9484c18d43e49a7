package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "text")

	l.Info("hidden %d", 1)
	l.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Errorf("warn line missing: %q", out)
	}
}

func TestLoggerJSONWithField(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json").With("run_id", "abc")

	l.Debug("[engine] scored %d sellers", 3)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "[engine] scored 3 sellers" {
		t.Errorf("msg: got %v", line["msg"])
	}
	if line["run_id"] != "abc" {
		t.Errorf("run_id: got %v, want abc", line["run_id"])
	}
}

func TestLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "loud", "text")

	l.Debug("quiet")
	l.Info("visible")

	out := buf.String()
	if strings.Contains(out, "msg=quiet") {
		t.Errorf("debug line should be filtered at info level: %q", out)
	}
	if !strings.Contains(out, "msg=visible") {
		t.Errorf("info line missing: %q", out)
	}
}
