package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todomvc/internal/store"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Level
	}{
		{"debug", log.DebugLevel},
		{"info", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormatter(t *testing.T) {
	if ParseFormatter("json") != log.JSONFormatter {
		t.Error("json formatter")
	}
	if ParseFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt formatter")
	}
	if ParseFormatter("other") != log.TextFormatter {
		t.Error("default formatter")
	}
}

func TestNewFromConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFromConfig(&buf, "warn", "text")
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "todomvc") {
		t.Errorf("expected prefixed warn record, got: %s", out)
	}
}

func TestTracerConsole(t *testing.T) {
	var buf bytes.Buffer
	tr, err := NewTracer(NewFromConfig(&buf, "info", "text"), "")
	if err != nil {
		t.Fatalf("NewTracer: %v", err)
	}
	defer tr.Close()

	tr.Commit("todos/add", []store.Change{{Store: "todos", From: 0, To: 1}})
	tr.Rollback("header/submit", errors.New("todo content is empty"))

	out := buf.String()
	for _, want := range []string{"commit", "todos/add", "rollback", "header/submit", "todo content is empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q:\n%s", want, out)
		}
	}
}

func TestTracerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.jsonl")
	tr, err := NewTracer(nil, path)
	if err != nil {
		t.Fatalf("NewTracer: %v", err)
	}
	tr.Commit("todos/toggle-all", []store.Change{{Store: "todos", From: 2, To: 3}})
	tr.Rollback("todos/toggle", errors.New("todo not found"))
	if err := tr.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open trace: %v", err)
	}
	defer f.Close()

	var records []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("trace line is not JSON: %v: %s", err, sc.Text())
		}
		records = append(records, rec)
	}
	if len(records) != 2 {
		t.Fatalf("records: got %d, want 2", len(records))
	}
	if records[0]["msg"] != "commit" || records[0]["action"] != "todos/toggle-all" {
		t.Errorf("commit record: %v", records[0])
	}
	stores, _ := records[0]["stores"].(map[string]any)
	todos, _ := stores["todos"].(map[string]any)
	if todos["to"] != float64(3) {
		t.Errorf("commit record stores: %v", records[0]["stores"])
	}
	if records[1]["level"] != "WARN" || records[1]["error"] != "todo not found" {
		t.Errorf("rollback record: %v", records[1])
	}
}

func TestTracerWithDispatcher(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracerWithHandler(NewFromConfig(&buf, "info", "logfmt"))
	d := store.NewDispatcher(store.WithTracer(tr))
	s := store.MustNew("count", 0)
	if err := d.Do("count/inc", func(tx *store.Tx) error {
		*store.Draft(tx, s)++
		return nil
	}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "count/inc") {
		t.Errorf("trace missing action: %s", out)
	}
}

func TestTracerNoSinks(t *testing.T) {
	tr, err := NewTracer(nil, "")
	if err != nil {
		t.Fatalf("NewTracer: %v", err)
	}
	tr.Commit("x", nil)
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestNewTracerBadPath(t *testing.T) {
	_, err := NewTracer(nil, filepath.Join(t.TempDir(), "missing", "trace.jsonl"))
	if err == nil {
		t.Error("NewTracer(bad path): want error")
	}
}
