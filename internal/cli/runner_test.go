package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/idilsaglam/todomvc/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Mode:      config.ModeProduction,
		Filter:    config.DefaultFilter,
		Theme:     "mono",
		NoColor:   true,
		LogLevel:  config.DefaultLogLevel,
		LogFormat: config.DefaultLogFormat,
	}
}

type result struct {
	code     int
	out, err string
}

func run(t *testing.T, cfg *config.Config, stdin string, args ...string) result {
	t.Helper()
	var out, errw bytes.Buffer
	code := Run(context.Background(), args, Options{
		Config: cfg,
		In:     strings.NewReader(stdin),
		Out:    &out,
		Err:    &errw,
	})
	return result{code: code, out: out.String(), err: errw.String()}
}

func TestHelp(t *testing.T) {
	r := run(t, testConfig(), "", "help")
	if r.code != 0 {
		t.Fatalf("exit code: got %d, want 0", r.code)
	}
	for _, want := range []string{"Subcommands", "script [file]", "--seed"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestUnknownSubcommand(t *testing.T) {
	r := run(t, testConfig(), "", "frobnicate")
	if r.code != 2 {
		t.Errorf("exit code: got %d, want 2", r.code)
	}
	if !strings.Contains(r.err, "unknown subcommand: frobnicate") {
		t.Errorf("stderr: %q", r.err)
	}
}

func TestRunRequiresTerminal(t *testing.T) {
	r := run(t, testConfig(), "")
	if r.code != 1 {
		t.Errorf("exit code: got %d, want 1", r.code)
	}
	if !strings.Contains(r.err, "requires a terminal") {
		t.Errorf("stderr: %q", r.err)
	}
}

func TestRunUsage(t *testing.T) {
	if r := run(t, testConfig(), "", "run", "extra"); r.code != 2 {
		t.Errorf("run extra: got %d, want 2", r.code)
	}
	if r := run(t, testConfig(), "", "script", "a", "b"); r.code != 2 {
		t.Errorf("script a b: got %d, want 2", r.code)
	}
}

func TestScriptFromStdin(t *testing.T) {
	r := run(t, testConfig(), "add Buy milk\nadd Walk dog\ntoggle 1\nls\n", "script")
	if r.code != 0 {
		t.Fatalf("exit code: got %d, want 0; stderr: %s", r.code, r.err)
	}
	for _, want := range []string{"[x] Buy milk", "[ ] Walk dog", "1 item left", "[All]", "Clear completed"} {
		if !strings.Contains(r.out, want) {
			t.Errorf("output missing %q:\n%s", want, r.out)
		}
	}
}

func TestScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmds.txt")
	if err := os.WriteFile(path, []byte("# setup\nadd one\n\nls\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := run(t, testConfig(), "", "script", path)
	if r.code != 0 {
		t.Fatalf("exit code: got %d; stderr: %s", r.code, r.err)
	}
	if !strings.Contains(r.out, "[ ] one") {
		t.Errorf("output:\n%s", r.out)
	}

	if r := run(t, testConfig(), "", "script", filepath.Join(t.TempDir(), "missing")); r.code != 1 {
		t.Errorf("missing file: got %d, want 1", r.code)
	}
}

func TestSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	seed := `[{"id": 4, "content": "seeded", "completed": true}, {"id": 9, "content": "other"}]`
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.SeedFile = path
	cfg.Filter = "completed"

	r := run(t, cfg, "ls\n", "script")
	if r.code != 0 {
		t.Fatalf("exit code: got %d; stderr: %s", r.code, r.err)
	}
	if !strings.Contains(r.out, "[x] seeded") || strings.Contains(r.out, "other") {
		t.Errorf("output:\n%s", r.out)
	}

	// the seed is never written back
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != seed {
		t.Errorf("seed file changed: %s", b)
	}
}

func TestInvalidSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	if err := os.WriteFile(path, []byte(`[{"id": "x"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := testConfig()
	cfg.SeedFile = path
	r := run(t, cfg, "ls\n", "script")
	if r.code != 1 {
		t.Errorf("exit code: got %d, want 1", r.code)
	}
	if !strings.Contains(r.err, "seed") {
		t.Errorf("stderr: %q", r.err)
	}
}

func TestInvalidFilter(t *testing.T) {
	cfg := testConfig()
	cfg.Filter = "bogus"
	if r := run(t, cfg, "", "script"); r.code != 1 {
		t.Errorf("exit code: got %d, want 1", r.code)
	}
}

func TestDevelopmentTrace(t *testing.T) {
	trace := filepath.Join(t.TempDir(), "trace.jsonl")
	cfg := testConfig()
	cfg.Mode = config.ModeDevelopment
	cfg.TraceFile = trace

	r := run(t, cfg, "add x\nadd\n", "script")
	if r.code != 2 {
		t.Fatalf("exit code: got %d, want 2", r.code)
	}
	if !strings.Contains(r.err, "commit") {
		t.Errorf("console trace missing commit: %q", r.err)
	}
	b, err := os.ReadFile(trace)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"action":"todos/add"`, `"msg":"rollback"`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("trace file missing %s:\n%s", want, b)
		}
	}
}
