package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainsvcs "github.com/ghuser/restocker/services/inventory/domain/services"
)

func TestPrintSpend(t *testing.T) {
	up, down := 5.0, -2.5
	var buf bytes.Buffer
	printSpend(&buf, []domainsvcs.MonthBucket{
		{Month: "2024-04", Total: 10},
		{Month: "2024-05", Total: 15, Delta: &up},
		{Month: "2024-06", Total: 12.5, Delta: &down},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", buf.String())
	}
	if strings.Contains(lines[0], "(") {
		t.Errorf("first month has no delta: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "(+$5.00)") || !strings.HasSuffix(lines[2], "(-$2.50)") {
		t.Errorf("unexpected deltas: %q / %q", lines[1], lines[2])
	}
	if !strings.Contains(lines[3], "$37.50") {
		t.Errorf("unexpected total line %q", lines[3])
	}
}

func TestReadInput(t *testing.T) {
	got, err := readInput(strings.NewReader(`[{"name":"Rice"}]`), "-")
	if err != nil || string(got) != `[{"name":"Rice"}]` {
		t.Fatalf("stdin: %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte("[]"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got, err := readInput(nil, path); err != nil || string(got) != "[]" {
		t.Fatalf("file: %q, %v", got, err)
	}

	if _, err := readInput(nil, filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestWriteOutput(t *testing.T) {
	var stdout bytes.Buffer
	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "hello")
		return err
	}

	if err := writeOutput(&stdout, "", write); err != nil {
		t.Fatal(err)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q", stdout.String())
	}

	path := filepath.Join(t.TempDir(), "out.md")
	if err := writeOutput(&stdout, path, write); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "hello" {
		t.Errorf("file = %q, %v", data, err)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()
	want := []string{"import", "export", "basket", "spend", "sweep"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}

func TestImportCommand_RequiresArg(t *testing.T) {
	root := newRootCommand()
	root.SetArgs([]string{"import"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Fatal("expected an argument error")
	}
}
