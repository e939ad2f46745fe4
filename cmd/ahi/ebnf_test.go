package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{"ebnf"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCheckEmbeddedGrammar(t *testing.T) {
	if out, err := execute(t, "check"); err != nil {
		t.Errorf("check error = %v\n%s", err, out)
	}
}

func TestCheckFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.ebnf")
	if err := os.WriteFile(path, []byte("A = B .\nB = \"b\" .\nC = \"c\" .\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "check", path); err != nil {
		t.Errorf("check without --start error = %v", err)
	}
	out, err := execute(t, "check", "--start", "A", path)
	if err == nil {
		t.Fatal("check --start A error = nil, want unused production error")
	}
	if !strings.Contains(out, "C is unreachable") {
		t.Errorf("check output = %q, want C is unreachable", out)
	}
}

func TestLex(t *testing.T) {
	out, err := execute(t, "lex", "{a:1b}")
	if err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		kinds = append(kinds, strings.Fields(line)[1])
	}
	want := []string{"{", "Word", ":", "Number", "}", "EOF"}
	if strings.Join(kinds, " ") != strings.Join(want, " ") {
		t.Errorf("lex kinds = %v, want %v", kinds, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"{a:1b, b:[I;1,2]}", false},
		{`uuid("x")`, false},
		{"{a:}", true},
		{"[1,,2]", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out, err := execute(t, "parse", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parse error = %v, wantErr %v\n%s", err, tt.wantErr, out)
			}
			if !tt.wantErr && strings.TrimSpace(out) != "ok" {
				t.Errorf("parse output = %q, want ok", out)
			}
		})
	}
}
