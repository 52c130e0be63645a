package ui

import (
	"bytes"
	"strings"
	"testing"
)

// newTestTerminal returns a non-TTY terminal writing to controlled buffers.
func newTestTerminal() (*Terminal, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	t := NewTerminalWithWriter(out, errOut, false)
	return t, out, errOut
}

func TestTerminal_IsTTY(t *testing.T) {
	term, _, _ := newTestTerminal()
	if term.IsTTY() {
		t.Error("expected IsTTY=false for test terminal")
	}
}

func TestTerminal_Section(t *testing.T) {
	term, out, _ := newTestTerminal()
	term.Section("Install")
	if !strings.Contains(out.String(), "Install") {
		t.Errorf("Section output missing title: %q", out.String())
	}
}

func TestTerminal_Messages(t *testing.T) {
	tests := []struct {
		label string
		call  func(*Terminal, string)
	}{
		{"SUCCESS", (*Terminal).Success},
		{"ERROR", (*Terminal).Error},
		{"WARNING", (*Terminal).Warning},
		{"INFO", (*Terminal).Info},
	}

	for _, tt := range tests {
		term, out, _ := newTestTerminal()
		tt.call(term, "a message")
		got := out.String()
		if !strings.Contains(got, "a message") {
			t.Errorf("%s output missing message: %q", tt.label, got)
		}
		if !strings.Contains(got, tt.label) {
			t.Errorf("%s output missing label: %q", tt.label, got)
		}
	}
}

func TestTerminal_SprintHelpersPlainWhenNotTTY(t *testing.T) {
	term, _, _ := newTestTerminal()
	if got := term.AccentSprintf("v%s", "1.0"); got != "v1.0" {
		t.Errorf("AccentSprintf = %q, want plain text", got)
	}
	if got := term.DimSprint("dim"); got != "dim" {
		t.Errorf("DimSprint = %q, want plain text", got)
	}
}
