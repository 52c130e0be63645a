// Package ui provides styled terminal output for the vscodeops CLI.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Terminal provides structured and styled output to the console
type Terminal struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
}

// Global color definitions for consistent UI branding
var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	accentColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

// NewTerminal initializes a terminal linked to standard output
func NewTerminal() *Terminal {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	color.NoColor = !isTTY

	return &Terminal{
		out:    os.Stdout,
		errOut: os.Stderr,
		isTTY:  isTTY,
	}
}

// NewTerminalWithWriter allows injecting custom writers for testing or redirection
func NewTerminalWithWriter(out, errOut io.Writer, isTTY bool) *Terminal {
	return &Terminal{
		out:    out,
		errOut: errOut,
		isTTY:  isTTY,
	}
}

func (t *Terminal) IsTTY() bool { return t.isTTY }

// Section prints a secondary header with an arrow indicator
func (t *Terminal) Section(title string) {
	if t.isTTY {
		accentColor.Fprintf(t.out, "\n▶ %s\n", title)
		dimColor.Fprintln(t.out, strings.Repeat("─", len(title)+2))
	} else {
		fmt.Fprintf(t.out, "\n== %s ==\n", title)
	}
}

func (t *Terminal) Success(message string) { t.printMsg(successColor, "SUCCESS", message) }
func (t *Terminal) Error(message string)   { t.printMsg(errorColor, "ERROR", message) }
func (t *Terminal) Warning(message string) { t.printMsg(warningColor, "WARNING", message) }
func (t *Terminal) Info(message string)    { t.printMsg(infoColor, "INFO", message) }

func (t *Terminal) printMsg(c *color.Color, label, msg string) {
	if t.isTTY {
		c.Fprintln(t.out, msg)
	} else {
		fmt.Fprintf(t.out, "%s: %s\n", label, msg)
	}
}

func (t *Terminal) Printf(format string, args ...interface{}) { fmt.Fprintf(t.out, format, args...) }
func (t *Terminal) Println(args ...interface{})               { fmt.Fprintln(t.out, args...) }

func (t *Terminal) AccentSprintf(format string, args ...interface{}) string {
	if t.isTTY {
		return accentColor.Sprintf(format, args...)
	}
	return fmt.Sprintf(format, args...)
}

func (t *Terminal) DimSprint(text string) string {
	if t.isTTY {
		return dimColor.Sprint(text)
	}
	return text
}
