package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

// errReported is returned once a failure has been printed, so that only the
// exit status is left to set.
var errReported = errors.New("failures reported")

func success(w io.Writer, format string, a ...any) {
	_, _ = green.Fprintf(w, "✓ "+format+"\n", a...)
}

func warning(w io.Writer, format string, a ...any) {
	_, _ = yellow.Fprintf(w, "! "+format+"\n", a...)
}

func failure(w io.Writer, format string, a ...any) {
	_, _ = red.Fprintf(w, "✗ "+format+"\n", a...)
}

func heading(w io.Writer, format string, a ...any) {
	_, _ = cyan.Fprintf(w, format+"\n", a...)
}

func detail(w io.Writer, format string, a ...any) {
	_, _ = faint.Fprintf(w, "    "+format+"\n", a...)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
