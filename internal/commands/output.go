package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/okra-platform/repokit/internal/scaffold"
)

// Output receives the user-facing lines of a command
type Output interface {
	Printf(format string, a ...any)
}

type writerOutput struct {
	w io.Writer
}

// NewOutput returns an Output writing to w
func NewOutput(w io.Writer) Output {
	return &writerOutput{w: w}
}

func (o *writerOutput) Printf(format string, a ...any) {
	fmt.Fprintf(o.w, format, a...)
}

var statusColors = map[scaffold.Status]*color.Color{
	scaffold.StatusCreated:      color.New(color.FgGreen),
	scaffold.StatusBound:        color.New(color.FgGreen),
	scaffold.StatusSkipped:      color.New(color.FgYellow),
	scaffold.StatusAlreadyBound: color.New(color.FgYellow),
	scaffold.StatusFailed:       color.New(color.FgRed, color.Bold),
}

// printReport writes one line per step, paths relative to root
func printReport(out Output, root string, report *scaffold.Report) {
	for _, o := range report.Outcomes() {
		line := fmt.Sprintf("%-12s %s", o.Step, relPath(root, o.Path))
		if o.Err != nil {
			line += ": " + o.Err.Error()
		}
		out.Printf("  %s %s\n", statusColors[o.Status].Sprintf("%-13s", o.Status), line)
	}
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
