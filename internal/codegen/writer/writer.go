package writer

import (
	"fmt"
	"strings"
)

// Writer emits source lines with indentation. Every line starts with a base
// prefix, so snippets can be rendered to match the indentation of the code
// they are spliced into.
type Writer struct {
	sb           strings.Builder
	base         string
	indentString string
	indentLevel  int
	linePrefix   string
}

// NewWriter creates a writer with the given indentation unit and no base prefix
func NewWriter(indentString string) *Writer {
	return NewWriterAt(indentString, "")
}

// NewWriterAt creates a writer whose lines all start with base
func NewWriterAt(indentString, base string) *Writer {
	w := &Writer{
		base:         base,
		indentString: indentString,
	}
	w.updatePrefix()
	return w
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// WriteLine writes one indented line. Empty lines carry no trailing whitespace.
func (w *Writer) WriteLine(s string) {
	if s != "" {
		w.sb.WriteString(w.linePrefix)
		w.sb.WriteString(s)
	}
	w.sb.WriteByte('\n')
}

// WriteLinef writes one formatted, indented line
func (w *Writer) WriteLinef(format string, args ...any) {
	w.WriteLine(fmt.Sprintf(format, args...))
}

// WriteBlock writes opener, the indented content, then closer
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// String returns everything written so far
func (w *Writer) String() string {
	return w.sb.String()
}

func (w *Writer) updatePrefix() {
	w.linePrefix = w.base + strings.Repeat(w.indentString, w.indentLevel)
}
