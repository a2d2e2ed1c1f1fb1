package registration

import (
	"regexp"

	"github.com/okra-platform/repokit/internal/codegen/writer"
)

// Symbol is a type (or constructor) that lives in a namespace or package
type Symbol struct {
	// Name is the bare identifier, e.g. "InvoiceRepositoryInterface"
	Name string

	// Package is the PHP namespace or Go import path holding the symbol
	Package string
}

// Binding maps an interface to the implementation a container resolves it to
type Binding struct {
	Interface      Symbol
	Implementation Symbol

	// Constructor is the implementation's factory, for dialects that bind
	// constructors instead of class names
	Constructor string
}

// Import is one name a registration file brings into scope: a PHP use
// clause or a Go import spec
type Import struct {
	// Path is the fully qualified class (PHP) or the import path (Go)
	Path string

	// Alias is the local name given with "as" (PHP) or in front of the path
	// (Go); empty when the default name applies
	Alias string
}

// findImport returns the first import of p
func findImport(imports []Import, p string) (Import, bool) {
	for _, imp := range imports {
		if imp.Path == p {
			return imp, true
		}
	}
	return Import{}, false
}

// Anchor is a named landmark in the registration file
type Anchor struct {
	Name    string
	Pattern *regexp.Regexp
}

// Dialect knows the syntax of one kind of registration file
type Dialect interface {
	// Name returns the dialect name (e.g., "php", "go")
	Name() string

	// Syntax returns the comment and string delimiters of the language
	Syntax() Syntax

	// ImportAnchors returns insertion points for imports in order of
	// preference; new imports go right after the first one found.
	ImportAnchors() []Anchor

	// Method matches the opening of the named registration method up to and
	// including the "(" of its parameter list
	Method(name string) *regexp.Regexp

	// Imports returns the import paths a binding needs
	Imports(b Binding) []string

	// ExistingImports lists the imports already declared in src, with
	// grouped declarations expanded
	ExistingImports(src string) []Import

	// RenderImports renders new import lines for the anchor at index anchor
	RenderImports(paths []string, anchor int) string

	// RenderBinding writes the binding statement, naming the symbols the
	// way imports brings them into scope
	RenderBinding(w *writer.Writer, b Binding, imports []Import)

	// BoundPattern matches the interface symbol, under any name imports
	// gives it, followed by the class reference marker of an existing binding
	BoundPattern(b Binding, imports []Import) *regexp.Regexp

	// BindingPattern matches binding statements; group 1 is the interface
	BindingPattern() *regexp.Regexp

	// IndentUnit is one level of indentation
	IndentUnit() string

	// Finalize checks that a patched file is still well formed and returns
	// it in the language's canonical layout
	Finalize(src []byte) ([]byte, error)
}
