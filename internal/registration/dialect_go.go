package registration

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/okra-platform/repokit/internal/codegen/writer"
)

// DefaultGoContainer is the parameter name of the container in Register
const DefaultGoContainer = "c"

var (
	goImportBlockRe = regexp.MustCompile(`\bimport\s*\(`)
	goPackageRe     = regexp.MustCompile(`\bpackage\s+[A-Za-z_]\w*`)
	goBindRe        = regexp.MustCompile(`\.\s*Bind\s*\(\s*\(\s*\*\s*([A-Za-z_][\w.]*)\s*\)`)
)

var goSyntax = Syntax{
	LineComments: []string{"//"},
	BlockComment: [2]string{"/*", "*/"},
	Quotes:       "\"'`",
	RawQuotes:    "`",
}

type goDialect struct {
	container string
}

// Go returns the dialect for Go registration files. Bindings are written as
// c.Bind((*pkg.Interface)(nil), pkg.NewImplementation).
func Go(container string) Dialect {
	if container == "" {
		container = DefaultGoContainer
	}
	return &goDialect{container: container}
}

func (d *goDialect) Name() string {
	return "go"
}

func (d *goDialect) Syntax() Syntax {
	return goSyntax
}

func (d *goDialect) ImportAnchors() []Anchor {
	return []Anchor{
		{Name: "import block", Pattern: goImportBlockRe},
		{Name: "package clause", Pattern: goPackageRe},
	}
}

// Method matches both plain functions and methods with a receiver
func (d *goDialect) Method(name string) *regexp.Regexp {
	return regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?` + regexp.QuoteMeta(name) + `\s*\(`)
}

func (d *goDialect) Imports(b Binding) []string {
	paths := []string{b.Interface.Package}
	if b.Implementation.Package != b.Interface.Package {
		paths = append(paths, b.Implementation.Package)
	}
	return paths
}

// ExistingImports skips blank imports, which bring no name into scope
func (d *goDialect) ExistingImports(src string) []Import {
	f, err := parser.ParseFile(token.NewFileSet(), "", src, parser.ImportsOnly)
	if err != nil {
		return nil
	}

	out := make([]Import, 0, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{Path: p}
		if spec.Name != nil {
			if spec.Name.Name == "_" {
				continue
			}
			imp.Alias = spec.Name.Name
		}
		out = append(out, imp)
	}
	return out
}

func (d *goDialect) RenderImports(paths []string, anchor int) string {
	var sb strings.Builder
	if anchor == 0 {
		for _, p := range paths {
			sb.WriteString("\n\t")
			sb.WriteString(strconv.Quote(p))
		}
		return sb.String()
	}

	w := writer.NewWriter("\t")
	if len(paths) == 1 {
		w.WriteLinef("import %s", strconv.Quote(paths[0]))
	} else {
		w.WriteBlock("import (", ")", func() {
			for _, p := range paths {
				w.WriteLine(strconv.Quote(p))
			}
		})
	}
	return "\n\n" + strings.TrimSuffix(w.String(), "\n")
}

func (d *goDialect) RenderBinding(w *writer.Writer, b Binding, imports []Import) {
	ctor := b.Constructor
	if ctor == "" {
		ctor = "New" + b.Implementation.Name
	}
	w.WriteLinef("%s.Bind((*%s)(nil), %s)",
		d.container,
		goRef(b.Interface, imports),
		goRef(Symbol{Name: ctor, Package: b.Implementation.Package}, imports))
}

// BoundPattern accepts the interface under its local name and under the
// package's default name
func (d *goDialect) BoundPattern(b Binding, imports []Import) *regexp.Regexp {
	refs := []string{regexp.QuoteMeta(goRef(b.Interface, imports))}
	if def := goRef(b.Interface, nil); def != goRef(b.Interface, imports) {
		refs = append(refs, regexp.QuoteMeta(def))
	}
	return regexp.MustCompile(`\(\s*\*\s*(?:` + strings.Join(refs, "|") + `)\s*\)\s*\(\s*nil\s*\)`)
}

func (d *goDialect) BindingPattern() *regexp.Regexp {
	return goBindRe
}

func (d *goDialect) IndentUnit() string {
	return "\t"
}

// Finalize runs the patched file through gofmt, which also sorts the
// import block the new paths were spliced into
func (d *goDialect) Finalize(src []byte) ([]byte, error) {
	if _, err := parser.ParseFile(token.NewFileSet(), "", src, parser.AllErrors); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	out, err := format.Source(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	return out, nil
}

// goRef is the expression naming s in a file with the given imports: the
// import's alias when it has one, else the last path element. A dot import
// leaves the name unqualified.
func goRef(s Symbol, imports []Import) string {
	if s.Package == "" {
		return s.Name
	}
	qualifier := path.Base(s.Package)
	if imp, ok := findImport(imports, s.Package); ok && imp.Alias != "" {
		qualifier = imp.Alias
	}
	if qualifier == "." {
		return s.Name
	}
	return qualifier + "." + s.Name
}
