package registration

import (
	"regexp"
	"strings"

	"github.com/okra-platform/repokit/internal/codegen/writer"
)

// DefaultPHPContainer is the container expression inside a Laravel service provider
const DefaultPHPContainer = "$this->app"

var (
	phpNamespaceRe = regexp.MustCompile(`\bnamespace\s+\\?[A-Za-z_][\w\\]*\s*;`)
	phpUseRe       = regexp.MustCompile(`(?m)^[ \t]*use\s+([^;{}]+(?:\{[^{}]*\})?)\s*;`)
	phpBindRe      = regexp.MustCompile(`->\s*bind\s*\(\s*\\?([A-Za-z_][\w\\]*)\s*::\s*class`)
)

var phpSyntax = Syntax{
	LineComments:   []string{"//", "#"},
	BlockComment:   [2]string{"/*", "*/"},
	Quotes:         `"'`,
	HashAttributes: true,
}

type phpDialect struct {
	container string
}

// PHP returns the dialect for Laravel service providers. Bindings are
// written as $container->bind(Interface::class, Implementation::class).
func PHP(container string) Dialect {
	if container == "" {
		container = DefaultPHPContainer
	}
	return &phpDialect{container: container}
}

func (d *phpDialect) Name() string {
	return "php"
}

func (d *phpDialect) Syntax() Syntax {
	return phpSyntax
}

func (d *phpDialect) ImportAnchors() []Anchor {
	return []Anchor{{Name: "namespace declaration", Pattern: phpNamespaceRe}}
}

func (d *phpDialect) Method(name string) *regexp.Regexp {
	return regexp.MustCompile(`\bfunction\s+` + regexp.QuoteMeta(name) + `\s*\(`)
}

func (d *phpDialect) Imports(b Binding) []string {
	return []string{
		phpQualify(b.Interface),
		phpQualify(b.Implementation),
	}
}

func (d *phpDialect) ExistingImports(src string) []Import {
	s := scan(src, phpSyntax)
	var out []Import
	for _, m := range s.findAll(phpUseRe, 0, len(src)) {
		out = append(out, parseUse(src[m[2]:m[3]])...)
	}
	return out
}

func (d *phpDialect) RenderImports(paths []string, anchor int) string {
	var sb strings.Builder
	for _, p := range paths {
		sb.WriteString("\nuse ")
		sb.WriteString(p)
		sb.WriteString(";")
	}
	return sb.String()
}

func (d *phpDialect) RenderBinding(w *writer.Writer, b Binding, imports []Import) {
	w.WriteBlock(d.container+"->bind(", ");", func() {
		w.WriteLinef("%s::class,", phpRef(b.Interface, imports))
		w.WriteLinef("%s::class", phpRef(b.Implementation, imports))
	})
}

func (d *phpDialect) BoundPattern(b Binding, imports []Import) *regexp.Regexp {
	names := []string{`\\?` + regexp.QuoteMeta(phpQualify(b.Interface)), regexp.QuoteMeta(b.Interface.Name)}
	if ref := phpRef(b.Interface, imports); ref != b.Interface.Name {
		names = append(names, regexp.QuoteMeta(ref))
	}
	return regexp.MustCompile(`(?:^|[^\w\\])(?:` + strings.Join(names, "|") + `)\s*::\s*class\b`)
}

func (d *phpDialect) BindingPattern() *regexp.Regexp {
	return phpBindRe
}

func (d *phpDialect) IndentUnit() string {
	return "    "
}

func (d *phpDialect) Finalize(src []byte) ([]byte, error) {
	return src, nil
}

func phpQualify(s Symbol) string {
	if s.Package == "" {
		return s.Name
	}
	return strings.TrimSuffix(s.Package, `\`) + `\` + s.Name
}

// phpRef is the class name s goes by in a file with the given imports
func phpRef(s Symbol, imports []Import) string {
	if imp, ok := findImport(imports, phpQualify(s)); ok && imp.Alias != "" {
		return imp.Alias
	}
	return s.Name
}

// parseUse expands the clause of one use statement into its imports:
// "A\B", "A\B as C", "A\B, D\E" and the group form "A\{B, C as D}".
// Function and constant imports name no class and are dropped.
func parseUse(clause string) []Import {
	fields := strings.Fields(clause)
	if len(fields) == 0 || isUseKind(fields[0]) {
		return nil
	}

	prefix, items := "", clause
	if open := strings.IndexByte(clause, '{'); open >= 0 {
		prefix = strings.Trim(strings.TrimSpace(clause[:open]), `\`)
		items = strings.TrimSuffix(strings.TrimSpace(clause[open+1:]), "}")
	}

	var out []Import
	for _, item := range strings.Split(items, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 || isUseKind(fields[0]) {
			continue
		}

		imp := Import{Path: strings.TrimPrefix(fields[0], `\`)}
		if prefix != "" {
			imp.Path = prefix + `\` + imp.Path
		}
		if len(fields) == 3 && strings.EqualFold(fields[1], "as") {
			imp.Alias = fields[2]
		}
		out = append(out, imp)
	}
	return out
}

func isUseKind(word string) bool {
	return strings.EqualFold(word, "function") || strings.EqualFold(word, "const")
}
