package registration

import (
	"slices"
	"sort"
	"strings"

	"github.com/okra-platform/repokit/internal/codegen/writer"
)

// File is the in-memory model of a registration file: the located anchors,
// the imports and the bindings it holds. New imports and bindings are list
// operations; Render splices them into the original text, which is otherwise
// left byte for byte as it was.
type File struct {
	src     *source
	dialect Dialect

	importAt     int
	importAnchor int
	bodyOpen     int
	bodyClose    int
	methodIndent string

	imports  []Import
	bindings []string

	newImports  []string
	newBindings []Binding
}

// Parse locates the import anchor and the body of the named registration
// method. It fails with an *AnchorError when either is missing.
func Parse(text string, d Dialect, method string) (*File, error) {
	s := scan(text, d.Syntax())
	f := &File{src: s, dialect: d, importAnchor: -1}

	anchors := d.ImportAnchors()
	for i, a := range anchors {
		if loc := s.find(a.Pattern, 0); loc != nil {
			f.importAt = loc[1]
			f.importAnchor = i
			break
		}
	}
	if f.importAnchor < 0 {
		return nil, &AnchorError{Anchor: anchors[len(anchors)-1].Name}
	}

	methodAnchor := "method " + method
	loc := s.find(d.Method(method), 0)
	if loc == nil {
		return nil, &AnchorError{Anchor: methodAnchor}
	}

	params := s.matching(loc[1] - 1)
	if params < 0 {
		return nil, &AnchorError{Anchor: methodAnchor + " parameter list"}
	}
	f.bodyOpen = s.indexCode('{', params+1)
	if f.bodyOpen < 0 {
		return nil, &AnchorError{Anchor: methodAnchor + " body"}
	}
	// A declaration without a body ends in ';' before any brace
	if semi := s.indexCode(';', params+1); semi >= 0 && semi < f.bodyOpen {
		return nil, &AnchorError{Anchor: methodAnchor + " body"}
	}
	f.bodyClose = s.matching(f.bodyOpen)
	if f.bodyClose < 0 {
		return nil, &AnchorError{Anchor: methodAnchor + " closing brace"}
	}
	f.methodIndent = s.lineIndent(loc[0])

	f.imports = d.ExistingImports(text)
	for _, m := range s.findAll(d.BindingPattern(), f.bodyOpen+1, f.bodyClose) {
		f.bindings = append(f.bindings, bareName(text[m[2]:m[3]]))
	}

	return f, nil
}

// Bound reports whether the interface of b is already bound, under any of
// the names the file's imports give it
func (f *File) Bound(b Binding) bool {
	return f.src.find(f.dialect.BoundPattern(b, f.imports), 0) != nil
}

// Bindings returns the interface names bound in the registration method in
// body order. Pending bindings come first because they are inserted right
// after the opening brace.
func (f *File) Bindings() []string {
	out := make([]string, 0, len(f.newBindings)+len(f.bindings))
	for i := len(f.newBindings) - 1; i >= 0; i-- {
		out = append(out, f.newBindings[i].Interface.Name)
	}
	return append(out, f.bindings...)
}

// AddImport queues an import unless it is already present
func (f *File) AddImport(path string) bool {
	if _, ok := findImport(f.imports, path); ok || slices.Contains(f.newImports, path) {
		return false
	}
	f.newImports = append(f.newImports, path)
	return true
}

// AddBinding queues a binding statement
func (f *File) AddBinding(b Binding) {
	f.newBindings = append(f.newBindings, b)
}

// Render returns the text with every pending import and binding spliced in
func (f *File) Render() string {
	type insertion struct {
		at   int
		text string
	}

	var edits []insertion
	if len(f.newImports) > 0 {
		edits = append(edits, insertion{at: f.importAt, text: f.dialect.RenderImports(f.newImports, f.importAnchor)})
	}
	if len(f.newBindings) > 0 {
		edits = append(edits, insertion{at: f.bodyOpen + 1, text: f.renderBindings()})
	}

	// Apply from the end so earlier offsets stay valid
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].at > edits[j].at })

	out := f.src.text
	for _, e := range edits {
		out = out[:e.at] + e.text + out[e.at:]
	}
	return out
}

func (f *File) renderBindings() string {
	imports := slices.Clone(f.imports)
	for _, p := range f.newImports {
		imports = append(imports, Import{Path: p})
	}

	w := writer.NewWriterAt(f.dialect.IndentUnit(), f.methodIndent+f.dialect.IndentUnit())
	for i := len(f.newBindings) - 1; i >= 0; i-- {
		f.dialect.RenderBinding(w, f.newBindings[i], imports)
	}

	text := "\n" + strings.TrimSuffix(w.String(), "\n")

	// A body with no line break of its own, e.g. "{}", needs one before the
	// closing brace
	if !strings.Contains(f.src.text[f.bodyOpen:f.bodyClose], "\n") {
		text += "\n" + f.methodIndent
	}
	return text
}

func bareName(symbol string) string {
	if i := strings.LastIndexAny(symbol, `\.`); i >= 0 {
		return symbol[i+1:]
	}
	return symbol
}
