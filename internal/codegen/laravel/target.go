// Package laravel is the Laravel target: Eloquent models, repositories and
// controllers bound in AppServiceProvider::register().
package laravel

import (
	"embed"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/naming"
	"github.com/okra-platform/repokit/internal/registration"
)

const (
	// Name is the target name used in configuration and on the command line
	Name = "laravel"

	// DefaultModule is the root namespace of the application directory
	DefaultModule = "App"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DefaultLayout mirrors the directories of a stock Laravel application
var DefaultLayout = codegen.Layout{
	Models:       "app/Models",
	Interfaces:   "app/Repositories",
	Repositories: "app/Repositories",
	Controllers:  "app/Http/Controllers",
}

// DefaultRegistration locates the service provider bindings are added to
var DefaultRegistration = codegen.RegistrationDefaults{
	File:      "app/Providers/AppServiceProvider.php",
	Method:    "register",
	Container: registration.DefaultPHPContainer,
}

// Target generates Laravel artifacts
type Target struct {
	module string
	layout codegen.Layout
}

// NewTarget creates a Laravel target. opts.Module is the namespace of the
// application directory (the PSR-4 root, "App" when empty).
func NewTarget(opts codegen.Options) codegen.Target {
	module := opts.Module
	if module == "" {
		module = DefaultModule
	}
	return &Target{
		module: strings.Trim(module, `\`),
		layout: DefaultLayout.Merge(opts.Layout),
	}
}

func (t *Target) Name() string {
	return Name
}

func (t *Target) Layout() codegen.Layout {
	return t.layout
}

func (t *Target) Artifacts() []codegen.ArtifactSpec {
	return []codegen.ArtifactSpec{
		t.spec(codegen.KindModel, "model.php.tmpl", ""),
		t.spec(codegen.KindInterface, "interface.php.tmpl", "RepositoryInterface"),
		t.spec(codegen.KindRepository, "repository.php.tmpl", "Repository"),
		t.spec(codegen.KindController, "controller.php.tmpl", "Controller"),
	}
}

func (t *Target) spec(kind codegen.ArtifactKind, tmpl, suffix string) codegen.ArtifactSpec {
	return codegen.ArtifactSpec{
		Kind: kind,
		FileName: func(name naming.CanonicalName) string {
			return name.TypeName + suffix + ".php"
		},
		Template: mustTemplate(tmpl),
	}
}

func (t *Target) Data(name naming.CanonicalName) codegen.TemplateData {
	return codegen.TemplateData{
		TypeName:   name.TypeName,
		VarName:    name.VarName,
		Snake:      name.Snake(),
		Model:      t.pkg(codegen.KindModel),
		Interface:  t.pkg(codegen.KindInterface),
		Repository: t.pkg(codegen.KindRepository),
		Controller: t.pkg(codegen.KindController),
	}
}

func (t *Target) pkg(kind codegen.ArtifactKind) codegen.Package {
	ns := t.Namespace(t.layout.Dir(kind))
	return codegen.Package{Name: ns, Path: ns}
}

// Namespace maps a directory under the application root to its PSR-4
// namespace: the first element is the root itself, e.g. "app/Http/Controllers"
// becomes App\Http\Controllers.
func (t *Target) Namespace(dir string) string {
	parts := []string{t.module}
	segments := strings.Split(path.Clean(dir), "/")
	for _, seg := range segments[1:] {
		if seg == "" || seg == "." {
			continue
		}
		parts = append(parts, upperFirst(seg))
	}
	return strings.Join(parts, `\`)
}

func (t *Target) Binding(name naming.CanonicalName) registration.Binding {
	return registration.Binding{
		Interface: registration.Symbol{
			Name:    name.TypeName + "RepositoryInterface",
			Package: t.pkg(codegen.KindInterface).Path,
		},
		Implementation: registration.Symbol{
			Name:    name.TypeName + "Repository",
			Package: t.pkg(codegen.KindRepository).Path,
		},
	}
}

func (t *Target) Registration() codegen.RegistrationDefaults {
	return DefaultRegistration
}

func (t *Target) Dialect(container string) registration.Dialect {
	return registration.PHP(container)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func mustTemplate(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(b)
}
