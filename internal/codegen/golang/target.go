// Package golang is the Go target: gorm repositories, net/http controllers
// and a Register function binding interfaces to constructors.
package golang

import (
	"embed"
	"go/format"
	"path"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/naming"
	"github.com/okra-platform/repokit/internal/registration"
)

// Name is the target name used in configuration and on the command line
const Name = "go"

//go:embed templates/*.tmpl
var templates embed.FS

// DefaultLayout is where artifacts go when the configuration names no paths
var DefaultLayout = codegen.Layout{
	Models:       "internal/models",
	Interfaces:   "internal/repositories",
	Repositories: "internal/repositories",
	Controllers:  "internal/controllers",
}

// DefaultRegistration locates the provider function bindings are added to
var DefaultRegistration = codegen.RegistrationDefaults{
	File:      "internal/providers/providers.go",
	Method:    "Register",
	Container: registration.DefaultGoContainer,
}

// Target generates Go artifacts
type Target struct {
	module string
	layout codegen.Layout
}

// NewTarget creates a Go target. opts.Module is the module path read from
// go.mod; layout fields left empty fall back to DefaultLayout.
func NewTarget(opts codegen.Options) codegen.Target {
	return &Target{
		module: opts.Module,
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
		t.spec(codegen.KindModel, "model.go.tmpl", ""),
		t.spec(codegen.KindInterface, "interface.go.tmpl", "_repository_interface"),
		t.spec(codegen.KindRepository, "repository.go.tmpl", "_repository"),
		t.spec(codegen.KindController, "controller.go.tmpl", "_controller"),
	}
}

func (t *Target) spec(kind codegen.ArtifactKind, tmpl, suffix string) codegen.ArtifactSpec {
	return codegen.ArtifactSpec{
		Kind: kind,
		FileName: func(name naming.CanonicalName) string {
			return name.Snake() + suffix + ".go"
		},
		Template: mustTemplate(tmpl),
		Format:   format.Source,
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

// pkg derives the package of a kind from its directory; the package name
// is the last path element, as Go tooling expects.
func (t *Target) pkg(kind codegen.ArtifactKind) codegen.Package {
	dir := path.Clean(t.layout.Dir(kind))
	return codegen.Package{
		Name: path.Base(dir),
		Path: path.Join(t.module, dir),
	}
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
		Constructor: "New" + name.TypeName + "Repository",
	}
}

func (t *Target) Registration() codegen.RegistrationDefaults {
	return DefaultRegistration
}

func (t *Target) Dialect(container string) registration.Dialect {
	return registration.Go(container)
}

func mustTemplate(name string) string {
	b, err := templates.ReadFile("templates/" + name)
	if err != nil {
		panic(err)
	}
	return string(b)
}
