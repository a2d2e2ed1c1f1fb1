// Package codegen describes the artifacts a target emits and renders them
package codegen

import (
	"github.com/okra-platform/repokit/internal/naming"
	"github.com/okra-platform/repokit/internal/registration"
)

// ArtifactKind identifies one of the generated source files
type ArtifactKind int

const (
	KindModel ArtifactKind = iota
	KindInterface
	KindRepository
	KindController
)

// ArtifactKinds lists every kind in generation order
var ArtifactKinds = []ArtifactKind{KindModel, KindInterface, KindRepository, KindController}

// String returns the kind name
func (k ArtifactKind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindInterface:
		return "interface"
	case KindRepository:
		return "repository"
	case KindController:
		return "controller"
	default:
		return "unknown"
	}
}

// Layout holds the base directory of each artifact kind, relative to the project root
type Layout struct {
	Models       string `json:"models,omitempty"`
	Interfaces   string `json:"interfaces,omitempty"`
	Repositories string `json:"repositories,omitempty"`
	Controllers  string `json:"controllers,omitempty"`
}

// Dir returns the base directory for kind
func (l Layout) Dir(kind ArtifactKind) string {
	switch kind {
	case KindModel:
		return l.Models
	case KindInterface:
		return l.Interfaces
	case KindRepository:
		return l.Repositories
	case KindController:
		return l.Controllers
	default:
		return ""
	}
}

// Merge returns l with every non-empty field of o applied on top
func (l Layout) Merge(o Layout) Layout {
	if o.Models != "" {
		l.Models = o.Models
	}
	if o.Interfaces != "" {
		l.Interfaces = o.Interfaces
	}
	if o.Repositories != "" {
		l.Repositories = o.Repositories
	}
	if o.Controllers != "" {
		l.Controllers = o.Controllers
	}
	return l
}

// Package locates generated code: a Go package or a PHP namespace
type Package struct {
	// Name is how code refers to the package (Go package name or PHP namespace)
	Name string

	// Path is the Go import path or the PHP namespace
	Path string
}

// Same reports whether p and o are the same package
func (p Package) Same(o Package) bool {
	return p.Path == o.Path
}

// TemplateData holds every substitution slot available to artifact templates
type TemplateData struct {
	TypeName string
	VarName  string
	Snake    string

	Model      Package
	Interface  Package
	Repository Package
	Controller Package
}

// ArtifactSpec describes how one kind of artifact is named and rendered.
// Targets expose one spec per kind; adding a kind is adding a spec.
type ArtifactSpec struct {
	Kind     ArtifactKind
	FileName func(name naming.CanonicalName) string
	Template string

	// Format post-processes rendered output; nil leaves it as is
	Format func(src []byte) ([]byte, error)
}

// RegistrationDefaults locate the registration file of a target
type RegistrationDefaults struct {
	File      string
	Method    string
	Container string
}

// Options configure a target
type Options struct {
	// Module is the Go module path or the PHP root namespace
	Module string

	// Layout overrides the target's default directories
	Layout Layout
}

// Target is a family of artifacts plus the registration file they are wired into
type Target interface {
	// Name returns the target name (e.g., "go", "laravel")
	Name() string

	// Layout returns the effective directory layout
	Layout() Layout

	// Artifacts returns one spec per kind, in generation order
	Artifacts() []ArtifactSpec

	// Data computes the template slots for a resource
	Data(name naming.CanonicalName) TemplateData

	// Binding returns the interface-to-implementation binding for a resource
	Binding(name naming.CanonicalName) registration.Binding

	// Registration returns where bindings are registered by default
	Registration() RegistrationDefaults

	// Dialect returns the registration file dialect using the given container expression
	Dialect(container string) registration.Dialect
}
