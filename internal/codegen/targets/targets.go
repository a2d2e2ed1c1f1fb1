// Package targets wires the built-in targets into a registry
package targets

import (
	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/codegen/golang"
	"github.com/okra-platform/repokit/internal/codegen/laravel"
)

// DefaultRegistry is the default target registry with built-in targets
var DefaultRegistry = NewRegistry()

// NewRegistry returns a registry holding every built-in target
func NewRegistry() *codegen.Registry {
	r := codegen.NewRegistry()
	r.Register(golang.Name, golang.NewTarget)
	r.Register(laravel.Name, laravel.NewTarget)
	r.Register("php", laravel.NewTarget)
	return r
}
