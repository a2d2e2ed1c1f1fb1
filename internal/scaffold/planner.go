package scaffold

import (
	"path/filepath"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/filesystem"
	"github.com/okra-platform/repokit/internal/naming"
)

// Plan is the decision for one artifact: where it goes and whether it is
// already there
type Plan struct {
	Kind   codegen.ArtifactKind
	Path   string
	Exists bool
}

// Planner computes artifact paths from a target's layout and probes them
type Planner struct {
	fs     filesystem.FileSystem
	root   string
	target codegen.Target
}

// NewPlanner creates a planner for the project rooted at root
func NewPlanner(fsys filesystem.FileSystem, root string, target codegen.Target) *Planner {
	return &Planner{fs: fsys, root: root, target: target}
}

// Plan returns one plan per artifact kind in generation order. A missing
// directory is not an error; it is created when the artifact is written.
func (p *Planner) Plan(name naming.CanonicalName) []Plan {
	layout := p.target.Layout()
	specs := p.target.Artifacts()

	plans := make([]Plan, 0, len(specs))
	for _, spec := range specs {
		path := filepath.Join(p.root, filepath.FromSlash(layout.Dir(spec.Kind)), spec.FileName(name))
		plans = append(plans, Plan{
			Kind:   spec.Kind,
			Path:   path,
			Exists: filesystem.Exists(p.fs, path),
		})
	}
	return plans
}
