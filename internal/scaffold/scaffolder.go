// Package scaffold creates the artifacts of a resource and binds its
// repository in the registration file.
package scaffold

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/filesystem"
	"github.com/okra-platform/repokit/internal/naming"
	"github.com/okra-platform/repokit/internal/registration"
)

// RegistrationStep is the step name of the registration outcome
const RegistrationStep = "registration"

// Options configure a Scaffolder
type Options struct {
	// Root is the project root every layout path is relative to
	Root string

	// Registration locates the registration file; empty fields fall back to
	// the target's defaults
	Registration codegen.RegistrationDefaults

	// Models replaces the model template when set
	Models ModelGenerator
}

// Scaffolder runs normalize, plan, render, write and patch for one resource
// at a time. It is not safe for concurrent use against the same project.
type Scaffolder struct {
	target           codegen.Target
	planner          *Planner
	writer           *ArtifactWriter
	patcher          *registration.Patcher
	models           ModelGenerator
	registrationPath string
	logger           zerolog.Logger
}

// New creates a Scaffolder for target
func New(fsys filesystem.FileSystem, target codegen.Target, opts Options, logger zerolog.Logger) *Scaffolder {
	reg := target.Registration()
	if opts.Registration.File != "" {
		reg.File = opts.Registration.File
	}
	if opts.Registration.Method != "" {
		reg.Method = opts.Registration.Method
	}
	if opts.Registration.Container != "" {
		reg.Container = opts.Registration.Container
	}

	regPath := reg.File
	if !filepath.IsAbs(regPath) {
		regPath = filepath.Join(opts.Root, filepath.FromSlash(regPath))
	}

	return &Scaffolder{
		target:           target,
		planner:          NewPlanner(fsys, opts.Root, target),
		writer:           NewArtifactWriter(fsys, logger),
		patcher:          registration.NewPatcher(fsys, target.Dialect(reg.Container), reg.Method, logger),
		models:           opts.Models,
		registrationPath: regPath,
		logger:           logger.With().Str("component", "scaffold").Str("target", target.Name()).Logger(),
	}
}

// RegistrationPath returns the registration file this scaffolder patches
func (s *Scaffolder) RegistrationPath() string {
	return s.registrationPath
}

// Plan normalizes raw and returns the artifact plans without writing anything
func (s *Scaffolder) Plan(raw string) ([]Plan, error) {
	name, err := naming.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return s.planner.Plan(name), nil
}

// Registered reports whether the repository of the resource named raw is
// already bound in the registration file. Nothing is written.
func (s *Scaffolder) Registered(raw string) (bool, error) {
	name, err := naming.Normalize(raw)
	if err != nil {
		return false, err
	}

	file, err := s.patcher.Inspect(s.registrationPath)
	if err != nil {
		return false, err
	}
	return file.Bound(s.target.Binding(name)), nil
}

// Run scaffolds the resource named raw. An invalid name aborts before any
// I/O; otherwise every step runs and its outcome is recorded in the report.
// A failed artifact does not stop its siblings, and the registration patch
// always runs last.
func (s *Scaffolder) Run(ctx context.Context, raw string) (*Report, error) {
	name, err := naming.Normalize(raw)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := s.logger.With().Str("resource", name.TypeName).Logger()
	logger.Info().Msg("scaffolding resource")

	report := &Report{Name: name.TypeName}
	data := s.target.Data(name)
	specs := s.target.Artifacts()
	for i, plan := range s.planner.Plan(name) {
		report.Artifacts = append(report.Artifacts, s.produce(ctx, name, plan, specs[i], data))
	}

	report.Registration = s.register(ctx, name)

	if report.Failed() {
		logger.Warn().Err(report.Err()).Msg("scaffolding finished with failures")
	} else {
		logger.Info().Msg("scaffolding finished")
	}
	return report, nil
}

func (s *Scaffolder) produce(ctx context.Context, name naming.CanonicalName, plan Plan, spec codegen.ArtifactSpec, data codegen.TemplateData) Outcome {
	out := Outcome{Step: plan.Kind.String(), Path: plan.Path}
	if plan.Exists {
		return s.writer.Write(Artifact{Plan: plan})
	}

	if plan.Kind == codegen.KindModel && s.models != nil {
		if err := s.models.Generate(ctx, name, plan); err != nil {
			return failed(out, err)
		}
		out.Status = StatusCreated
		return out
	}

	content, err := codegen.Render(spec, data)
	if err != nil {
		return failed(out, err)
	}
	return s.writer.Write(Artifact{Plan: plan, Content: content})
}

func (s *Scaffolder) register(ctx context.Context, name naming.CanonicalName) Outcome {
	out := Outcome{Step: RegistrationStep, Path: s.registrationPath}

	res, err := s.patcher.Patch(ctx, s.registrationPath, s.target.Binding(name))
	if err != nil {
		return failed(out, err)
	}

	if res == registration.ResultAlreadyBound {
		out.Status = StatusAlreadyBound
	} else {
		out.Status = StatusBound
	}
	return out
}
