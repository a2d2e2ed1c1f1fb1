package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/codegen/targets"
	"github.com/okra-platform/repokit/internal/config"
	"github.com/okra-platform/repokit/internal/filesystem"
	"github.com/okra-platform/repokit/internal/lock"
	"github.com/okra-platform/repokit/internal/scaffold"
)

// Dependencies are the collaborators shared by every command
type Dependencies struct {
	ConfigLoader ConfigLoader
	Registry     *codegen.Registry
	FileSystem   filesystem.FileSystem
	Runner       scaffold.CommandRunner
	Prompter     Prompter
	Output       Output
	Logger       zerolog.Logger
}

// Interfaces for dependency injection
type ConfigLoader interface {
	Load(flags *Flags) (*config.Config, error)
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) Load(flags *Flags) (*config.Config, error) {
	return config.Resolve(config.Options{
		Path:   flags.Config,
		Dir:    flags.Root,
		Target: flags.Target,
	})
}

// DefaultDependencies wires the real filesystem, terminal and global logger
func DefaultDependencies() Dependencies {
	return Dependencies{
		ConfigLoader: &defaultConfigLoader{},
		Registry:     targets.DefaultRegistry,
		FileSystem:   filesystem.NewOS(),
		Runner:       scaffold.NewCommandRunner(),
		Prompter:     &huhPrompter{},
		Output:       NewOutput(os.Stdout),
		Logger:       log.Logger,
	}
}

// newScaffolder builds the scaffolder a configuration describes
func newScaffolder(cfg *config.Config, deps Dependencies) (*scaffold.Scaffolder, error) {
	target, err := deps.Registry.Get(cfg.Target, codegen.Options{
		Module: cfg.Module,
		Layout: cfg.Paths,
	})
	if err != nil {
		return nil, err
	}

	opts := scaffold.Options{
		Root: cfg.Root,
		Registration: codegen.RegistrationDefaults{
			File:      cfg.Registration.File,
			Method:    cfg.Registration.Method,
			Container: cfg.Registration.Container,
		},
	}
	if cfg.Model.Generator == scaffold.ModelGeneratorArtisan {
		opts.Models = scaffold.NewArtisanModelGenerator(deps.Runner, cfg.Root, deps.Logger)
	}
	return scaffold.New(deps.FileSystem, target, opts, deps.Logger), nil
}

// runLocked scaffolds raw while holding the lock on the registration file.
// The lock file lives under the project's .repokit directory, not next to
// the registration file.
func runLocked(ctx context.Context, root string, s *scaffold.Scaffolder, raw string, logger zerolog.Logger) (*scaffold.Report, error) {
	l, err := lock.Acquire(ctx, lock.PathFor(root, s.RegistrationPath()))
	if err != nil {
		return nil, fmt.Errorf("failed to lock registration file: %w", err)
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn().Err(err).Msg("failed to release lock")
		}
	}()

	return s.Run(ctx, raw)
}
