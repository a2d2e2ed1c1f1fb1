package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/okra-platform/repokit/internal/config"
	"github.com/okra-platform/repokit/internal/manifest"
	"github.com/okra-platform/repokit/internal/scaffold"
	"github.com/okra-platform/repokit/internal/watch"
)

// SyncCommand scaffolds every resource listed in the manifest
type SyncCommand struct {
	flags *Flags
	deps  Dependencies
}

// NewSyncCommand creates a sync command
func NewSyncCommand(flags *Flags, deps Dependencies) *SyncCommand {
	return &SyncCommand{flags: flags, deps: deps}
}

// Execute syncs once, then on every manifest change until ctx is done when
// watchManifest is set. Re-running is safe: existing artifacts and bindings
// are skipped, so only gaps are filled.
func (sc *SyncCommand) Execute(ctx context.Context, watchManifest bool) error {
	cfg, err := sc.deps.ConfigLoader.Load(sc.flags)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	s, err := newScaffolder(cfg, sc.deps)
	if err != nil {
		return err
	}

	err = sc.syncOnce(ctx, cfg, s)
	if !watchManifest {
		return err
	}
	if err != nil {
		sc.deps.Output.Printf("sync failed: %v\n", err)
	}

	fw, err := watch.NewFileWatcher(cfg.ManifestPath(), func(string) {
		if err := sc.syncOnce(ctx, cfg, s); err != nil {
			sc.deps.Output.Printf("sync failed: %v\n", err)
		}
	}, sc.deps.Logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	sc.deps.Output.Printf("Watching %s for changes\n", relPath(cfg.Root, cfg.ManifestPath()))
	if err := fw.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher error: %w", err)
	}
	return nil
}

func (sc *SyncCommand) syncOnce(ctx context.Context, cfg *config.Config, s *scaffold.Scaffolder) error {
	m, err := manifest.Load(cfg.ManifestPath())
	if err != nil {
		return err
	}

	names := m.Names()
	if len(names) == 0 {
		sc.deps.Output.Printf("No resources listed in %s\n", relPath(cfg.Root, cfg.ManifestPath()))
		return nil
	}

	var failed []string
	for _, name := range names {
		report, err := runLocked(ctx, cfg.Root, s, name, sc.deps.Logger)
		if err != nil {
			return err
		}
		sc.deps.Output.Printf("%s (%s)\n", report.Name, cfg.Target)
		printReport(sc.deps.Output, cfg.Root, report)
		if report.Failed() {
			failed = append(failed, report.Name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrFailed, failed)
	}
	return nil
}
