package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/okra-platform/repokit/internal/config"
	"github.com/okra-platform/repokit/internal/filesystem"
)

const emptyManifest = `# Resources scaffolded by "repokit sync"
resources: []
`

// InitCommand writes the configuration for an existing project
type InitCommand struct {
	flags *Flags
	deps  Dependencies
}

// NewInitCommand creates an init command
func NewInitCommand(flags *Flags, deps Dependencies) *InitCommand {
	return &InitCommand{flags: flags, deps: deps}
}

// Execute writes repokit.json with the chosen target and an empty manifest
// next to it. An existing configuration is never overwritten.
func (ic *InitCommand) Execute(ctx context.Context) error {
	root := ic.flags.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		root = wd
	}

	path := filepath.Join(root, config.FileName)
	if filesystem.Exists(ic.deps.FileSystem, path) {
		return fmt.Errorf("%s already exists", path)
	}

	target := ic.flags.Target
	if target == "" {
		detected, _ := config.DetectTarget(root)
		var err error
		target, err = ic.deps.Prompter.Target(detected)
		if err != nil {
			return fmt.Errorf("failed to get target: %w", err)
		}
	}

	cfg, err := config.Default(root, target)
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	ic.deps.Output.Printf("Created %s (%s)\n", config.FileName, cfg.Target)

	if manifestPath := cfg.ManifestPath(); !filesystem.Exists(ic.deps.FileSystem, manifestPath) {
		if err := ic.deps.FileSystem.WriteFile(manifestPath, []byte(emptyManifest), 0o644); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
		ic.deps.Output.Printf("Created %s\n", relPath(root, manifestPath))
	}
	return nil
}
