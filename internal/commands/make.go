package commands

import (
	"context"
	"fmt"

	"github.com/okra-platform/repokit/internal/naming"
)

// MakeCommand scaffolds a single resource
type MakeCommand struct {
	flags *Flags
	deps  Dependencies
}

// NewMakeCommand creates a make command
func NewMakeCommand(flags *Flags, deps Dependencies) *MakeCommand {
	return &MakeCommand{flags: flags, deps: deps}
}

// Execute runs the make command
func (mc *MakeCommand) Execute(ctx context.Context, name string) error {
	cfg, err := mc.deps.ConfigLoader.Load(mc.flags)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	if name == "" {
		name, err = mc.deps.Prompter.ResourceName()
		if err != nil {
			return fmt.Errorf("failed to read resource name: %w", err)
		}
	}
	if _, err := naming.Normalize(name); err != nil {
		return err
	}

	s, err := newScaffolder(cfg, mc.deps)
	if err != nil {
		return err
	}

	report, err := runLocked(ctx, cfg.Root, s, name, mc.deps.Logger)
	if err != nil {
		return err
	}

	mc.deps.Output.Printf("%s (%s)\n", report.Name, cfg.Target)
	printReport(mc.deps.Output, cfg.Root, report)
	if report.Failed() {
		return fmt.Errorf("%w: %s", ErrFailed, report.Name)
	}
	return nil
}
