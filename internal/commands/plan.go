package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// PlanCommand prints what make would do for a resource
type PlanCommand struct {
	flags *Flags
	deps  Dependencies
}

// NewPlanCommand creates a plan command
func NewPlanCommand(flags *Flags, deps Dependencies) *PlanCommand {
	return &PlanCommand{flags: flags, deps: deps}
}

// Execute prints one line per artifact and the registration file. Nothing
// is written.
func (pc *PlanCommand) Execute(ctx context.Context, name string) error {
	cfg, err := pc.deps.ConfigLoader.Load(pc.flags)
	if err != nil {
		return fmt.Errorf("failed to load project config: %w", err)
	}

	if name == "" {
		name, err = pc.deps.Prompter.ResourceName()
		if err != nil {
			return fmt.Errorf("failed to read resource name: %w", err)
		}
	}

	s, err := newScaffolder(cfg, pc.deps)
	if err != nil {
		return err
	}
	plans, err := s.Plan(name)
	if err != nil {
		return err
	}

	for _, p := range plans {
		action := color.GreenString("%-9s", "create")
		if p.Exists {
			action = color.YellowString("%-9s", "skip")
		}
		pc.deps.Output.Printf("  %s %-12s %s\n", action, p.Kind, relPath(cfg.Root, p.Path))
	}
	line := fmt.Sprintf("%-12s %s", "registration", relPath(cfg.Root, s.RegistrationPath()))
	bound, err := s.Registered(name)
	switch {
	case err != nil:
		pc.deps.Output.Printf("  %s %s: %v\n", color.RedString("%-9s", "error"), line, err)
	case bound:
		pc.deps.Output.Printf("  %s %s\n", color.YellowString("%-9s", "skip"), line)
	default:
		pc.deps.Output.Printf("  %s %s\n", color.CyanString("%-9s", "patch"), line)
	}
	return nil
}
