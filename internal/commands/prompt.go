package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/repokit/internal/naming"
)

// Prompter asks the user for what the command line left out
type Prompter interface {
	ResourceName(opts ...tea.ProgramOption) (string, error)
	Target(detected string, opts ...tea.ProgramOption) (string, error)
}

type huhPrompter struct{}

func (p *huhPrompter) ResourceName(opts ...tea.ProgramOption) (string, error) {
	var name string
	if err := runForm(p.resourceNameForm(&name), opts...); err != nil {
		return "", err
	}
	return name, nil
}

func (p *huhPrompter) Target(detected string, opts ...tea.ProgramOption) (string, error) {
	target := detected
	if target == "" {
		target = "laravel"
	}
	if err := runForm(p.targetForm(&target), opts...); err != nil {
		return "", err
	}
	return target, nil
}

func (p *huhPrompter) resourceNameForm(name *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Resource name").
				Description("Model name, e.g. Product or order item").
				Value(name).
				Validate(func(s string) error {
					_, err := naming.Normalize(s)
					return err
				}),
		),
	)
}

func (p *huhPrompter) targetForm(target *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Target").
				Description("Kind of project to scaffold into").
				Options(
					huh.NewOption("Laravel", "laravel"),
					huh.NewOption("Go", "go"),
				).
				Value(target),
		),
	)
}

func runForm(form *huh.Form, opts ...tea.ProgramOption) error {
	if len(opts) > 0 {
		// For testing: run with provided options
		if _, err := tea.NewProgram(form, opts...).Run(); err != nil {
			return err
		}
	} else if err := form.Run(); err != nil {
		return err
	}

	if form.State == huh.StateAborted {
		return fmt.Errorf("prompt aborted")
	}
	return nil
}
