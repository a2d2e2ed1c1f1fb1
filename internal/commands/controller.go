// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"errors"
)

// ErrFailed is returned when a run completed but some of its steps failed
var ErrFailed = errors.New("one or more steps failed")

type Flags struct {
	LogLevel string
	Config   string
	Target   string
	Root     string
}

type Controller struct {
	Flags *Flags
	deps  *Dependencies
}

// NewController creates a controller with default dependencies
func NewController(flags *Flags) *Controller {
	return &Controller{Flags: flags}
}

// WithDependencies replaces the default dependencies, for tests
func (c *Controller) WithDependencies(deps Dependencies) *Controller {
	c.deps = &deps
	return c
}

func (c *Controller) dependencies() Dependencies {
	if c.deps != nil {
		return *c.deps
	}
	return DefaultDependencies()
}

// Make scaffolds one resource; an empty name is prompted for
func (c *Controller) Make(ctx context.Context, name string) error {
	return NewMakeCommand(c.Flags, c.dependencies()).Execute(ctx, name)
}

// Plan shows what Make would do without writing anything
func (c *Controller) Plan(ctx context.Context, name string) error {
	return NewPlanCommand(c.Flags, c.dependencies()).Execute(ctx, name)
}

// Sync scaffolds every resource in the manifest, then keeps doing so on
// each manifest change when watch is set
func (c *Controller) Sync(ctx context.Context, watch bool) error {
	return NewSyncCommand(c.Flags, c.dependencies()).Execute(ctx, watch)
}

// Init writes repokit.json and an empty manifest for the current project
func (c *Controller) Init(ctx context.Context) error {
	return NewInitCommand(c.Flags, c.dependencies()).Execute(ctx)
}
