package scaffold

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/okra-platform/repokit/internal/naming"
)

// Model generator names accepted in configuration
const (
	ModelGeneratorTemplate = "template"
	ModelGeneratorArtisan  = "artisan"
)

// ModelGenerator produces the model artifact in place of its template
type ModelGenerator interface {
	Generate(ctx context.Context, name naming.CanonicalName, plan Plan) error
}

// CommandRunner runs an external command in dir
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

type execRunner struct{}

// NewCommandRunner returns a CommandRunner backed by os/exec
func NewCommandRunner() CommandRunner {
	return &execRunner{}
}

// Run captures the command's combined output and returns it with the error
func (r *execRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return err
		}
		return fmt.Errorf("%w: %s", err, msg)
	}
	return nil
}

// ArtisanModelGenerator delegates model creation to
// `php artisan make:model Name --migration`, which also creates the migration
type ArtisanModelGenerator struct {
	runner CommandRunner
	root   string
	logger zerolog.Logger
}

// NewArtisanModelGenerator creates a generator running artisan in root
func NewArtisanModelGenerator(runner CommandRunner, root string, logger zerolog.Logger) *ArtisanModelGenerator {
	return &ArtisanModelGenerator{
		runner: runner,
		root:   root,
		logger: logger.With().Str("component", "artisan").Logger(),
	}
}

func (g *ArtisanModelGenerator) Generate(ctx context.Context, name naming.CanonicalName, plan Plan) error {
	g.logger.Debug().Str("model", name.TypeName).Msg("running make:model")
	if err := g.runner.Run(ctx, g.root, "php", "artisan", "make:model", name.TypeName, "--migration"); err != nil {
		return fmt.Errorf("%w: artisan make:model %s: %v", ErrWrite, name.TypeName, err)
	}
	return nil
}
