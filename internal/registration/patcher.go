// Package registration patches the central registration file that binds
// repository interfaces to their implementations.
package registration

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/okra-platform/repokit/internal/filesystem"
)

// Result is the outcome of a successful patch
type Result int

const (
	// ResultBound means a new binding was written
	ResultBound Result = iota + 1

	// ResultAlreadyBound means the interface was bound before; the file was not touched
	ResultAlreadyBound
)

// String returns the result name
func (r Result) String() string {
	switch r {
	case ResultBound:
		return "bound"
	case ResultAlreadyBound:
		return "already bound"
	default:
		return "unknown"
	}
}

// Patcher adds bindings to a registration file. It performs an unguarded
// read-modify-write; callers running concurrently against the same file must
// serialize externally.
type Patcher struct {
	fs      filesystem.FileSystem
	dialect Dialect
	method  string
	logger  zerolog.Logger
}

// NewPatcher creates a patcher for registration files of the given dialect
// whose bindings live in the named method
func NewPatcher(fsys filesystem.FileSystem, d Dialect, method string, logger zerolog.Logger) *Patcher {
	return &Patcher{
		fs:      fsys,
		dialect: d,
		method:  method,
		logger:  logger.With().Str("component", "registration").Str("dialect", d.Name()).Logger(),
	}
}

// Patch binds b in the file at path. The file is written at most once and
// only after every anchor was found and the result validated.
func (p *Patcher) Patch(ctx context.Context, path string, b Binding) (Result, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := p.fs.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to read %s: %v", ErrIO, path, err)
	}
	text := string(data)

	imports := p.dialect.ExistingImports(text)
	if s := scan(text, p.dialect.Syntax()); s.find(p.dialect.BoundPattern(b, imports), 0) != nil {
		p.logger.Debug().Str("interface", b.Interface.Name).Msg("binding already present")
		return ResultAlreadyBound, nil
	}

	file, err := Parse(text, p.dialect, p.method)
	if err != nil {
		var anchorErr *AnchorError
		if errors.As(err, &anchorErr) {
			anchorErr.Path = path
		}
		p.logger.Error().Err(err).Str("path", path).Msg("registration file not recognized")
		return 0, err
	}

	for _, imp := range p.dialect.Imports(b) {
		if !file.AddImport(imp) {
			p.logger.Debug().Str("import", imp).Msg("import already present")
		}
	}
	file.AddBinding(b)

	patched, err := p.dialect.Finalize([]byte(file.Render()))
	if err != nil {
		return 0, err
	}

	if err := p.fs.WriteFile(path, patched, 0644); err != nil {
		return 0, fmt.Errorf("%w: failed to write %s: %v", ErrIO, path, err)
	}

	p.logger.Info().
		Str("path", path).
		Str("interface", b.Interface.Name).
		Str("implementation", b.Implementation.Name).
		Int("bindings", len(file.Bindings())).
		Msg("registration file patched")

	return ResultBound, nil
}

// Inspect parses the registration file at path without modifying it
func (p *Patcher) Inspect(path string) (*File, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrIO, path)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrIO, path, err)
	}

	file, err := Parse(string(data), p.dialect, p.method)
	if err != nil {
		var anchorErr *AnchorError
		if errors.As(err, &anchorErr) {
			anchorErr.Path = path
		}
		return nil, err
	}
	return file, nil
}
