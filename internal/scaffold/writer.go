package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/repokit/internal/filesystem"
)

// ErrWrite is returned when an artifact could not be written
var ErrWrite = errors.New("write failed")

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Artifact is a planned artifact together with its rendered content
type Artifact struct {
	Plan
	Content []byte
}

// ArtifactWriter writes artifacts that do not exist yet
type ArtifactWriter struct {
	fs     filesystem.FileSystem
	logger zerolog.Logger
}

// NewArtifactWriter creates a writer over fsys
func NewArtifactWriter(fsys filesystem.FileSystem, logger zerolog.Logger) *ArtifactWriter {
	return &ArtifactWriter{
		fs:     fsys,
		logger: logger.With().Str("component", "writer").Logger(),
	}
}

// Write creates the artifact's parent directories and writes it atomically.
// An artifact that already exists is skipped untouched.
func (w *ArtifactWriter) Write(a Artifact) Outcome {
	out := Outcome{Step: a.Kind.String(), Path: a.Path}
	if a.Exists {
		w.logger.Debug().Str("path", a.Path).Msg("artifact exists, skipping")
		out.Status = StatusSkipped
		return out
	}

	if err := w.fs.MkdirAll(filepath.Dir(a.Path), dirPerm); err != nil {
		return failed(out, fmt.Errorf("%w: create directory for %s: %v", ErrWrite, a.Path, err))
	}
	if err := w.fs.WriteFile(a.Path, a.Content, filePerm); err != nil {
		return failed(out, fmt.Errorf("%w: %s: %v", ErrWrite, a.Path, err))
	}

	w.logger.Debug().Str("path", a.Path).Int("bytes", len(a.Content)).Msg("artifact written")
	out.Status = StatusCreated
	return out
}

func failed(out Outcome, err error) Outcome {
	out.Status = StatusFailed
	out.Err = err
	return out
}
