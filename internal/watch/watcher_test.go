package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	fw := &FileWatcher{path: "/project/resources.yaml"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: "/project/resources.yaml", Op: fsnotify.Write}, true},
		{"create after rename", fsnotify.Event{Name: "/project/resources.yaml", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "/project/resources.yaml", Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: "/project/resources.yaml", Op: fsnotify.Remove}, false},
		{"sibling file", fsnotify.Event{Name: "/project/repokit.json", Op: fsnotify.Write}, false},
		{"editor swap file", fsnotify.Event{Name: "/project/.resources.yaml.swp", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fw.shouldWatch(tt.event))
		})
	}
}

func TestFileWatcher_Integration(t *testing.T) {
	// Test: A burst of writes to the watched file triggers one callback,
	// writes to siblings trigger none
	dir := t.TempDir()
	path := filepath.Join(dir, "resources.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resources: []\n"), 0o644))

	var (
		mu    sync.Mutex
		calls []string
	)
	fw, err := NewFileWatcher(path, func(p string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, p)
	}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()
	fw.SetDebounce(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- fw.Start(ctx) }()

	// Give the watcher time to start
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	for _, content := range []string{"resources: [a]\n", "resources: [a, b]\n"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) == 1
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	abs, _ := filepath.Abs(path)
	assert.Equal(t, []string{abs}, calls)
	mu.Unlock()

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNewFileWatcher_MissingDirectory(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", "resources.yaml"), func(string) {}, zerolog.Nop())
	assert.Error(t, err)
}
