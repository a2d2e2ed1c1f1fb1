// Package lock serializes runs that patch the same registration file.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Dir is the directory under the project root that holds lock files
const Dir = ".repokit"

// PathFor names the lock file guarding file in the project at root
func PathFor(root, file string) string {
	return filepath.Join(root, Dir, filepath.Base(file)+".lock")
}

const retryInterval = 50 * time.Millisecond

// Lock is an advisory lock held on a lock file next to the guarded file
type Lock struct {
	f *os.File
}

// Acquire blocks until it holds the lock file at path or ctx is done. The
// lock is advisory: it only excludes other processes that take it too. A
// missing lock directory is created with a .gitignore that ignores it whole.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	if err := prepareDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()
	for {
		ok, err := tryLock(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to lock %s: %w", path, err)
		}
		if ok {
			return &Lock{f: f}, nil
		}

		select {
		case <-ctx.Done():
			f.Close()
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Release unlocks and closes the lock file. The file itself is left in
// place so concurrent waiters keep locking the same inode.
func (l *Lock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := unlock(l.f)
	if cerr := l.f.Close(); err == nil {
		err = cerr
	}
	l.f = nil
	return err
}

func prepareDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	ignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(ignore); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(ignore, []byte("*\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", ignore, err)
		}
	}
	return nil
}
