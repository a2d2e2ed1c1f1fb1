package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/repokit/internal/commands"
)

const appServiceProvider = `<?php

namespace App\Providers;

use Illuminate\Support\ServiceProvider;

class AppServiceProvider extends ServiceProvider
{
    public function register(): void
    {
        //
    }
}
`

func run(t *testing.T, args ...string) error {
	t.Helper()
	return newApp(&commands.Flags{}).Run(context.Background(), append([]string{"repokit"}, args...))
}

func TestApp_MakeLaravel(t *testing.T) {
	// Test: make through the command tree, twice
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "artisan"), []byte(""), 0o755))
	provider := filepath.Join(root, "app", "Providers", "AppServiceProvider.php")
	require.NoError(t, os.MkdirAll(filepath.Dir(provider), 0o755))
	require.NoError(t, os.WriteFile(provider, []byte(appServiceProvider), 0o644))

	for i := 0; i < 2; i++ {
		require.NoError(t, run(t, "--root", root, "make", "order-item"))
	}

	assert.FileExists(t, filepath.Join(root, "app", "Http", "Controllers", "OrderItemController.php"))
	b, err := os.ReadFile(provider)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(b), "OrderItemRepositoryInterface::class"))
	assert.NoFileExists(t, provider+".lock")
	assert.FileExists(t, filepath.Join(root, ".repokit", "AppServiceProvider.php.lock"))
}

func TestApp_MakeFailureIsReported(t *testing.T) {
	// Test: a failed step surfaces as ErrFailed for a non-zero exit
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/shop\n"), 0o644))

	err := run(t, "--root", root, "make", "invoice")
	assert.ErrorIs(t, err, commands.ErrFailed)
	assert.FileExists(t, filepath.Join(root, "internal", "repositories", "invoice_repository.go"))
}

func TestApp_InitWithTarget(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, run(t, "--root", root, "--target", "laravel", "init"))
	assert.FileExists(t, filepath.Join(root, "repokit.json"))
	assert.FileExists(t, filepath.Join(root, "resources.yaml"))
}

func TestApp_InvalidLogLevel(t *testing.T) {
	err := run(t, "--log-level", "loud", "plan", "invoice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse log level")
}

func TestBuild(t *testing.T) {
	assert.Equal(t, "dev (HEAD) now", build())
}
