package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/repokit/internal/codegen"
	"github.com/okra-platform/repokit/internal/codegen/golang"
	"github.com/okra-platform/repokit/internal/codegen/laravel"
	"github.com/okra-platform/repokit/internal/filesystem"
	"github.com/okra-platform/repokit/internal/naming"
	"github.com/okra-platform/repokit/internal/registration"
)

// Test plan:
// 1. End-to-end "invoice": four artifacts created, provider bound
// 2. Second run skips every artifact and reports AlreadyBound
// 3. A failed artifact write leaves its siblings unaffected
// 4. Invalid names abort before any I/O
// 5. Missing registration anchors fail only the patch step
// 6. Model creation can be delegated to artisan

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

const goProviders = `package providers

import (
	"example.com/shop/internal/container"
)

// Register binds repository interfaces to their implementations.
func Register(c *container.Container) {
}
`

func laravelProject(t *testing.T, provider string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "app", "Providers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AppServiceProvider.php"), []byte(provider), 0o644))
	return root
}

func newLaravelScaffolder(root string, opts Options) *Scaffolder {
	opts.Root = root
	return New(filesystem.NewOS(), laravel.NewTarget(codegen.Options{}), opts, zerolog.Nop())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func statuses(outcomes []Outcome) []Status {
	out := make([]Status, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.Status)
	}
	return out
}

func TestScaffolder_Invoice(t *testing.T) {
	// Test: Fresh project gets four artifacts and one binding
	root := laravelProject(t, appServiceProvider)
	s := newLaravelScaffolder(root, Options{})

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)
	require.False(t, report.Failed(), "%v", report.Err())

	assert.Equal(t, "Invoice", report.Name)
	assert.Equal(t, []Status{StatusCreated, StatusCreated, StatusCreated, StatusCreated}, statuses(report.Artifacts))
	assert.Equal(t, StatusBound, report.Registration.Status)

	expected := []string{
		"app/Models/Invoice.php",
		"app/Repositories/InvoiceRepositoryInterface.php",
		"app/Repositories/InvoiceRepository.php",
		"app/Http/Controllers/InvoiceController.php",
	}
	for i, rel := range expected {
		path := filepath.Join(root, filepath.FromSlash(rel))
		assert.Equal(t, path, report.Artifacts[i].Path)
		assert.FileExists(t, path)
	}
	assert.Contains(t, readFile(t, filepath.Join(root, expected[2])), "class InvoiceRepository implements InvoiceRepositoryInterface")

	provider := readFile(t, s.RegistrationPath())
	assert.Contains(t, provider, "use App\\Repositories\\InvoiceRepositoryInterface;\nuse App\\Repositories\\InvoiceRepository;")
	assert.Contains(t, provider, "$this->app->bind(\n            InvoiceRepositoryInterface::class,\n            InvoiceRepository::class\n        );")
}

func TestScaffolder_Idempotent(t *testing.T) {
	// Test: Second run changes nothing and says so
	root := laravelProject(t, appServiceProvider)
	s := newLaravelScaffolder(root, Options{})

	_, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	snapshot := map[string]string{}
	require.NoError(t, filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			snapshot[path] = readFile(t, path)
		}
		return err
	}))

	report, err := s.Run(context.Background(), "INVOICE")
	require.NoError(t, err)
	assert.Equal(t, []Status{StatusSkipped, StatusSkipped, StatusSkipped, StatusSkipped}, statuses(report.Artifacts))
	assert.Equal(t, StatusAlreadyBound, report.Registration.Status)

	for path, content := range snapshot {
		assert.Equal(t, content, readFile(t, path), path)
	}
	assert.Equal(t, 1, strings.Count(readFile(t, s.RegistrationPath()), "InvoiceRepositoryInterface::class"))
}

func TestScaffolder_AccumulatesResources(t *testing.T) {
	// Test: Each resource adds one binding, earlier ones stay intact
	root := laravelProject(t, appServiceProvider)
	s := newLaravelScaffolder(root, Options{})

	for _, name := range []string{"invoice", "order item", "product"} {
		report, err := s.Run(context.Background(), name)
		require.NoError(t, err)
		require.False(t, report.Failed())
	}

	provider := readFile(t, s.RegistrationPath())
	assert.Equal(t, 3, strings.Count(provider, "$this->app->bind("))
	product := strings.Index(provider, "ProductRepositoryInterface::class")
	orderItem := strings.Index(provider, "OrderItemRepositoryInterface::class")
	invoice := strings.Index(provider, "InvoiceRepositoryInterface::class")
	assert.True(t, product < orderItem && orderItem < invoice, "bindings are newest first")
}

func TestScaffolder_IndependentArtifactFailure(t *testing.T) {
	// Test: A blocked model directory fails only the model artifact
	root := laravelProject(t, appServiceProvider)
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "Models"), []byte("not a directory"), 0o644))
	s := newLaravelScaffolder(root, Options{})

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	assert.True(t, report.Failed())
	assert.Equal(t, []Status{StatusFailed, StatusCreated, StatusCreated, StatusCreated}, statuses(report.Artifacts))
	assert.ErrorIs(t, report.Artifacts[0].Err, ErrWrite)
	assert.Equal(t, StatusBound, report.Registration.Status)
	assert.ErrorIs(t, report.Err(), ErrWrite)
}

func TestScaffolder_InvalidName(t *testing.T) {
	// Test: Unusable names abort before touching the filesystem
	for _, raw := range []string{"", "   ", "--", "9lives"} {
		t.Run(raw, func(t *testing.T) {
			root := laravelProject(t, appServiceProvider)
			s := newLaravelScaffolder(root, Options{})

			report, err := s.Run(context.Background(), raw)
			assert.ErrorIs(t, err, naming.ErrInvalidName)
			assert.Nil(t, report)
			assert.NoDirExists(t, filepath.Join(root, "app", "Models"))
			assert.Equal(t, appServiceProvider, readFile(t, s.RegistrationPath()))

			_, err = s.Plan(raw)
			assert.ErrorIs(t, err, naming.ErrInvalidName)
		})
	}
}

func TestScaffolder_AnchorMissing(t *testing.T) {
	// Test: An unrecognized provider fails the patch and stays byte-identical
	provider := strings.Replace(appServiceProvider, "function register()", "function boot()", 1)
	root := laravelProject(t, provider)
	s := newLaravelScaffolder(root, Options{})

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	assert.Equal(t, []Status{StatusCreated, StatusCreated, StatusCreated, StatusCreated}, statuses(report.Artifacts))
	assert.Equal(t, StatusFailed, report.Registration.Status)
	assert.ErrorIs(t, report.Registration.Err, registration.ErrAnchorNotFound)
	assert.Equal(t, provider, readFile(t, s.RegistrationPath()))
}

func TestScaffolder_Plan(t *testing.T) {
	// Test: Plans report existence and never write
	root := laravelProject(t, appServiceProvider)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app", "Models"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "Models", "Invoice.php"), []byte("<?php\n"), 0o644))
	s := newLaravelScaffolder(root, Options{})

	plans, err := s.Plan("invoice")
	require.NoError(t, err)
	require.Len(t, plans, 4)

	kinds := make([]codegen.ArtifactKind, 0, len(plans))
	for _, p := range plans {
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, codegen.ArtifactKinds, kinds)
	assert.True(t, plans[0].Exists)
	assert.False(t, plans[1].Exists)
	assert.NoDirExists(t, filepath.Join(root, "app", "Repositories"))
}

func TestScaffolder_Registered(t *testing.T) {
	// Test: Registered follows the patch without writing anything itself
	root := laravelProject(t, appServiceProvider)
	s := newLaravelScaffolder(root, Options{})

	bound, err := s.Registered("invoice")
	require.NoError(t, err)
	assert.False(t, bound)
	assert.Equal(t, appServiceProvider, readFile(t, s.RegistrationPath()))

	_, err = s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	bound, err = s.Registered("invoice")
	require.NoError(t, err)
	assert.True(t, bound)

	bound, err = s.Registered("sales invoice")
	require.NoError(t, err)
	assert.False(t, bound)

	_, err = s.Registered("  ")
	assert.ErrorIs(t, err, naming.ErrInvalidName)

	missing := newLaravelScaffolder(t.TempDir(), Options{})
	_, err = missing.Registered("invoice")
	assert.ErrorIs(t, err, registration.ErrIO)
}

func TestScaffolder_RegistrationOverride(t *testing.T) {
	// Test: Configured registration file and method replace the defaults
	root := laravelProject(t, appServiceProvider)
	custom := strings.Replace(appServiceProvider, "AppServiceProvider", "RepositoryServiceProvider", 1)
	customPath := filepath.Join(root, "app", "Providers", "RepositoryServiceProvider.php")
	require.NoError(t, os.WriteFile(customPath, []byte(custom), 0o644))

	s := newLaravelScaffolder(root, Options{Registration: codegen.RegistrationDefaults{
		File: "app/Providers/RepositoryServiceProvider.php",
	}})
	assert.Equal(t, customPath, s.RegistrationPath())

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)
	assert.Equal(t, StatusBound, report.Registration.Status)
	assert.Contains(t, readFile(t, customPath), "InvoiceRepositoryInterface::class")
	assert.Equal(t, appServiceProvider, readFile(t, filepath.Join(root, "app", "Providers", "AppServiceProvider.php")))
}

func TestScaffolder_CancelledContext(t *testing.T) {
	root := laravelProject(t, appServiceProvider)
	s := newLaravelScaffolder(root, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "invoice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoDirExists(t, filepath.Join(root, "app", "Models"))
}

func TestScaffolder_Go(t *testing.T) {
	// Test: Go target writes formatted packages and binds the constructor
	root := t.TempDir()
	providers := filepath.Join(root, "internal", "providers", "providers.go")
	require.NoError(t, os.MkdirAll(filepath.Dir(providers), 0o755))
	require.NoError(t, os.WriteFile(providers, []byte(goProviders), 0o644))

	target := golang.NewTarget(codegen.Options{Module: "example.com/shop"})
	s := New(filesystem.NewOS(), target, Options{Root: root}, zerolog.Nop())

	report, err := s.Run(context.Background(), "order item")
	require.NoError(t, err)
	require.False(t, report.Failed(), "%v", report.Err())

	assert.FileExists(t, filepath.Join(root, "internal", "models", "order_item.go"))
	assert.FileExists(t, filepath.Join(root, "internal", "repositories", "order_item_repository_interface.go"))
	assert.FileExists(t, filepath.Join(root, "internal", "repositories", "order_item_repository.go"))
	assert.FileExists(t, filepath.Join(root, "internal", "controllers", "order_item_controller.go"))

	expected := `package providers

import (
	"example.com/shop/internal/container"
	"example.com/shop/internal/repositories"
)

// Register binds repository interfaces to their implementations.
func Register(c *container.Container) {
	c.Bind((*repositories.OrderItemRepositoryInterface)(nil), repositories.NewOrderItemRepository)
}
`
	assert.Equal(t, expected, readFile(t, providers))
}

type mockRunner struct {
	dir  string
	name string
	args []string
	err  error
}

func (m *mockRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	m.dir = dir
	m.name = name
	m.args = args
	return m.err
}

func TestScaffolder_ArtisanModel(t *testing.T) {
	// Test: The artisan generator replaces the model template
	root := laravelProject(t, appServiceProvider)
	runner := &mockRunner{}
	s := newLaravelScaffolder(root, Options{Models: NewArtisanModelGenerator(runner, root, zerolog.Nop())})

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, report.Artifacts[0].Status)
	assert.Equal(t, root, runner.dir)
	assert.Equal(t, "php", runner.name)
	assert.Equal(t, []string{"artisan", "make:model", "Invoice", "--migration"}, runner.args)
	assert.NoFileExists(t, filepath.Join(root, "app", "Models", "Invoice.php"))
}

func TestScaffolder_ArtisanModelFailure(t *testing.T) {
	root := laravelProject(t, appServiceProvider)
	runner := &mockRunner{err: errors.New("php: command not found")}
	s := newLaravelScaffolder(root, Options{Models: NewArtisanModelGenerator(runner, root, zerolog.Nop())})

	report, err := s.Run(context.Background(), "invoice")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, report.Artifacts[0].Status)
	assert.ErrorIs(t, report.Artifacts[0].Err, ErrWrite)
	assert.Contains(t, report.Artifacts[0].Err.Error(), "command not found")
	assert.Equal(t, []Status{StatusCreated, StatusCreated, StatusCreated}, statuses(report.Artifacts[1:]))
}

func TestReport(t *testing.T) {
	report := &Report{
		Artifacts:    []Outcome{{Step: "model", Status: StatusSkipped}},
		Registration: Outcome{Step: RegistrationStep, Status: StatusAlreadyBound},
	}
	assert.False(t, report.Failed())
	assert.NoError(t, report.Err())
	assert.Len(t, report.Outcomes(), 2)

	report.Registration = Outcome{Step: RegistrationStep, Status: StatusFailed, Err: registration.ErrIO}
	assert.True(t, report.Failed())
	assert.ErrorIs(t, report.Err(), registration.ErrIO)
	assert.Contains(t, report.Err().Error(), "registration: ")
	assert.Equal(t, "already bound", StatusAlreadyBound.String())
}
