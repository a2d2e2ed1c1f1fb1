package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/repokit/internal/codegen"
)

func TestDefaultRegistry(t *testing.T) {
	// Test: Built-in targets are registered, php aliases laravel
	assert.Equal(t, []string{"go", "laravel", "php"}, DefaultRegistry.Names())

	tests := []struct {
		name string
		want string
	}{
		{"go", "go"},
		{"laravel", "laravel"},
		{"php", "laravel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := DefaultRegistry.Get(tt.name, codegen.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, target.Name())
			assert.Len(t, target.Artifacts(), len(codegen.ArtifactKinds))
		})
	}
}
