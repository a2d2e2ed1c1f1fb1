// Package manifest reads the list of resources a project wants scaffolded.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okra-platform/repokit/internal/naming"
)

// Manifest is the resources.yaml file
//
//	resources:
//	  - invoice
//	  - order item
type Manifest struct {
	Resources []string `yaml:"resources"`
}

// Load reads and validates the manifest at path. Unknown keys are rejected
// and every resource must be a valid name.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes manifest data; empty data is an empty manifest
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var errs []error
	for i, raw := range m.Resources {
		if _, err := naming.Normalize(raw); err != nil {
			errs = append(errs, fmt.Errorf("resources[%d]: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// Names returns the resources in file order, dropping entries that
// normalize to a name already listed
func (m *Manifest) Names() []string {
	seen := make(map[string]bool, len(m.Resources))
	out := make([]string, 0, len(m.Resources))
	for _, raw := range m.Resources {
		name, err := naming.Normalize(raw)
		if err != nil || seen[name.TypeName] {
			continue
		}
		seen[name.TypeName] = true
		out = append(out, raw)
	}
	return out
}
