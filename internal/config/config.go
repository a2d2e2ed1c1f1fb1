package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/modfile"

	"github.com/okra-platform/repokit/internal/codegen"
)

// FileName is the name of the configuration file
const FileName = "repokit.json"

// DefaultManifest is the resources manifest used by sync
const DefaultManifest = "resources.yaml"

var (
	// ErrNotFound is returned when no repokit.json exists in a directory or its parents
	ErrNotFound = errors.New("config file not found")

	// ErrUnknownTarget is returned when the project type cannot be detected
	ErrUnknownTarget = errors.New("cannot detect target")
)

var validate = validator.New()

// Config represents the repokit.json configuration file
type Config struct {
	Target       string             `json:"target" validate:"required,oneof=go laravel php"`
	Module       string             `json:"module,omitempty"`
	Paths        codegen.Layout     `json:"paths"`
	Registration RegistrationConfig `json:"registration"`
	Model        ModelConfig        `json:"model"`
	Manifest     string             `json:"manifest,omitempty"`

	// Root is the project root: the directory holding the config file, or
	// the directory the target was detected in
	Root string `json:"-"`
}

// RegistrationConfig overrides where bindings are registered
type RegistrationConfig struct {
	File      string `json:"file,omitempty"`
	Method    string `json:"method,omitempty"`
	Container string `json:"container,omitempty"`
}

// ModelConfig selects how model artifacts are produced
type ModelConfig struct {
	Generator string `json:"generator,omitempty" validate:"omitempty,oneof=template artisan"`
}

// Options tell Resolve where to look
type Options struct {
	// Path is an explicit config file; no search happens when set
	Path string

	// Dir starts the upward search; the working directory when empty
	Dir string

	// Target overrides the configured or detected target
	Target string
}

// Resolve loads the configuration for a run: the explicit file, else the
// nearest repokit.json, else defaults for the target detected in Dir.
func Resolve(opts Options) (*Config, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = wd
	}

	var (
		cfg *Config
		err error
	)
	switch {
	case opts.Path != "":
		cfg, err = LoadConfigFromPath(opts.Path)
	default:
		cfg, _, err = LoadConfigFromDir(dir)
		if errors.Is(err, ErrNotFound) {
			cfg, err = Default(dir, opts.Target)
		}
	}
	if err != nil {
		return nil, err
	}

	if opts.Target != "" && opts.Target != cfg.Target {
		cfg.Target = opts.Target
		if err := cfg.finish(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Default builds a configuration for the project in root. The target is
// detected from the project files unless given.
func Default(root, target string) (*Config, error) {
	if target == "" {
		detected, err := DetectTarget(root)
		if err != nil {
			return nil, err
		}
		target = detected
	}

	cfg := &Config{Target: target, Root: root}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFromPath loads the configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	cfg.Root = abs

	if cfg.Target == "" {
		if detected, err := DetectTarget(cfg.Root); err == nil {
			cfg.Target = detected
		}
	}
	if err := cfg.finish(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadConfigFromDir searches for repokit.json in the given directory and its parents
func LoadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			cfg, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return cfg, configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w: no %s in %s or any parent directory", ErrNotFound, FileName, startDir)
}

// DetectTarget guesses the target from the files in root: an artisan script
// means laravel, a go.mod means go
func DetectTarget(root string) (string, error) {
	if fileExists(filepath.Join(root, "artisan")) {
		return "laravel", nil
	}
	if fileExists(filepath.Join(root, "go.mod")) {
		return "go", nil
	}
	return "", fmt.Errorf("%w in %s: no artisan or go.mod found, use --target", ErrUnknownTarget, root)
}

// DetectModule reads the module path from root/go.mod
func DetectModule(root string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}

	module := modfile.ModulePath(data)
	if module == "" {
		return "", fmt.Errorf("module declaration not found in go.mod")
	}
	return module, nil
}

// ManifestPath returns the absolute path of the resources manifest
func (c *Config) ManifestPath() string {
	if filepath.IsAbs(c.Manifest) {
		return c.Manifest
	}
	return filepath.Join(c.Root, filepath.FromSlash(c.Manifest))
}

// Save writes the configuration as indented JSON
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// finish applies defaults and validates
func (c *Config) finish() error {
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
	if c.Model.Generator == "" {
		c.Model.Generator = "template"
	}
	if c.Module == "" && c.Target == "go" {
		if module, err := DetectModule(c.Root); err == nil {
			c.Module = module
		}
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if c.Target == "go" && c.Module == "" {
		return fmt.Errorf("validation failed: module is required for the go target and no go.mod was found in %s", c.Root)
	}
	if c.Model.Generator == "artisan" && c.Target == "go" {
		return fmt.Errorf("validation failed: model generator artisan requires a laravel target")
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
