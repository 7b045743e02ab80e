package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultURL is the configuration file looked up in working directory
	DefaultURL = ".sagaloc.yaml"
	// DefaultManifest is the manifest file name stored in the processed root
	DefaultManifest = ".sagaloc-manifest.yaml"
	// DefaultEnvFile is the dotenv file loaded from working directory, if present
	DefaultEnvFile = ".env"

	envBasePath  = "SAGALOC_BASE_PATH"
	envUseSymbol = "SAGALOC_USE_SYMBOL"
	envOutDir    = "SAGALOC_OUT_DIR"
)

// Config represents annotation settings
type Config struct {
	UseSymbol   *bool    `yaml:"useSymbol,omitempty"`  // nil or true: Symbol.for key, false: string key
	BasePath    string   `yaml:"basePath,omitempty"`   // reported file names are relative to base path
	Extensions  []string `yaml:"extensions,omitempty"` // processed file extensions
	Exclude     []string `yaml:"exclude,omitempty"`    // skipped directory names
	OutDir      string   `yaml:"outDir,omitempty"`     // annotated output location, in place if empty
	SourceMaps  *bool    `yaml:"sourceMaps,omitempty"` // discover input source maps
	Concurrency int      `yaml:"concurrency,omitempty"`
	Manifest    string   `yaml:"manifest,omitempty"` // manifest file name, "-" disables manifest
}

// UsesSymbol returns true unless symbol key was explicitly disabled
func (c *Config) UsesSymbol() bool {
	return c.UseSymbol == nil || *c.UseSymbol
}

// UsesSourceMaps returns true unless source map discovery was explicitly disabled
func (c *Config) UsesSourceMaps() bool {
	return c.SourceMaps == nil || *c.SourceMaps
}

// Init sets defaults
func (c *Config) Init() {
	if len(c.Extensions) == 0 {
		c.Extensions = []string{".js", ".jsx", ".mjs", ".cjs"}
	}
	if len(c.Exclude) == 0 {
		c.Exclude = []string{"node_modules", ".git"}
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Manifest == "" {
		c.Manifest = DefaultManifest
	}
}

// DefaultConfig returns default config
func DefaultConfig() *Config {
	ret := &Config{}
	ret.Init()
	return ret
}

// Load loads config from URL, a missing file yields defaults; environment overrides file settings
func Load(ctx context.Context, URL string) (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
	}
	if URL == "" {
		URL = DefaultURL
	}
	cfg := &Config{}
	fs := afs.New()
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check config %s: %w", URL, err)
	}
	if exists {
		data, err := fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Init()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if basePath := os.Getenv(envBasePath); basePath != "" {
		c.BasePath = basePath
	}
	if outDir := os.Getenv(envOutDir); outDir != "" {
		c.OutDir = outDir
	}
	if value := os.Getenv(envUseSymbol); value != "" {
		useSymbol, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envUseSymbol, err)
		}
		c.UseSymbol = &useSymbol
	}
	return nil
}
