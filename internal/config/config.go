// Package config loads gridmesh settings from defaults, an optional HCL
// file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"gridmesh/internal/grid"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "gridmesh.hcl"

type Config struct {
	Spacing        float64
	PrimaryLines   int
	SecondaryLines int
	Refinement     bool

	DBPath string

	Port         string
	Env          string
	ReadTimeout  int
	WriteTimeout int

	LogLevel string
	LogFile  string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Spacing:        grid.DefaultSpacing,
		PrimaryLines:   grid.DefaultPrimaryLines,
		SecondaryLines: grid.DefaultSecondaryLines,
		DBPath:         "data/db/gridmesh.db",
		Port:           "3000",
		Env:            "development",
		ReadTimeout:    10,
		WriteTimeout:   10,
		LogLevel:       "info",
	}
}

type hclFile struct {
	Grid    *hclGrid    `hcl:"grid,block"`
	Storage *hclStorage `hcl:"storage,block"`
	Server  *hclServer  `hcl:"server,block"`
	Log     *hclLog     `hcl:"log,block"`
}

type hclGrid struct {
	Spacing        *float64 `hcl:"spacing,optional"`
	PrimaryLines   *int     `hcl:"primary_lines,optional"`
	SecondaryLines *int     `hcl:"secondary_lines,optional"`
	Refinement     *bool    `hcl:"refinement,optional"`
}

type hclStorage struct {
	DBPath *string `hcl:"db_path,optional"`
}

type hclServer struct {
	Port         *string `hcl:"port,optional"`
	Env          *string `hcl:"env,optional"`
	ReadTimeout  *int    `hcl:"read_timeout,optional"`
	WriteTimeout *int    `hcl:"write_timeout,optional"`
}

type hclLog struct {
	Level *string `hcl:"level,optional"`
	File  *string `hcl:"file,optional"`
}

// Load applies every existing file in paths over the defaults, then the
// environment. Missing files are skipped.
func Load(paths ...string) (*Config, error) {
	cfg := Default()
	parser := hclparse.NewParser()
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := cfg.applyFile(parser, path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(parser *hclparse.Parser, path string) error {
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}
	var parsed hclFile
	if diags := gohcl.DecodeBody(f.Body, nil, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}

	if g := parsed.Grid; g != nil {
		set(&c.Spacing, g.Spacing)
		set(&c.PrimaryLines, g.PrimaryLines)
		set(&c.SecondaryLines, g.SecondaryLines)
		set(&c.Refinement, g.Refinement)
	}
	if s := parsed.Storage; s != nil {
		set(&c.DBPath, s.DBPath)
	}
	if s := parsed.Server; s != nil {
		set(&c.Port, s.Port)
		set(&c.Env, s.Env)
		set(&c.ReadTimeout, s.ReadTimeout)
		set(&c.WriteTimeout, s.WriteTimeout)
	}
	if l := parsed.Log; l != nil {
		set(&c.LogLevel, l.Level)
		set(&c.LogFile, l.File)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (c *Config) applyEnv() error {
	var err error
	if c.Spacing, err = getEnvAsFloat("GRIDMESH_SPACING", c.Spacing); err != nil {
		return err
	}
	if c.PrimaryLines, err = getEnvAsInt("GRIDMESH_PRIMARY_LINES", c.PrimaryLines); err != nil {
		return err
	}
	if c.SecondaryLines, err = getEnvAsInt("GRIDMESH_SECONDARY_LINES", c.SecondaryLines); err != nil {
		return err
	}
	if c.Refinement, err = getEnvAsBool("GRIDMESH_REFINEMENT", c.Refinement); err != nil {
		return err
	}
	c.DBPath = getEnv("GRIDMESH_DB_PATH", c.DBPath)
	c.LogLevel = getEnv("GRIDMESH_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("GRIDMESH_LOG_FILE", c.LogFile)
	c.Port = getEnv("PORT", c.Port)
	c.Env = getEnv("ENV", c.Env)
	if c.ReadTimeout, err = getEnvAsInt("READ_TIMEOUT", c.ReadTimeout); err != nil {
		return err
	}
	if c.WriteTimeout, err = getEnvAsInt("WRITE_TIMEOUT", c.WriteTimeout); err != nil {
		return err
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func getEnvAsFloat(key string, defaultVal float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

// Validate rejects settings the grid engine would silently ignore.
func (c *Config) Validate() error {
	switch {
	case c.Spacing < 1:
		return fmt.Errorf("config: spacing %v is below 1", c.Spacing)
	case c.PrimaryLines < grid.MinLines || c.SecondaryLines < grid.MinLines:
		return fmt.Errorf("config: line counts %dx%d are below %d", c.PrimaryLines, c.SecondaryLines, grid.MinLines)
	case c.ReadTimeout < 0 || c.WriteTimeout < 0:
		return errors.New("config: negative timeout")
	}
	return nil
}

// GridOptions returns the engine options for new grids.
func (c *Config) GridOptions() []grid.Option {
	return []grid.Option{
		grid.WithSpacing(c.Spacing),
		grid.WithLineCounts(c.PrimaryLines, c.SecondaryLines),
		grid.WithRefinement(c.Refinement),
	}
}
