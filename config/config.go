// Package config loads the runner configuration file, spec/support/specbasis.json by default,
// and applies overrides from the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"

	"github.com/specbasis/specbasis/framework"
)

const (
	EnvRandom    = "SPECBASIS_RANDOM"
	EnvSeed      = "SPECBASIS_SEED"
	EnvNoColor   = "SPECBASIS_NO_COLOR"
	EnvTimeoutMS = "SPECBASIS_TIMEOUT_MS"
)

// DefaultPaths are tried in order when no config file is named explicitly.
var DefaultPaths = []string{
	"spec/support/specbasis.json",
	"spec/support/specbasis.yaml",
	"spec/support/specbasis.yml",
}

type Config struct {
	Random                       bool                `json:"random"`
	Seed                         ldvalue.OptionalInt `json:"seed"`
	StopSpecOnExpectationFailure bool                `json:"stopSpecOnExpectationFailure"`
	StopOnSpecFailure            bool                `json:"stopOnSpecFailure"`
	DefaultTimeoutMS             ldvalue.OptionalInt `json:"defaultTimeoutMs"`
	NoColor                      bool                `json:"noColor"`
	Run                          []string            `json:"run"`
	Skip                         []string            `json:"skip"`

	// Path is the file the configuration was read from, empty if none was found.
	Path string `json:"-"`
}

// Load reads the configuration file at path, or the first of DefaultPaths that exists when path
// is empty, then applies environment overrides. A missing default file is not an error.
func Load(path string) (Config, error) {
	var cfg Config
	candidates := DefaultPaths
	if path != "" {
		candidates = []string{path}
	}
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == "" {
				continue
			}
			return Config{}, fmt.Errorf("can't read config file: %w", err)
		}
		if cfg, err = Parse(data, filepath.Ext(p)); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", p, err)
		}
		cfg.Path = p
		break
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a configuration document. YAML (by extension) is converted to JSON first so both
// formats follow the same field rules.
func Parse(data []byte, ext string) (Config, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Config{}, err
		}
		if doc == nil {
			return Config{}, nil
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return Config{}, err
		}
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment without overwriting variables that
// are already set. A missing file is only an error when required is true, i.e. when the file was
// named explicitly.
func LoadDotEnv(path string, required bool) error {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)
	if err == nil || (errors.Is(err, fs.ErrNotExist) && !required) {
		return nil
	}
	return fmt.Errorf("can't load %s: %w", path, err)
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRandom); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRandom, err)
		}
		c.Random = b
	}
	if v, ok := lookup(EnvNoColor); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNoColor, err)
		}
		c.NoColor = b
	}
	for _, e := range []struct {
		name   string
		target *ldvalue.OptionalInt
	}{
		{EnvSeed, &c.Seed},
		{EnvTimeoutMS, &c.DefaultTimeoutMS},
	} {
		if v, ok := lookup(e.name); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", e.name, err)
			}
			*e.target = ldvalue.NewOptionalInt(n)
		}
	}
	return nil
}

// Filters compiles the run and skip patterns.
func (c Config) Filters() (framework.RegexFilters, error) {
	mustMatch, err := framework.NewRegexList(c.Run...)
	if err != nil {
		return framework.RegexFilters{}, fmt.Errorf("invalid run pattern: %w", err)
	}
	mustNotMatch, err := framework.NewRegexList(c.Skip...)
	if err != nil {
		return framework.RegexFilters{}, fmt.Errorf("invalid skip pattern: %w", err)
	}
	return framework.RegexFilters{MustMatch: mustMatch, MustNotMatch: mustNotMatch}, nil
}

// DefaultTimeout returns the spec timeout, framework.DefaultTimeout when unset.
func (c Config) DefaultTimeout() time.Duration {
	if !c.DefaultTimeoutMS.IsDefined() || c.DefaultTimeoutMS.IntValue() <= 0 {
		return framework.DefaultTimeout
	}
	return time.Duration(c.DefaultTimeoutMS.IntValue()) * time.Millisecond
}

// RunConfig converts the file settings into runner settings. When random order is on and no
// seed is configured, seedSource picks one.
func (c Config) RunConfig(filters framework.RegexFilters, seedSource func() int64) framework.RunConfig {
	rc := framework.RunConfig{
		Random:                       c.Random,
		StopSpecOnExpectationFailure: c.StopSpecOnExpectationFailure,
		StopOnSpecFailure:            c.StopOnSpecFailure,
		DefaultTimeout:               c.DefaultTimeout(),
	}
	if filters.IsDefined() {
		rc.Filter = filters.AsFilter
	}
	if c.Random {
		if c.Seed.IsDefined() {
			rc.Seed = int64(c.Seed.IntValue())
		} else if seedSource != nil {
			rc.Seed = seedSource()
		}
	}
	return rc
}
