package solver

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied by Config accessors when a field is unset.
const (
	// DefaultBinary is the Fast Downward driver script.
	DefaultBinary = "fast-downward.py"

	// DefaultSearch is the search strategy handed to the planner.
	DefaultSearch = "lazy_greedy([ff()], preferred=[ff()])"

	// DefaultPlanFile is the artifact the planner leaves in the working
	// directory on success.
	DefaultPlanFile = "sas_plan"

	defaultTimeout = 60 * time.Second
)

// Config describes how to invoke the external planner. All fields are
// optional; zero values fall back to the Fast Downward defaults above.
type Config struct {
	// Binary is the planner executable, resolved through PATH when not
	// absolute.
	Binary string `yaml:"binary,omitempty"`

	// Search is the --search argument.
	Search string `yaml:"search,omitempty"`

	// Timeout bounds one solver invocation.
	// Format: Go duration string (e.g. "30s", "2m")
	// Default: 60s
	Timeout string `yaml:"timeout,omitempty"`

	// PlanFile is the plan artifact name relative to the working
	// directory.
	PlanFile string `yaml:"plan_file,omitempty"`
}

// LoadConfig reads and parses a solver configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("solver: reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("solver: parsing config %s: %w", path, err)
	}

	return &cfg, nil
}

// GetBinary returns the configured binary or the default.
func (c *Config) GetBinary() string {
	if c == nil || c.Binary == "" {
		return DefaultBinary
	}
	return c.Binary
}

// GetSearch returns the configured search strategy or the default.
func (c *Config) GetSearch() string {
	if c == nil || c.Search == "" {
		return DefaultSearch
	}
	return c.Search
}

// GetPlanFile returns the configured plan artifact name or the default.
func (c *Config) GetPlanFile() string {
	if c == nil || c.PlanFile == "" {
		return DefaultPlanFile
	}
	return c.PlanFile
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (c *Config) GetTimeout() time.Duration {
	if c == nil || c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return defaultTimeout
	}
	return d
}
