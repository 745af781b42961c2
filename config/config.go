// Package config holds the run configuration of the sampler: smoothing
// constants, seed, output location and storage model.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	DefaultAlpha = 0.1
	DefaultBeta  = 0.01
)

type Config struct {
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Seed      int64   `yaml:"seed"` // 0 means derive one from the clock
	OutDir    string  `yaml:"out_dir"`
	Model     string  `yaml:"model"`
	SaveState bool    `yaml:"save_state"`
	Resume    string  `yaml:"resume"`

	// taken from the command line
	Input      string `yaml:"-"`
	Topics     uint32 `yaml:"-"`
	Iterations int    `yaml:"-"`
}

// ArgumentError reports bad command line arguments or an invalid
// configuration value. No work is started when one is returned.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return "argument error: " + e.Msg
}

func Default() *Config {
	return &Config{
		Alpha:  DefaultAlpha,
		Beta:   DefaultBeta,
		OutDir: ".",
		Model:  "lda",
	}
}

// Load reads a YAML config file, fields absent from the file keep
// their default values
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, &ArgumentError{Msg: fmt.Sprintf("failed to parse config file %s: %v", path, err)}
	}
	return cfg, nil
}

// Validate keeps the smoothing floor strictly positive, which is what
// rules out an all-zero conditional distribution during sampling.
func (c *Config) Validate() error {
	if !(c.Alpha > 0) {
		return &ArgumentError{Msg: fmt.Sprintf("alpha must be positive, got %v", c.Alpha)}
	}
	if !(c.Beta > 0) {
		return &ArgumentError{Msg: fmt.Sprintf("beta must be positive, got %v", c.Beta)}
	}
	if c.Topics == 0 {
		return &ArgumentError{Msg: "number of topics must be at least 1"}
	}
	if c.Iterations < 0 {
		return &ArgumentError{Msg: fmt.Sprintf("number of iterations must not be negative, got %d", c.Iterations)}
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	return nil
}
