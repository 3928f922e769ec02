package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// runConfig holds the settings of `opl run`. Values come from defaults, an
// optional YAML file and then command-line flags, in that order.
type runConfig struct {
	StepQuota      int    `yaml:"step_quota"`
	RecursionLimit int    `yaml:"recursion_limit"`
	LogLevel       string `yaml:"log_level"`
	LogFile        string `yaml:"log_file"`
}

func defaultRunConfig() runConfig {
	return runConfig{LogLevel: "warn"}
}

// ValidationError aggregates configuration problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

func loadRunConfig(path string) (runConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return runConfig{}, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return runConfig{}, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg := defaultRunConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return defaultRunConfig(), nil
		}
		return runConfig{}, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	if err := cfg.validate(); err != nil {
		return runConfig{}, err
	}
	return cfg, nil
}

// applyFlags overrides file values with flags that were set. Negative
// numbers and empty strings mean "not set".
func (c *runConfig) applyFlags(steps, recursion int, logLevel, logFile string) {
	if steps >= 0 {
		c.StepQuota = steps
	}
	if recursion >= 0 {
		c.RecursionLimit = recursion
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFile != "" {
		c.LogFile = logFile
	}
}

func (c runConfig) validate() error {
	var errs ValidationError
	if c.StepQuota < 0 {
		errs.Issues = append(errs.Issues, "step_quota must not be negative")
	}
	if c.RecursionLimit < 0 {
		errs.Issues = append(errs.Issues, "recursion_limit must not be negative")
	}
	if _, ok := parseLogLevel(c.LogLevel); !ok {
		errs.Issues = append(errs.Issues, fmt.Sprintf("log_level %q must be one of debug, info, warn, error, none", c.LogLevel))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
