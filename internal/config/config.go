// Package config loads the settings of the lightspeed command from flags,
// LIGHTSPEED_* environment variables and an optional YAML file.
package config

import (
	"fmt"
	"strings"

	"github.com/ygrebnov/lightspeed/internal/logger"
)

// Output formats understood by the command.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config holds the global settings shared by all subcommands.
type Config struct {
	MaxWorkers uint
	// Serial runs commands under the shared execution lock, one at a time.
	Serial     bool
	Output     string
	Log        logger.Config
	ConfigFile string
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		problems = append(problems, fmt.Sprintf("output must be one of text, json, yaml (got %q)", c.Output))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log-level: %v", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log-format must be text or json (got %q)", c.Log.Format))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError lists the settings rejected by Validate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}
