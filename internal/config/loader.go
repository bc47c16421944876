package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "LIGHTSPEED"

// Flag names registered by RegisterFlags.
const (
	FlagConfig     = "config"
	FlagMaxWorkers = "max-workers"
	FlagSerial     = "serial"
	FlagOutput     = "output"
	FlagLogLevel   = "log-level"
	FlagLogFormat  = "log-format"
	FlagLogFile    = "log-file"
)

// RegisterFlags adds the global flags to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(FlagConfig, "", "Path to a YAML configuration file")
	flags.Uint(FlagMaxWorkers, 0, "Workers per call (0 means one per CPU)")
	flags.Bool(FlagSerial, false, "Run commands under the shared execution lock, one at a time")
	flags.StringP(FlagOutput, "o", OutputText, "Output format: text, json or yaml")
	flags.String(FlagLogLevel, "INFO", "Log level: TRACE, DEBUG, INFO, WARNING, ERROR or OFF")
	flags.String(FlagLogFormat, "text", "Log format: text or json")
	flags.String(FlagLogFile, "", "Write logs to this file with rotation instead of stderr")
}

// Loader resolves a Config. Precedence, highest first: explicitly set flags,
// environment, config file, flag defaults.
type Loader struct {
	// Env looks up environment variables; nil means the process environment.
	Env func(string) (string, bool)
}

// NewLoader returns a Loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{}
}

// Load resolves the settings registered on flags. flags must already be parsed.
func (l *Loader) Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	if l.Env == nil {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	if l.Env != nil {
		l.applyEnv(v, flags)
	}

	path := v.GetString(FlagConfig)
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		MaxWorkers: v.GetUint(FlagMaxWorkers),
		Serial:     v.GetBool(FlagSerial),
		Output:     strings.ToLower(strings.TrimSpace(v.GetString(FlagOutput))),
		ConfigFile: path,
	}
	cfg.Log.Level = v.GetString(FlagLogLevel)
	cfg.Log.Format = v.GetString(FlagLogFormat)
	cfg.Log.File = strings.TrimSpace(v.GetString(FlagLogFile))

	return cfg, nil
}

// applyEnv copies values from the injected lookup into v, so tests do not
// depend on the process environment.
func (l *Loader) applyEnv(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
		if val, ok := l.Env(key); ok && !f.Changed {
			v.Set(f.Name, val)
		}
	})
}
