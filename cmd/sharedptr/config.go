package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kolkov/sharedptr"
)

const (
	envPrefix = "SHAREDPTR"

	cfgKeyLogLevel = "log_level"
	cfgKeyDebug    = "debug"
	cfgKeyKind     = "kind"
	cfgKeyFormat   = "format"

	defaultLogLevel = "info"
	defaultKind     = "arc"
	defaultFormat   = "table"
)

// config is the resolved CLI configuration.
type config struct {
	LogLevel slog.Level
	Debug    sharedptr.Options
	Kind     string
	Format   string
}

// loadConfig resolves settings from flags, SHAREDPTR_* environment
// variables and the optional YAML file at path. A missing file given
// explicitly is an error; no file at all is not.
func loadConfig(path string, flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyFormat, defaultFormat)
	v.SetDefault(cfgKeyDebug, "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		// Flag names use dashes; config keys use underscores.
		bind := map[string]string{
			"log-level": cfgKeyLogLevel,
			"debug":     cfgKeyDebug,
			"kind":      cfgKeyKind,
			"format":    cfgKeyFormat,
		}
		for flag, key := range bind {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &config{
		Debug:  sharedptr.ParseDebug(v.GetString(cfgKeyDebug)),
		Kind:   strings.ToLower(v.GetString(cfgKeyKind)),
		Format: strings.ToLower(v.GetString(cfgKeyFormat)),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return nil, usageError{fmt.Errorf("log level: %w", err)}
	}
	if cfg.Kind == "" {
		// Commands without a --kind flag and no other source.
		cfg.Kind = defaultKind
	}
	if _, err := parseKind(cfg.Kind); err != nil {
		return nil, err
	}
	switch cfg.Format {
	case "table", "json", "yaml":
	default:
		return nil, usageError{fmt.Errorf("unknown format %q (want table, json or yaml)", cfg.Format)}
	}
	return cfg, nil
}

// kindNames maps --kind values to kind names.
var kindNames = map[string]string{
	"rc":    "RcK",
	"rck":   "RcK",
	"arc":   "ArcK",
	"arck":  "ArcK",
	"arct":  "ArcTK",
	"arctk": "ArcTK",
	"all":   "",
}

// parseKind maps a --kind value to a kind name; "" selects every kind.
func parseKind(s string) (string, error) {
	name, ok := kindNames[strings.ToLower(s)]
	if !ok {
		return "", usageError{fmt.Errorf("unknown kind %q (want rc, arc, arct or all)", s)}
	}
	return name, nil
}

// usageError marks errors caused by bad input rather than failures.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// Exit codes.
const (
	exitSuccess   = 0
	exitFailure   = 1
	exitUserError = 2
)

func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ue usageError
	if errors.As(err, &ue) {
		return exitUserError
	}
	return exitFailure
}
