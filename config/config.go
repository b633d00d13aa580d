package config

import (
	"fmt"
	"strings"

	"imagededup/imageprocessor"
	"imagededup/logging"
	"imagededup/signalhandler"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. IMAGEDEDUP_WORKERS
const EnvPrefix = "IMAGEDEDUP"

// Config is the resolved run configuration. It is read from flags and the
// environment only; there is no configuration file.
type Config struct {
	Workers    int
	LogLevel   string
	LogFormat  string
	LogFile    string
	Debug      bool
	HashAlg    imageprocessor.Algorithm
	AutoOrient bool
	Summary    bool
	Progress   bool
}

// Flag keys
const (
	KeyWorkers    = "workers"
	KeyLogLevel   = "log-level"
	KeyLogFormat  = "log-format"
	KeyLogFile    = "log-file"
	KeyDebug      = "debug"
	KeyHashAlg    = "hash-alg"
	KeyAutoOrient = "auto-orient"
	KeySummary    = "summary"
	KeyProgress   = "progress"
)

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Workers:   signalhandler.GetOptimalProcs(),
		LogLevel:  "info",
		LogFormat: "text",
		HashAlg:   imageprocessor.AlgorithmGradient,
	}
}

// RegisterFlags declares every configuration flag on flags
func RegisterFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.Int(KeyWorkers, def.Workers, "directories processed in parallel")
	flags.String(KeyLogLevel, def.LogLevel, "log level (debug, info, warn, error)")
	flags.String(KeyLogFormat, def.LogFormat, "log format (text, json)")
	flags.String(KeyLogFile, "", "also append logs to this file")
	flags.Bool(KeyDebug, false, "enable debug logging")
	flags.String(KeyHashAlg, string(def.HashAlg), "perceptual hash algorithm (gradient, mean, dct)")
	flags.Bool(KeyAutoOrient, false, "apply EXIF orientation before hashing")
	flags.Bool(KeySummary, false, "print a per-directory summary table")
	flags.Bool(KeyProgress, false, "show a progress bar on a terminal")
}

// Load resolves configuration from flags and IMAGEDEDUP_* environment
// variables. Explicitly set flags win over the environment.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault(KeyWorkers, def.Workers)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyLogFormat, def.LogFormat)
	v.SetDefault(KeyHashAlg, string(def.HashAlg))

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("cannot bind flags: %w", err)
		}
	}

	cfg := Config{
		Workers:    v.GetInt(KeyWorkers),
		LogLevel:   v.GetString(KeyLogLevel),
		LogFormat:  v.GetString(KeyLogFormat),
		LogFile:    v.GetString(KeyLogFile),
		Debug:      v.GetBool(KeyDebug),
		AutoOrient: v.GetBool(KeyAutoOrient),
		Summary:    v.GetBool(KeySummary),
		Progress:   v.GetBool(KeyProgress),
	}

	alg, err := imageprocessor.ParseAlgorithm(v.GetString(KeyHashAlg))
	if err != nil {
		return Config{}, err
	}
	cfg.HashAlg = alg

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that flags and env cannot constrain on their own
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// LoggingOptions maps the config onto logger options
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		File:   c.LogFile,
		Debug:  c.Debug,
	}
}

// HashConfig maps the config onto hasher options
func (c Config) HashConfig() imageprocessor.HashConfig {
	cfg := imageprocessor.DefaultHashConfig()
	cfg.Algorithm = c.HashAlg
	return cfg
}
