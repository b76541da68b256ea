package config

import (
	"errors"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/bingo-gateway/internal/httpserver"
)

const (
	EnvDev     = "dev"
	EnvStaging = "staging"
	EnvProd    = "prod"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const DefaultBackendOrigin = "http://localhost:8000"

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
	Serve       bool   `mapstructure:"serve"`
}

type BackendConfig struct {
	Origin string `mapstructure:"origin"`
}

type CORSConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type BundlerConfig struct {
	Externals []string `mapstructure:"externals"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Bundler BundlerConfig `mapstructure:"bundler"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Flags returns the command line flags understood by Load.
func Flags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("bingo-gateway", pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default: ./config/config.yaml or ./config.yaml)")
	fs.String("origin", DefaultBackendOrigin, "backend origin the rewrites and CORS headers point at")
	fs.Bool("cors", true, "emit CORS response headers")
	fs.String("format", FormatJSON, "output format: json or yaml")
	fs.Bool("serve", false, "publish the resolved configuration over HTTP instead of printing it")
	fs.String("address", ":8080", "listen address used with --serve")
	return fs
}

var flagKeys = map[string]string{
	"origin":  "backend.origin",
	"cors":    "cors.enabled",
	"format":  "output.format",
	"serve":   "server.serve",
	"address": "server.address",
}

// Load reads the configuration. Precedence, highest first: flags that were
// set explicitly, environment variables, the config file, defaults. fs may
// be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.environment", EnvDev)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.serve", false)
	v.SetDefault("backend.origin", DefaultBackendOrigin)
	v.SetDefault("cors.enabled", true)
	v.SetDefault("bundler.externals", []string{})
	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("logging.level", LogLevelInfo)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	explicit := false
	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
		if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
			explicit = true
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Debug("config file not found, using defaults and environment variables")
	} else {
		slog.Debug("loaded config file", slog.String("file", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the shape of every section. The backend origin is only
// required here; its full validation belongs to resolution.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Server,
			validation.By(func(value interface{}) error {
				sc, ok := value.(ServerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a ServerConfig")
				}
				return validation.ValidateStruct(&sc,
					validation.Field(&sc.Environment,
						validation.Required,
						validation.In(EnvDev, EnvStaging, EnvProd),
					),
					validation.Field(&sc.Address,
						validation.Required,
						validation.By(httpserver.ValidateAddress),
					),
				)
			}),
		),
		validation.Field(&c.Backend,
			validation.By(func(value interface{}) error {
				bc, ok := value.(BackendConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a BackendConfig")
				}
				return validation.ValidateStruct(&bc,
					validation.Field(&bc.Origin, validation.Required),
				)
			}),
		),
		validation.Field(&c.Bundler,
			validation.By(func(value interface{}) error {
				bc, ok := value.(BundlerConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a BundlerConfig")
				}
				return validation.ValidateStruct(&bc,
					validation.Field(&bc.Externals, validation.Each(validation.Required)),
				)
			}),
		),
		validation.Field(&c.Output,
			validation.By(func(value interface{}) error {
				oc, ok := value.(OutputConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be an OutputConfig")
				}
				return validation.ValidateStruct(&oc,
					validation.Field(&oc.Format,
						validation.Required,
						validation.In(FormatJSON, FormatYAML),
					),
				)
			}),
		),
		validation.Field(&c.Logging,
			validation.By(func(value interface{}) error {
				lc, ok := value.(LoggingConfig)
				if !ok {
					return validation.NewError("validation_invalid_type", "must be a LoggingConfig")
				}
				return validation.ValidateStruct(&lc,
					validation.Field(&lc.Level,
						validation.Required,
						validation.In(LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError),
					),
				)
			}),
		),
	)
}
