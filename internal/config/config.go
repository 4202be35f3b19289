// Package config loads server settings from flags, RPGBATTLE_* environment
// variables and an optional config file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/KirkDiggler/rpg-battle/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. RPGBATTLE_GRPC_PORT
const EnvPrefix = "RPGBATTLE"

// Keys, also used as flag names
const (
	KeyGRPCPort       = "grpc-port"
	KeyHTTPPort       = "http-port"
	KeyRedisEndpoint  = "redis-endpoint"
	KeyStateTTL       = "state-ttl"
	KeyPace           = "pace"
	KeyHintDuration   = "hint-duration"
	KeyLogLevel       = "log-level"
	KeyEventBuffer    = "event-buffer"
	KeyAllowedOrigins = "allowed-origins"
)

// Defaults
const (
	DefaultGRPCPort     = 50051
	DefaultHTTPPort     = 8080
	DefaultStateTTL     = 24 * time.Hour
	DefaultPace         = 500 * time.Millisecond
	DefaultHintDuration = 500 * time.Millisecond
	DefaultLogLevel     = "info"
	DefaultEventBuffer  = 64
)

// Config is the validated server configuration
type Config struct {
	GRPCPort int `mapstructure:"grpc-port"`
	HTTPPort int `mapstructure:"http-port"`
	// Empty keeps battles in memory
	RedisEndpoint  string        `mapstructure:"redis-endpoint"`
	StateTTL       time.Duration `mapstructure:"state-ttl"`
	Pace           time.Duration `mapstructure:"pace"`
	HintDuration   time.Duration `mapstructure:"hint-duration"`
	LogLevel       string        `mapstructure:"log-level"`
	EventBuffer    int           `mapstructure:"event-buffer"`
	AllowedOrigins []string      `mapstructure:"allowed-origins"`
}

// AddFlags registers the server flags
func AddFlags(flags *pflag.FlagSet) {
	flags.Int(KeyGRPCPort, DefaultGRPCPort, "gRPC server port")
	flags.Int(KeyHTTPPort, DefaultHTTPPort, "HTTP port for the WebSocket event stream")
	flags.String(KeyRedisEndpoint, "", "Redis host:port for battle state (empty keeps state in memory)")
	flags.Duration(KeyStateTTL, DefaultStateTTL, "how long an idle battle is kept in Redis")
	flags.Duration(KeyPace, DefaultPace, "pause between applied effects")
	flags.Duration(KeyHintDuration, DefaultHintDuration, "how long clients show an attack hint")
	flags.String(KeyLogLevel, DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.Int(KeyEventBuffer, DefaultEventBuffer, "events buffered per stream subscriber")
	flags.StringSlice(KeyAllowedOrigins, nil, "WebSocket origins to accept (empty accepts all)")
}

// New returns a viper instance with defaults and environment overrides set
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyGRPCPort, DefaultGRPCPort)
	v.SetDefault(KeyHTTPPort, DefaultHTTPPort)
	v.SetDefault(KeyRedisEndpoint, "")
	v.SetDefault(KeyStateTTL, DefaultStateTTL)
	v.SetDefault(KeyPace, DefaultPace)
	v.SetDefault(KeyHintDuration, DefaultHintDuration)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyEventBuffer, DefaultEventBuffer)
	v.SetDefault(KeyAllowedOrigins, []string{})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load binds flags, reads configFile when set and returns the validated config
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Config, error) {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, errors.Wrap(err, "failed to bind flags")
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.InvalidArgumentf("error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.InvalidArgumentf("error decoding config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks every setting
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRange(KeyGRPCPort, c.GRPCPort, 1, 65535, vb)
	errors.ValidateRange(KeyHTTPPort, c.HTTPPort, 1, 65535, vb)
	if c.GRPCPort == c.HTTPPort {
		vb.Field(KeyHTTPPort, "must differ from grpc-port")
	}
	if c.StateTTL <= 0 {
		vb.Field(KeyStateTTL, "must be positive")
	}
	if c.Pace < 0 {
		vb.Field(KeyPace, "must not be negative")
	}
	if c.HintDuration < 0 {
		vb.Field(KeyHintDuration, "must not be negative")
	}
	if c.EventBuffer <= 0 {
		vb.Field(KeyEventBuffer, "must be positive")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		vb.Field(KeyLogLevel, err.Error())
	}

	return vb.Build()
}

// SlogLevel is the parsed log level
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}
