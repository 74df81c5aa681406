package models

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config carries every knob for both the bulk loader and the traffic
// simulator. Fields are populated from bound cobra flags, environment
// variables and an optional config file, in that order of precedence.
type Config struct {
	ConnString  string        `mapstructure:"url"`
	LogLevel    string        `mapstructure:"log-level"`
	NumThreads  int           `mapstructure:"num-threads"`
	Seed        int64         `mapstructure:"seed"`
	GracePeriod time.Duration `mapstructure:"grace-period"`

	// load command
	NumUsers              int      `mapstructure:"num-users"`
	NumVehicles           int      `mapstructure:"num-vehicles"`
	NumRides              int      `mapstructure:"num-rides"`
	PartitionPairs        []string `mapstructure:"partition-by"`
	EnableGeoPartitioning bool     `mapstructure:"enable-geo-partitioning"`
	SkipInit              bool     `mapstructure:"skip-init"`

	// run command
	Cities          []string `mapstructure:"city"`
	ReadFraction    float64  `mapstructure:"read-only-percentage"`
	EventsOutput    string   `mapstructure:"events"`
	KafkaBrokerList string   `mapstructure:"kafka-broker-list"`
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// LoadConfig initializes and reads the configuration using Viper.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

// Validate checks the options shared by every command.
func (cfg *Config) Validate() error {
	if cfg.NumThreads <= 0 {
		return NewConfigError("number of threads must be greater than 0, got %d", cfg.NumThreads)
	}
	if !validLogLevels[cfg.LogLevel] {
		return NewConfigError("invalid log level %q, expected debug, info, warn or error", cfg.LogLevel)
	}
	if cfg.GracePeriod <= 0 {
		return NewConfigError("grace period must be positive, got %s", cfg.GracePeriod)
	}
	return nil
}

// ValidateLoad checks the options of the load command.
func (cfg *Config) ValidateLoad() error {
	if cfg.NumUsers <= 0 || cfg.NumVehicles <= 0 || cfg.NumRides <= 0 {
		return NewConfigError("the number of users, vehicles and rides to generate must be > 0")
	}
	return nil
}

// ValidateRun checks the options of the run command.
func (cfg *Config) ValidateRun() error {
	if cfg.ReadFraction < 0 || cfg.ReadFraction > 1 {
		return NewConfigError("read-only percentage must be between 0 and 1, got %f", cfg.ReadFraction)
	}
	switch cfg.EventsOutput {
	case "", "none", "console", "kafka":
	default:
		return NewConfigError("invalid events output %q, expected none, console or kafka", cfg.EventsOutput)
	}
	return nil
}
