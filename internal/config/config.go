// Package config provides Viper-based configuration loading for the battle simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// BattleConfig holds the content locations and run limits for one simulated battle.
type BattleConfig struct {
	// ContentDir holds the actions/, statuses/ and characters/ template directories.
	ContentDir string `mapstructure:"content_dir"`
	// Encounter is the path of the encounter file to fight.
	Encounter string `mapstructure:"encounter"`
	// AIDir holds the HTN domain YAML files.
	AIDir string `mapstructure:"ai_dir"`
	// ScriptDir holds the Lua precondition scripts loaded into the global scope.
	ScriptDir string `mapstructure:"script_dir"`
	// Seed makes the battle replayable; 0 draws randomness from crypto/rand.
	Seed      uint64 `mapstructure:"seed"`
	MaxRounds int    `mapstructure:"max_rounds"`
	// InstructionLimit bounds every Lua load and hook call.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Battle  BattleConfig  `mapstructure:"battle"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateBattle(c.Battle); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateBattle(b BattleConfig) error {
	var errs []string
	if b.ContentDir == "" {
		errs = append(errs, "battle.content_dir must not be empty")
	}
	if b.Encounter == "" {
		errs = append(errs, "battle.encounter must not be empty")
	}
	if b.AIDir == "" {
		errs = append(errs, "battle.ai_dir must not be empty")
	}
	if b.ScriptDir == "" {
		errs = append(errs, "battle.script_dir must not be empty")
	}
	if b.MaxRounds < 0 {
		errs = append(errs, fmt.Sprintf("battle.max_rounds must be >= 0, got %d", b.MaxRounds))
	}
	if b.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("battle.instruction_limit must be >= 0, got %d", b.InstructionLimit))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("battle.content_dir", "content")
	v.SetDefault("battle.encounter", "content/encounters/ambush.yaml")
	v.SetDefault("battle.ai_dir", "content/ai")
	v.SetDefault("battle.script_dir", "content/scripts/ai")
	v.SetDefault("battle.seed", 0)
	v.SetDefault("battle.max_rounds", 200)
	v.SetDefault("battle.instruction_limit", 100000)
}
