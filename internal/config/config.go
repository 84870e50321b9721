package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when progression settings would break leveling.
var ErrInvalidConfig = errors.New("invalid progression config")

// Activity identifies a kind of player activity that grants experience.
type Activity int

const (
	ActivityEating Activity = iota
	ActivityToolUse
	ActivityExhaustion
	ActivityCollapsing
	ActivitySleeping
)

// String returns the string representation of an Activity
func (a Activity) String() string {
	switch a {
	case ActivityEating:
		return "eating"
	case ActivityToolUse:
		return "tool_use"
	case ActivityExhaustion:
		return "exhaustion"
	case ActivityCollapsing:
		return "collapsing"
	case ActivitySleeping:
		return "sleeping"
	default:
		return "unknown"
	}
}

// ProgressionConfig holds the tunable leveling parameters.
// It is read once at startup and never mutated by the engine.
type ProgressionConfig struct {
	ExpForEating     int `yaml:"exp_for_eating"`
	ExpForToolUse    int `yaml:"exp_for_tool_use"`
	ExpForExhaustion int `yaml:"exp_for_exhaustion"`
	ExpForCollapsing int `yaml:"exp_for_collapsing"`
	ExpForSleeping   int `yaml:"exp_for_sleeping"`

	// ExpCurveMultiplier scales the next-level threshold after each level-up.
	// Must be >= 1 or rollup would never terminate.
	ExpCurveMultiplier float64 `yaml:"exp_curve_multiplier"`

	StaminaPerLevel int `yaml:"stamina_per_level"`

	// MaxLevel caps leveling. 0 disables leveling entirely.
	MaxLevel int `yaml:"max_level"`

	// Used only when state is created fresh or explicitly reset.
	InitialExpToNextLevel int `yaml:"initial_exp_to_next_level"`
	InitialExp            int `yaml:"initial_exp"`

	BuffDisplayName string `yaml:"buff_display_name"`
	BuffIcon        string `yaml:"buff_icon"`
}

// fileConfig wraps ProgressionConfig for YAML parsing
type fileConfig struct {
	Progression ProgressionConfig `yaml:"progression"`
}

// DefaultConfig returns the progression settings used when no file is present.
func DefaultConfig() *ProgressionConfig {
	return &ProgressionConfig{
		ExpForEating:          5,
		ExpForToolUse:         1,
		ExpForExhaustion:      10,
		ExpForCollapsing:      20,
		ExpForSleeping:        10,
		ExpCurveMultiplier:    1.5,
		StaminaPerLevel:       5,
		MaxLevel:              10,
		InitialExpToNextLevel: 100,
		InitialExp:            0,
		BuffDisplayName:       "Stamina Training",
		BuffIcon:              "assets/stamina_buff.png",
	}
}

// LoadConfig loads progression configuration from a YAML file.
// A missing file yields defaults; keys absent from the file keep their defaults.
// Values that would make leveling misbehave are rejected.
func LoadConfig(path string) (*ProgressionConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read progression config: %w", err)
	}

	wrapper := fileConfig{Progression: *cfg}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse progression config: %w", err)
	}
	*cfg = wrapper.Progression

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that the leveling loop depends on.
func (c *ProgressionConfig) Validate() error {
	if c.ExpCurveMultiplier < 1 {
		return fmt.Errorf("%w: exp_curve_multiplier must be >= 1, got %g", ErrInvalidConfig, c.ExpCurveMultiplier)
	}
	if c.MaxLevel < 0 {
		return fmt.Errorf("%w: max_level must be >= 0, got %d", ErrInvalidConfig, c.MaxLevel)
	}

	rewards := map[string]int{
		"exp_for_eating":     c.ExpForEating,
		"exp_for_tool_use":   c.ExpForToolUse,
		"exp_for_exhaustion": c.ExpForExhaustion,
		"exp_for_collapsing": c.ExpForCollapsing,
		"exp_for_sleeping":   c.ExpForSleeping,
	}
	for key, value := range rewards {
		if value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %d", ErrInvalidConfig, key, value)
		}
	}

	if c.MaxLevel > 0 && c.InitialExpToNextLevel <= 0 {
		return fmt.Errorf("%w: initial_exp_to_next_level must be > 0 when leveling is enabled", ErrInvalidConfig)
	}

	return nil
}

// RewardFor returns the experience granted for one occurrence of an activity.
func (c *ProgressionConfig) RewardFor(a Activity) int {
	switch a {
	case ActivityEating:
		return c.ExpForEating
	case ActivityToolUse:
		return c.ExpForToolUse
	case ActivityExhaustion:
		return c.ExpForExhaustion
	case ActivityCollapsing:
		return c.ExpForCollapsing
	case ActivitySleeping:
		return c.ExpForSleeping
	default:
		return 0
	}
}
