package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// ScoringConfig carries the self/peer/manager blend weights. The three
// weights must sum to 1.0; anything else is a deployment mistake and fails
// process startup rather than surfacing at request time.
type ScoringConfig struct {
	WeightSelf    float64 `mapstructure:"weightSelf"`
	WeightPeer    float64 `mapstructure:"weightPeer"`
	WeightManager float64 `mapstructure:"weightManager"`
}

const weightTolerance = 0.001

func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		WeightSelf:    0.2,
		WeightPeer:    0.5,
		WeightManager: 0.3,
	}
}

// LoadScoringConfig reads scoring.yml if present, otherwise uses defaults.
func LoadScoringConfig() (ScoringConfig, error) {
	v := viper.New()

	v.SetConfigName("scoring")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/teampulse")
	v.AddConfigPath(".")

	defaults := DefaultScoringConfig()
	v.SetDefault("scoring.weightSelf", defaults.WeightSelf)
	v.SetDefault("scoring.weightPeer", defaults.WeightPeer)
	v.SetDefault("scoring.weightManager", defaults.WeightManager)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return ScoringConfig{}, err
		}
	}

	var cfg ScoringConfig
	if err := v.UnmarshalKey("scoring", &cfg); err != nil {
		return ScoringConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return ScoringConfig{}, err
	}

	return cfg, nil
}

func (c ScoringConfig) Validate() error {
	for name, w := range map[string]float64{
		"weightSelf":    c.WeightSelf,
		"weightPeer":    c.WeightPeer,
		"weightManager": c.WeightManager,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("scoring.%s must be within [0, 1], got %v", name, w)
		}
	}

	sum := c.WeightSelf + c.WeightPeer + c.WeightManager
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("scoring weights must sum to 1.0, got %v", sum)
	}
	return nil
}
