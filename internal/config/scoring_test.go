package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoringConfig_DefaultsValid(t *testing.T) {
	assert.NoError(t, DefaultScoringConfig().Validate())
}

func TestScoringConfig_RejectsBadSum(t *testing.T) {
	cfg := ScoringConfig{WeightSelf: 0.2, WeightPeer: 0.5, WeightManager: 0.5}
	assert.Error(t, cfg.Validate())

	cfg = ScoringConfig{WeightSelf: 0.1, WeightPeer: 0.2, WeightManager: 0.3}
	assert.Error(t, cfg.Validate())
}

func TestScoringConfig_ToleratesRoundingNoise(t *testing.T) {
	cfg := ScoringConfig{WeightSelf: 0.3333, WeightPeer: 0.3333, WeightManager: 0.3334}
	assert.NoError(t, cfg.Validate())
}

func TestScoringConfig_RejectsOutOfRangeWeight(t *testing.T) {
	cfg := ScoringConfig{WeightSelf: -0.2, WeightPeer: 0.7, WeightManager: 0.5}
	assert.Error(t, cfg.Validate())
}
