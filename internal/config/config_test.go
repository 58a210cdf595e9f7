package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoOverrides(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Plan.MaxRounds)
	assert.Equal(t, 0.7, cfg.Plan.MinAcceptableUtility)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	os.Setenv("NEGOTIATION_MAX_ROUNDS", "12")
	defer os.Unsetenv("NEGOTIATION_MAX_ROUNDS")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Plan.MaxRounds)
}

func TestLoad_RejectsInvalidRunMode(t *testing.T) {
	os.Setenv("NEGOTIATION_RUN_MODE", "chaos")
	defer os.Unsetenv("NEGOTIATION_RUN_MODE")
	_, err := Load()
	require.Error(t, err)
}

func TestToPlan_TranslatesFields(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	plan := cfg.ToPlan()
	assert.Equal(t, cfg.Plan.MaxRounds, plan.MaxRounds)
}
