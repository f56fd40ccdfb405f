package business

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"launchpad/internal/models"
)

func TestConfigHashDeterministic(t *testing.T) {
	params := LaunchParams{
		GraduationThreshold: 85,
		FeeTier:             100,
		GraceMode:           true,
		Vesting: models.JSONB{
			"cliff_seconds":    3600,
			"duration_seconds": 86400,
		},
	}

	assert.Equal(t, ConfigHash(params), ConfigHash(params))
}

func TestConfigHashNilVestingEqualsEmpty(t *testing.T) {
	a := LaunchParams{GraduationThreshold: 85, FeeTier: 100}
	b := a
	b.Vesting = models.JSONB{}

	assert.Equal(t, ConfigHash(a), ConfigHash(b))
}

func TestConfigHashDistinguishesParams(t *testing.T) {
	base := LaunchParams{GraduationThreshold: 85, FeeTier: 100}

	tier := base
	tier.FeeTier = 200
	assert.NotEqual(t, ConfigHash(base), ConfigHash(tier))

	grace := base
	grace.GraceMode = true
	assert.NotEqual(t, ConfigHash(base), ConfigHash(grace))

	vesting := base
	vesting.Vesting = models.JSONB{"cliff_seconds": 1}
	assert.NotEqual(t, ConfigHash(base), ConfigHash(vesting))
}
