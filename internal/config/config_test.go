package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadPicksUpTeamSizeOverride(t *testing.T) {
	os.Setenv("MATCHCORE_TEAM_SIZE", "3")
	defer os.Unsetenv("MATCHCORE_TEAM_SIZE")

	o := Load()
	assert.True(t, o.HasTeamSize)
	assert.Equal(t, 3, o.TeamSize)
}

func TestLoadLeavesUnsetFieldsAbsent(t *testing.T) {
	os.Unsetenv("MATCHCORE_QUEUE_WEIGHT")
	o := Load()
	assert.False(t, o.HasQueueWeight)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	os.Setenv("MATCHCORE_P_NORM", "not-a-number")
	defer os.Unsetenv("MATCHCORE_P_NORM")

	o := Load()
	assert.False(t, o.HasPNorm)
}
