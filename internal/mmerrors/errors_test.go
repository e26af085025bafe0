package mmerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfigRejectsInvalidValue(t *testing.T) {
	_, err := ValidateConfig(0, func(v int) bool { return v >= 1 }, "team_size", "at least 1")
	require.Error(t, err)
	assert.True(t, Is(err, KindInvalidConfig))
}

func TestValidateConfigAcceptsValidValue(t *testing.T) {
	v, err := ValidateConfig(3, func(v int) bool { return v >= 1 }, "team_size", "at least 1")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestNotFoundCarriesPlayerID(t *testing.T) {
	err := NotFound(42)
	assert.True(t, Is(err, KindNotFound))
	assert.Equal(t, 42, err.Details["player_id"])
}

func TestErrorWrapsCause(t *testing.T) {
	cause := assert.AnError
	err := wrapError(cause, KindProgrammerError, "boom")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}
