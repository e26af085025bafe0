package applog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeRejectsBadLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "not-a-level"
	err := Initialize(cfg)
	require.Error(t, err)
}

func TestInitializeRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Format = "xml"
	err := Initialize(cfg)
	require.Error(t, err)
}

func TestGetInitializesDefaultOnFirstUse(t *testing.T) {
	global = nil
	logger := Get()
	assert.NotNil(t, logger)
	assert.Equal(t, "matchcore", logger.component)
}
