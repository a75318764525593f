package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	t.Run("Development", func(t *testing.T) {
		l, err := Init("development", "debug", "api")
		require.NoError(t, err)
		assert.Same(t, l, globalLogger)
		assert.True(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("Production", func(t *testing.T) {
		l, err := Init("production", "info", "worker")
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zap.DebugLevel))
		assert.True(t, l.Core().Enabled(zap.InfoLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		l, err := Init("production", "loud", "")
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.InfoLevel))
		assert.False(t, l.Core().Enabled(zap.DebugLevel))
	})
}

func TestGet(t *testing.T) {
	globalLogger = nil
	assert.NotNil(t, Get())

	l, err := Init("development", "info", "api")
	require.NoError(t, err)
	assert.Same(t, l, Get())
}

func TestSync(t *testing.T) {
	globalLogger = nil
	assert.NotPanics(t, Sync)

	_, err := Init("development", "info", "api")
	require.NoError(t, err)
	assert.NotPanics(t, Sync)
}
