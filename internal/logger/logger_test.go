package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "bogus"} {
		log, err := NewLogger(level)
		require.NoError(t, err, level)
		assert.NotNil(t, log.SugaredLogger)
	}
}

func TestWithContext(t *testing.T) {
	log := NewNop()
	assert.Same(t, log, log.WithContext(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	assert.NotSame(t, log, log.WithContext(ctx))
}

func TestGinLoggerWrite(t *testing.T) {
	n, err := NewNop().GetGinLogger().Write([]byte("GET /health"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)
}
