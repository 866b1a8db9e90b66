package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"khushi/internal/config"
	"khushi/internal/logging"
)

func TestNew_ConsoleAndJSON(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		logger, err := logging.New(config.LogConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, logger)
		assert.False(t, logger.Core().Enabled(zapcore.DebugLevel), "debug must be disabled at info level")
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
