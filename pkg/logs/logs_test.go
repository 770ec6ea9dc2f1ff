package logs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	logging "gopkg.in/op/go-logging.v1"
)

// Runs before TestSetup changes the backend.
func TestDefaultLevel(t *testing.T) {
	logger := Logger("logs-default")

	assert.False(t, logger.IsEnabledFor(logging.DEBUG))
	assert.True(t, logger.IsEnabledFor(logging.WARNING))
}

func TestSetup(t *testing.T) {
	logger := Logger("logs-test")

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer
		Setup(&buf, false)

		logger.Debugf("hidden %d", 1)
		logger.Warningf("shown %d", 2)

		assert.NotContains(t, buf.String(), "hidden 1")
		assert.Contains(t, buf.String(), "WARN [logs-test] shown 2")
	})

	t.Run("verbose", func(t *testing.T) {
		var buf bytes.Buffer
		Setup(&buf, true)

		logger.Debugf("visible %d", 3)

		assert.Contains(t, buf.String(), "DEBU [logs-test] visible 3")
	})
}
