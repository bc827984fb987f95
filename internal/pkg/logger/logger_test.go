package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, l)

	l, err = NewLogger("warn", "console")
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}

func TestDomainHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("deployment_id", "abc").DeploymentStep("create-directory", "192.168.1.50")
	l.DeploymentError("deploy-files", errors.New("boom"))
	l.DeploymentSuccess("verify-service")
	l.SSHConnectionAttempt("deploy", "192.168.1.50:22")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, "running deployment step", entries[0].Message)
	assert.Equal(t, "abc", entries[0].ContextMap()["deployment_id"])
	assert.Equal(t, "create-directory", entries[0].ContextMap()["step"])

	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, "verify-service", entries[2].ContextMap()["step"])
	assert.Equal(t, "192.168.1.50:22", entries[3].ContextMap()["target"])
}
