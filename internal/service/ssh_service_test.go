package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/pkg/ssh"
)

func newTestSSHService(opener *fakeOpener) (*SSHService, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewSSHService(testConfig(), opener.open, metrics, logger.NewNop()), metrics
}

func TestTestConnection_Success(t *testing.T) {
	session := &fakeSession{respond: func(cmd string) (*ssh.CommandResult, error) {
		switch cmd {
		case "whoami":
			return &ssh.CommandResult{Stdout: "pi"}, nil
		case "command -v screen":
			return &ssh.CommandResult{ExitCode: 1}, nil
		}
		return &ssh.CommandResult{Stdout: "ok"}, nil
	}}
	opener := &fakeOpener{session: session}
	svc, metrics := newTestSSHService(opener)

	status, resp := svc.TestConnection(context.Background(), &model.SSHTestRequest{IP: "192.168.1.50", Username: "pi", Password: "raspberry", Port: "2222"})

	require.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.Equal(t, "SSH connection successful", resp.Message)
	assert.Equal(t, []string{"connected", "user: pi", "system: ok", "screen: unavailable (exit 1)", "python: ok"}, resp.Details)
	assert.Equal(t, 2222, opener.cfg.Port)
	assert.Equal(t, 1, session.closed)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.checks.WithLabelValues("success")))
}

func TestTestConnection_Validation(t *testing.T) {
	opener := &fakeOpener{session: &fakeSession{}}
	svc, _ := newTestSSHService(opener)

	status, resp := svc.TestConnection(context.Background(), &model.SSHTestRequest{IP: "pi.local", Username: "pi", Password: "x"})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid IP address format", resp.Error)
	assert.Zero(t, opener.calls)
}

func TestTestConnection_Failures(t *testing.T) {
	opener := &fakeOpener{err: &ssh.ConnectError{Kind: ssh.KindAuthFailed, Err: errors.New("denied")}}
	svc, _ := newTestSSHService(opener)

	status, resp := svc.TestConnection(context.Background(), &model.SSHTestRequest{IP: "192.168.1.50", Username: "pi", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, resp.Success)

	session := &fakeSession{respond: func(string) (*ssh.CommandResult, error) { return nil, io.EOF }}
	svc, _ = newTestSSHService(&fakeOpener{session: session})

	status, resp = svc.TestConnection(context.Background(), &model.SSHTestRequest{IP: "192.168.1.50", Username: "pi", Password: "x"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, []string{"connected"}, resp.Details)
	assert.Equal(t, 1, session.closed)
}
