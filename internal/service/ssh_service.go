package service

import (
	"context"
	"fmt"
	"net/http"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/pkg/ssh"
	"beacon-deploy-backend/pkg/utils"
)

var probeCommands = []struct {
	label string
	cmd   string
}{
	{"user", "whoami"},
	{"system", "uname -a"},
	{"screen", "command -v screen"},
	{"python", "python3 --version"},
}

// SSHService checks that a device accepts the given credentials without
// changing anything on it.
type SSHService struct {
	cfg     *config.Config
	open    SessionOpener
	metrics *Metrics
	logger  *logger.Logger
}

func NewSSHService(cfg *config.Config, open SessionOpener, metrics *Metrics, logger *logger.Logger) *SSHService {
	return &SSHService{
		cfg:     cfg,
		open:    open,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *SSHService) TestConnection(ctx context.Context, req *model.SSHTestRequest) (int, *model.SSHTestResponse) {
	req.ApplyDefaults(s.cfg.SSH.DefaultPort)

	if apiErr := utils.ValidateCredentials(req.Credentials()); apiErr != nil {
		s.metrics.observeCheck(apiErr.Kind)
		return apiErr.Code, &model.SSHTestResponse{Success: false, Error: apiErr.Message}
	}

	port, _ := utils.ParsePort(string(req.Port))
	s.logger.SSHConnectionAttempt("check", fmt.Sprintf("%s@%s:%d", req.Username, req.IP, port))

	details, err := s.probe(ctx, req, port)
	if err != nil {
		apiErr := Classify(err, req.IP, string(req.Port))
		s.logger.Warnw("ssh check failed", "host", req.IP, "kind", apiErr.Kind, "error", err.Error())
		s.metrics.observeCheck(apiErr.Kind)
		return apiErr.Code, &model.SSHTestResponse{Success: false, Error: apiErr.Message, Details: details}
	}

	s.logger.Infof("ssh check succeeded for %s", req.IP)
	s.metrics.observeCheck(resultSuccess)
	return http.StatusOK, &model.SSHTestResponse{
		Success: true,
		Message: "SSH connection successful",
		Details: details,
	}
}

func (s *SSHService) probe(ctx context.Context, req *model.SSHTestRequest, port int) ([]string, error) {
	session, err := s.open(ctx, ssh.SSHConfig{
		Host:     req.IP,
		Port:     port,
		Username: req.Username,
		Password: req.Password,
		Timeout:  s.cfg.SSH.ConnectTimeoutDuration(),
	})
	if err != nil {
		return nil, err
	}
	defer session.Close()

	details := []string{"connected"}
	for _, p := range probeCommands {
		result, err := session.ExecuteCommand(p.cmd)
		if err != nil {
			return details, err
		}
		if result.ExitCode != 0 {
			details = append(details, fmt.Sprintf("%s: unavailable (exit %d)", p.label, result.ExitCode))
			continue
		}
		details = append(details, fmt.Sprintf("%s: %s", p.label, result.Stdout))
	}
	return details, nil
}
