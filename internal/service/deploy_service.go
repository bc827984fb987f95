package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/beacon"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/pkg/ssh"
	"beacon-deploy-backend/pkg/utils"
)

const resultSuccess = "success"

// Session is one open remote shell connection.
type Session interface {
	beacon.Runner
	Close() error
}

// SessionOpener connects to a target. A returned error means nothing needs
// to be closed.
type SessionOpener func(ctx context.Context, cfg ssh.SSHConfig) (Session, error)

// OpenSSHSession is the SessionOpener backed by a real SSH connection.
func OpenSSHSession(ctx context.Context, cfg ssh.SSHConfig) (Session, error) {
	client := ssh.NewClient(cfg)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

type DeployService struct {
	cfg     *config.Config
	open    SessionOpener
	metrics *Metrics
	logger  *logger.Logger
}

func NewDeployService(cfg *config.Config, open SessionOpener, metrics *Metrics, logger *logger.Logger) *DeployService {
	return &DeployService{
		cfg:     cfg,
		open:    open,
		metrics: metrics,
		logger:  logger,
	}
}

// Deploy validates req, provisions the device and returns the HTTP status and
// body to report. It never returns a nil response.
func (s *DeployService) Deploy(ctx context.Context, req *model.DeployRequest) (int, *model.DeployResponse) {
	start := time.Now()
	req.ApplyDefaults(s.cfg.SSH.DefaultPort, s.cfg.Deploy.DefaultDirectory)

	deploymentID := uuid.NewString()
	log := s.logger.With("deployment_id", deploymentID, "host", req.IP)

	if apiErr := validateDeployRequest(req); apiErr != nil {
		log.Warnw("deployment request rejected", "reason", apiErr.Message)
		s.metrics.observeDeployment(apiErr.Kind, start)
		return apiErr.Code, rejectedResponse(apiErr)
	}

	report, err := s.provision(ctx, log, req)
	s.metrics.observeSteps(report)

	if err != nil {
		apiErr := Classify(err, req.IP, string(req.Port))
		log.Errorw("deployment failed",
			"kind", apiErr.Kind,
			"status", apiErr.Code,
			"error", err.Error(),
		)
		s.metrics.observeDeployment(apiErr.Kind, start)
		return apiErr.Code, failureResponse(deploymentID, req, apiErr)
	}

	log.Infow("deployment completed",
		"directory", req.Directory,
		"files", len(report.FilesDeployed),
		"service_running", report.ServiceRunning,
	)
	s.metrics.observeDeployment(resultSuccess, start)
	return http.StatusOK, successResponse(deploymentID, req, report, s.cfg.Deploy.Manifest.ServicePort)
}

// provision owns the session for the whole pipeline. Close runs exactly once
// when open succeeded, whatever way the pipeline ends.
func (s *DeployService) provision(ctx context.Context, log *logger.Logger, req *model.DeployRequest) (report *beacon.Report, err error) {
	port, _ := utils.ParsePort(string(req.Port))
	sshCfg := ssh.SSHConfig{
		Host:     req.IP,
		Port:     port,
		Username: req.Username,
		Password: req.Password,
		Timeout:  s.cfg.SSH.ConnectTimeoutDuration(),
	}

	log.SSHConnectionAttempt("deploy", fmt.Sprintf("%s@%s:%d", req.Username, req.IP, port))
	session, err := s.open(ctx, sshCfg)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.Warnw("closing ssh session", "error", closeErr.Error())
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("deployment aborted: %v", r)
		}
	}()

	installer := beacon.NewInstaller(s.cfg.Deploy.Manifest, log, beacon.WithBackup(s.cfg.Deploy.BackupExisting))
	return installer.Provision(session, req.Directory)
}

func validateDeployRequest(req *model.DeployRequest) *utils.APIError {
	if apiErr := utils.ValidateCredentials(req.Credentials()); apiErr != nil {
		return apiErr
	}
	if err := utils.ValidateDirectory(req.Directory); err != nil {
		return utils.NewValidationError(fmt.Sprintf("Invalid directory: %v", err))
	}
	return nil
}
