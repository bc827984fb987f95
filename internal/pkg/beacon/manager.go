package beacon

import (
	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/pkg/logger"
)

// Manager controls the simulator's detached screen session.
type Manager struct {
	launcher string
	session  string
	logger   *logger.Logger
}

func NewManager(manifest config.Manifest, logger *logger.Logger) *Manager {
	return &Manager{
		launcher: manifest.Launcher,
		session:  manifest.SessionName,
		logger:   logger,
	}
}

// RestartService marks the launcher executable, stops any running session
// and starts a new one. None of the three exit codes stop the deployment.
func (m *Manager) RestartService(runner Runner, report *Report, directory string) error {
	m.logger.Infof("restarting screen session %s", m.session)

	if _, err := runStep(runner, m.logger, report, StepMarkExecutable, m.launcher, PolicyAdvisory, chmodCommand(remotePath(directory, m.launcher))); err != nil {
		return err
	}

	if _, err := runStep(runner, m.logger, report, StepStopService, m.session, PolicyAdvisory, stopSessionCommand(m.session)); err != nil {
		return err
	}

	if _, err := runStep(runner, m.logger, report, StepStartService, m.launcher, PolicyAdvisory, startCommand(directory, m.launcher)); err != nil {
		return err
	}
	return nil
}

// IsServiceRunning reports whether the session shows up in screen -list.
func (m *Manager) IsServiceRunning(runner Runner, report *Report) (bool, error) {
	result, err := runStep(runner, m.logger, report, StepVerifyService, m.session, PolicyAdvisory, listSessionCommand(m.session))
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}
