package beacon

import (
	"time"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/pkg/logger"
)

const backupTimeLayout = "20060102_150405"

// Installer provisions the beacon simulator on one device: project directory,
// manifest files, Python dependencies, then the service restart and check
// done by Manager.
type Installer struct {
	manifest config.Manifest
	manager  *Manager
	backup   bool
	now      func() time.Time
	logger   *logger.Logger
}

type Option func(*Installer)

// WithBackup copies files flagged for backup aside before they are replaced.
func WithBackup(enabled bool) Option {
	return func(i *Installer) {
		i.backup = enabled
	}
}

// WithClock overrides the clock used for backup suffixes.
func WithClock(now func() time.Time) Option {
	return func(i *Installer) {
		i.now = now
	}
}

func NewInstaller(manifest config.Manifest, logger *logger.Logger, opts ...Option) *Installer {
	manifest = manifest.Clone()
	i := &Installer{
		manifest: manifest,
		manager:  NewManager(manifest, logger),
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Provision runs the pipeline against runner. Each command completes before
// the next one starts. The returned report is never nil.
func (i *Installer) Provision(runner Runner, directory string) (*Report, error) {
	report := &Report{}

	i.logger.Infof("provisioning beacon simulator into %s", directory)

	if _, err := runStep(runner, i.logger, report, StepCreateDirectory, directory, PolicyFatal, mkdirCommand(directory)); err != nil {
		return report, err
	}

	if err := i.deployFiles(runner, report, directory); err != nil {
		return report, err
	}

	if err := i.installDependencies(runner, report, directory); err != nil {
		return report, err
	}

	if err := i.manager.RestartService(runner, report, directory); err != nil {
		return report, err
	}

	running, err := i.manager.IsServiceRunning(runner, report)
	if err != nil {
		return report, err
	}
	report.ServiceRunning = running

	i.logger.Infof("provisioning finished, service running: %t", running)
	return report, nil
}

// deployFiles fetches every manifest entry in order. Files already written
// stay on the device when a later one fails.
func (i *Installer) deployFiles(runner Runner, report *Report, directory string) error {
	var suffix string
	if i.backup {
		suffix = ".backup_" + i.now().Format(backupTimeLayout)
	}

	for _, entry := range i.manifest.Entries {
		dst := remotePath(directory, entry.Destination)

		if i.backup && entry.Backup {
			if _, err := runStep(runner, i.logger, report, StepBackupFile, entry.Name, PolicyAdvisory, backupCommand(dst, dst+suffix)); err != nil {
				return err
			}
		}

		url := sourceURL(i.manifest.SourceBaseURL, entry.Source)
		if _, err := runStep(runner, i.logger, report, StepDeployFile, entry.Name, PolicyFatal, fetchCommand(url, dst)); err != nil {
			return err
		}
		report.FilesDeployed = append(report.FilesDeployed, entry.Name)
	}
	return nil
}

func (i *Installer) installDependencies(runner Runner, report *Report, directory string) error {
	if len(i.manifest.Dependencies) == 0 {
		return nil
	}
	_, err := runStep(runner, i.logger, report, StepInstallDependencies, directory, PolicyAdvisory, installCommand(directory, i.manifest.Dependencies))
	return err
}
