package beacon

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/pkg/ssh"
)

const baseURL = "https://raw.githubusercontent.com/eisildak/beaconBroadcaster_raspberry/main/raspberry-pi-web-ui"

// fakeDevice models just enough of a Raspberry Pi shell to check what the
// pipeline leaves behind.
type fakeDevice struct {
	commands []string
	dirs     map[string]bool
	files    map[string]string
	running  bool

	failOn      map[string]ssh.CommandResult
	transportOn string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		dirs:   map[string]bool{},
		files:  map[string]string{},
		failOn: map[string]ssh.CommandResult{},
	}
}

func unquote(s string) string {
	return strings.Trim(strings.TrimSpace(s), "'")
}

func (d *fakeDevice) ExecuteCommand(cmd string) (*ssh.CommandResult, error) {
	d.commands = append(d.commands, cmd)

	if d.transportOn != "" && strings.Contains(cmd, d.transportOn) {
		return nil, io.EOF
	}
	for sub, res := range d.failOn {
		if strings.Contains(cmd, sub) {
			r := res
			return &r, nil
		}
	}

	switch {
	case strings.HasPrefix(cmd, "mkdir -p "):
		d.dirs[unquote(strings.TrimPrefix(cmd, "mkdir -p "))] = true
	case strings.HasPrefix(cmd, "curl -fsSL "):
		parts := strings.SplitN(strings.TrimPrefix(cmd, "curl -fsSL "), " -o ", 2)
		d.files[unquote(parts[1])] = unquote(parts[0])
	case strings.Contains(cmd, "&& ./"):
		d.running = true
	case strings.HasPrefix(cmd, "screen -X"):
		d.running = false
	case strings.HasPrefix(cmd, "screen -list"):
		if !d.running {
			return &ssh.CommandResult{ExitCode: 1}, nil
		}
		return &ssh.CommandResult{Stdout: "1234.beacon_simulator (Detached)"}, nil
	}
	return &ssh.CommandResult{}, nil
}

func (d *fakeDevice) countContaining(sub string) int {
	n := 0
	for _, c := range d.commands {
		if strings.Contains(c, sub) {
			n++
		}
	}
	return n
}

func newTestInstaller(opts ...Option) *Installer {
	return NewInstaller(config.DefaultManifest(), logger.NewNop(), opts...)
}

func TestProvision_HappyPath(t *testing.T) {
	device := newFakeDevice()

	report, err := newTestInstaller().Provision(device, "beacon_broadcaster")
	require.NoError(t, err)

	want := []string{
		"mkdir -p 'beacon_broadcaster'",
		"curl -fsSL '" + baseURL + "/simulate_beacon.py' -o 'beacon_broadcaster/simulate_beacon.py'",
		"curl -fsSL '" + baseURL + "/index.html' -o 'beacon_broadcaster/index.html'",
		"curl -fsSL '" + baseURL + "/beacons_config.json' -o 'beacon_broadcaster/beacons_config.json'",
		"curl -fsSL '" + baseURL + "/run_detached.sh' -o 'beacon_broadcaster/run_detached.sh'",
		"cd 'beacon_broadcaster' && (pip3 install 'flask' 'flask-cors' 2>/dev/null || sudo -n pip3 install 'flask' 'flask-cors')",
		"chmod +x 'beacon_broadcaster/run_detached.sh'",
		"screen -X -S 'beacon_simulator' quit 2>/dev/null",
		"cd 'beacon_broadcaster' && ./'run_detached.sh'",
		"screen -list | grep 'beacon_simulator'",
	}
	assert.Equal(t, want, device.commands)

	assert.Equal(t, []string{"simulate_beacon.py", "index.html", "beacons_config.json", "run_detached.sh"}, report.FilesDeployed)
	assert.True(t, report.ServiceRunning)
	assert.Len(t, report.Steps, len(want))
	for _, s := range report.Steps {
		assert.True(t, s.Succeeded(), s.Step)
	}
}

func TestProvision_ThirdFileFailureAborts(t *testing.T) {
	device := newFakeDevice()
	device.failOn["beacons_config.json"] = ssh.CommandResult{ExitCode: 22, Stderr: "curl: (22) The requested URL returned error: 404"}

	report, err := newTestInstaller().Provision(device, "beacon_broadcaster")
	require.Error(t, err)

	var failure *StepFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StepDeployFile, failure.Step)
	assert.Equal(t, "beacons_config.json", failure.File)
	assert.Equal(t, 22, failure.ExitCode)
	assert.Equal(t, "failed to deploy beacons_config.json: curl: (22) The requested URL returned error: 404", err.Error())

	assert.Equal(t, []string{"simulate_beacon.py", "index.html"}, report.FilesDeployed)
	assert.Zero(t, device.countContaining("run_detached.sh"), "fourth file never attempted")
	assert.Zero(t, device.countContaining("pip3"))

	// earlier files are left in place
	assert.Contains(t, device.files, "beacon_broadcaster/simulate_beacon.py")
	assert.Contains(t, device.files, "beacon_broadcaster/index.html")
}

func TestProvision_CreateDirectoryFailure(t *testing.T) {
	device := newFakeDevice()
	device.failOn["mkdir"] = ssh.CommandResult{ExitCode: 1, Stderr: "mkdir: cannot create directory: Permission denied"}

	_, err := newTestInstaller().Provision(device, "/opt/beacon")
	require.Error(t, err)

	var failure *StepFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StepCreateDirectory, failure.Step)
	assert.Empty(t, failure.File)
	assert.Len(t, device.commands, 1)
}

func TestProvision_AdvisoryStepsDoNotAbort(t *testing.T) {
	device := newFakeDevice()
	device.failOn["pip3"] = ssh.CommandResult{ExitCode: 1, Stderr: "sudo: a password is required"}
	device.failOn["chmod"] = ssh.CommandResult{ExitCode: 1}
	device.failOn["screen -X"] = ssh.CommandResult{ExitCode: 1, Stderr: "No screen session found."}

	report, err := newTestInstaller().Provision(device, "beacon_broadcaster")
	require.NoError(t, err)
	assert.True(t, report.ServiceRunning)

	var advisoryFailures []string
	for _, s := range report.Steps {
		if !s.Succeeded() {
			assert.Equal(t, PolicyAdvisory, s.Policy)
			advisoryFailures = append(advisoryFailures, s.Step)
		}
	}
	assert.Equal(t, []string{StepInstallDependencies, StepMarkExecutable, StepStopService}, advisoryFailures)
}

func TestProvision_ServiceNotRunningIsAdvisory(t *testing.T) {
	device := newFakeDevice()
	device.failOn["screen -list"] = ssh.CommandResult{ExitCode: 1}

	report, err := newTestInstaller().Provision(device, "beacon_broadcaster")
	require.NoError(t, err)
	assert.False(t, report.ServiceRunning)
	assert.Len(t, report.FilesDeployed, 4)
}

func TestProvision_TransportErrorIsFatal(t *testing.T) {
	device := newFakeDevice()
	device.transportOn = "pip3"

	report, err := newTestInstaller().Provision(device, "beacon_broadcaster")
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.Len(t, report.FilesDeployed, 4)
	assert.Zero(t, device.countContaining("screen"))
}

func TestProvision_Idempotent(t *testing.T) {
	once := newFakeDevice()
	_, err := newTestInstaller().Provision(once, "beacon_broadcaster")
	require.NoError(t, err)

	twice := newFakeDevice()
	installer := newTestInstaller()
	_, err = installer.Provision(twice, "beacon_broadcaster")
	require.NoError(t, err)
	_, err = installer.Provision(twice, "beacon_broadcaster")
	require.NoError(t, err)

	assert.Equal(t, once.files, twice.files)
	assert.Equal(t, once.dirs, twice.dirs)
	assert.Equal(t, once.running, twice.running)
}

func TestProvision_BackupBeforeOverwrite(t *testing.T) {
	device := newFakeDevice()
	clock := func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, err := newTestInstaller(WithBackup(true), WithClock(clock)).Provision(device, "beacon_broadcaster")
	require.NoError(t, err)

	backup := "if [ -f 'beacon_broadcaster/simulate_beacon.py' ]; then cp 'beacon_broadcaster/simulate_beacon.py' 'beacon_broadcaster/simulate_beacon.py.backup_20260102_030405'; fi"
	require.Equal(t, 1, device.countContaining("then cp"), "only entries flagged for backup are copied")
	assert.Equal(t, backup, device.commands[1])
	assert.Contains(t, device.commands[2], "simulate_beacon.py' -o")
}

func TestProvision_InjectedManifest(t *testing.T) {
	manifest := config.Manifest{
		SourceBaseURL: "http://fake.local/src/",
		Entries: []config.ManifestEntry{
			{Name: "sim", Source: "/sim.py", Destination: "simulate_beacon.py"},
			{Name: "start", Source: "start.sh", Destination: "start.sh"},
		},
		Launcher:    "start.sh",
		SessionName: "sim_session",
		ServicePort: 8000,
	}
	device := newFakeDevice()

	report, err := NewInstaller(manifest, logger.NewNop()).Provision(device, "sim")
	require.NoError(t, err)

	assert.Equal(t, []string{"sim", "start"}, report.FilesDeployed)
	assert.Equal(t, "http://fake.local/src/sim.py", device.files["sim/simulate_beacon.py"])
	assert.Equal(t, "http://fake.local/src/start.sh", device.files["sim/start.sh"])
	assert.Zero(t, device.countContaining("pip3"), "no dependencies, no install step")
	assert.Equal(t, 1, device.countContaining("grep 'sim_session'"))
}

func TestNewInstaller_CopiesManifest(t *testing.T) {
	manifest := config.DefaultManifest()
	installer := NewInstaller(manifest, logger.NewNop())

	manifest.Entries[0].Source = "tampered.py"

	device := newFakeDevice()
	_, err := installer.Provision(device, "beacon_broadcaster")
	require.NoError(t, err)
	assert.Zero(t, device.countContaining("tampered.py"))
}

func TestStepFailure_Error(t *testing.T) {
	assert.Equal(t, "failed to deploy index.html: exit code 6", (&StepFailure{Step: StepDeployFile, File: "index.html", ExitCode: 6}).Error())
	assert.Equal(t, "step create-directory failed: denied", (&StepFailure{Step: StepCreateDirectory, ExitCode: 1, Stderr: "denied"}).Error())
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, "'beacon dir'", shellQuote("beacon dir"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
	assert.Equal(t, "mkdir -p '$(reboot)'", mkdirCommand("$(reboot)"))
	assert.Equal(t, "advisory", PolicyAdvisory.String())
	assert.Equal(t, "fatal", PolicyFatal.String())
}
