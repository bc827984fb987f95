package beacon

import (
	"fmt"

	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/pkg/ssh"
)

// Policy decides what a non-zero exit code does to the pipeline.
type Policy int

const (
	// PolicyFatal aborts the pipeline on a non-zero exit code.
	PolicyFatal Policy = iota
	// PolicyAdvisory records the exit code and carries on.
	PolicyAdvisory
)

func (p Policy) String() string {
	if p == PolicyAdvisory {
		return "advisory"
	}
	return "fatal"
}

const (
	StepCreateDirectory     = "create-directory"
	StepBackupFile          = "backup-file"
	StepDeployFile          = "deploy-file"
	StepInstallDependencies = "install-dependencies"
	StepMarkExecutable      = "mark-executable"
	StepStopService         = "stop-service"
	StepStartService        = "start-service"
	StepVerifyService       = "verify-service"
)

// Runner executes one remote command and waits for it. *ssh.Client satisfies it.
type Runner interface {
	ExecuteCommand(cmd string) (*ssh.CommandResult, error)
}

type StepOutcome struct {
	Step   string
	Target string
	Policy Policy
	Result *ssh.CommandResult
}

func (o StepOutcome) Succeeded() bool {
	return o.Result != nil && o.Result.ExitCode == 0
}

// Report is what a provisioning run produced. On failure it still holds the
// steps that ran before the pipeline stopped.
type Report struct {
	FilesDeployed  []string
	ServiceRunning bool
	Steps          []StepOutcome
}

// StepFailure is returned when a fatal step exits non-zero.
type StepFailure struct {
	Step     string
	File     string
	ExitCode int
	Stderr   string
}

func (e *StepFailure) Error() string {
	reason := e.Stderr
	if reason == "" {
		reason = fmt.Sprintf("exit code %d", e.ExitCode)
	}
	if e.File != "" {
		return fmt.Sprintf("failed to deploy %s: %s", e.File, reason)
	}
	return fmt.Sprintf("step %s failed: %s", e.Step, reason)
}

// runStep issues cmd, records the outcome and applies policy. Transport
// errors abort regardless of policy.
func runStep(runner Runner, log *logger.Logger, report *Report, step, target string, policy Policy, cmd string) (*ssh.CommandResult, error) {
	log.DeploymentStep(step, target)

	result, err := runner.ExecuteCommand(cmd)
	if err != nil {
		log.DeploymentError(step, err)
		return nil, fmt.Errorf("%s %s: %w", step, target, err)
	}

	report.Steps = append(report.Steps, StepOutcome{Step: step, Target: target, Policy: policy, Result: result})

	if result.ExitCode == 0 {
		log.DeploymentSuccess(step)
		return result, nil
	}
	if policy == PolicyAdvisory {
		log.Warnw("advisory step exited non-zero",
			"step", step,
			"target", target,
			"exit_code", result.ExitCode,
			"stderr", result.Stderr,
		)
		return result, nil
	}

	failure := &StepFailure{Step: step, ExitCode: result.ExitCode, Stderr: result.Stderr}
	if step == StepDeployFile {
		failure.File = target
	}
	log.DeploymentError(step, failure)
	return result, failure
}
