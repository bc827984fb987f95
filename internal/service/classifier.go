package service

import (
	"errors"

	"beacon-deploy-backend/internal/pkg/beacon"
	"beacon-deploy-backend/internal/pkg/ssh"
	"beacon-deploy-backend/pkg/utils"
)

// Classify maps a failure from session open or from the pipeline to the error
// reported to the caller. The first matching kind wins.
func Classify(err error, host, port string) *utils.APIError {
	var apiErr *utils.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch ssh.KindOf(err) {
	case ssh.KindUnreachable, ssh.KindTimedOut:
		return utils.NewUnreachableError(host, err)
	case ssh.KindAuthFailed:
		return utils.NewAuthenticationError(err)
	case ssh.KindRefused:
		return utils.NewRefusedError(port, err)
	}

	var failure *beacon.StepFailure
	if errors.As(err, &failure) {
		return utils.NewStepError(failure)
	}
	return utils.NewSystemError(err)
}
