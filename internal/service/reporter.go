package service

import (
	"fmt"

	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/beacon"
	"beacon-deploy-backend/pkg/utils"
)

const deploySuccessMessage = "Deployment completed successfully!"

func webUIURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

func successResponse(deploymentID string, req *model.DeployRequest, report *beacon.Report, servicePort int) *model.DeployResponse {
	running := report.ServiceRunning
	return &model.DeployResponse{
		Success:      true,
		Message:      deploySuccessMessage,
		DeploymentID: deploymentID,
		Details: &model.DeployDetails{
			Host:           req.IP,
			Directory:      req.Directory,
			FilesDeployed:  append([]string(nil), report.FilesDeployed...),
			ServiceRunning: &running,
			WebUIURL:       webUIURL(req.IP, servicePort),
		},
	}
}

func failureResponse(deploymentID string, req *model.DeployRequest, apiErr *utils.APIError) *model.DeployResponse {
	return &model.DeployResponse{
		Success:      false,
		Error:        apiErr.Message,
		DeploymentID: deploymentID,
		Details: &model.DeployDetails{
			Host:      req.IP,
			Port:      string(req.Port),
			Directory: req.Directory,
		},
	}
}

// Validation failures never reached the device, so no details are attached.
func rejectedResponse(apiErr *utils.APIError) *model.DeployResponse {
	return &model.DeployResponse{
		Success: false,
		Error:   apiErr.Message,
	}
}
