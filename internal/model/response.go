package model

// DeployDetails carries host, directory and, depending on the outcome, either
// what was deployed or the connection parameters that failed.
type DeployDetails struct {
	Host           string   `json:"host"`
	Directory      string   `json:"directory"`
	FilesDeployed  []string `json:"filesDeployed,omitempty"`
	ServiceRunning *bool    `json:"serviceRunning,omitempty"`
	WebUIURL       string   `json:"webUiUrl,omitempty"`
	Port           string   `json:"port,omitempty"`
}

type DeployResponse struct {
	Success      bool           `json:"success"`
	Message      string         `json:"message,omitempty"`
	Error        string         `json:"error,omitempty"`
	DeploymentID string         `json:"deploymentId,omitempty"`
	Details      *DeployDetails `json:"details,omitempty"`
}

type SSHTestResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Details []string `json:"details,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
