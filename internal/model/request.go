package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"beacon-deploy-backend/pkg/utils"
)

// Port accepts either a JSON string ("22") or a JSON number (22).
type Port string

func (p *Port) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Port(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("port must be a string or number: %w", err)
	}
	*p = Port(n.String())
	return nil
}

type DeployRequest struct {
	IP        string `json:"ip"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Port      Port   `json:"port"`
	Directory string `json:"directory"`
}

// ApplyDefaults fills in the optional fields.
func (r *DeployRequest) ApplyDefaults(defaultPort int, defaultDirectory string) {
	r.IP = strings.TrimSpace(r.IP)
	r.Username = strings.TrimSpace(r.Username)
	if r.Port == "" {
		r.Port = Port(fmt.Sprint(defaultPort))
	}
	if strings.TrimSpace(r.Directory) == "" {
		r.Directory = defaultDirectory
	}
}

func (r *DeployRequest) Credentials() utils.Credentials {
	return utils.Credentials{
		IP:       r.IP,
		Username: r.Username,
		Password: r.Password,
		Port:     string(r.Port),
	}
}

// SSHTestRequest checks credentials without deploying anything.
type SSHTestRequest struct {
	IP       string `json:"ip"`
	Username string `json:"username"`
	Password string `json:"password"`
	Port     Port   `json:"port"`
}

func (r *SSHTestRequest) ApplyDefaults(defaultPort int) {
	r.IP = strings.TrimSpace(r.IP)
	r.Username = strings.TrimSpace(r.Username)
	if r.Port == "" {
		r.Port = Port(fmt.Sprint(defaultPort))
	}
}

func (r *SSHTestRequest) Credentials() utils.Credentials {
	return utils.Credentials{
		IP:       r.IP,
		Username: r.Username,
		Password: r.Password,
		Port:     string(r.Port),
	}
}
