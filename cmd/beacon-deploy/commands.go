package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"beacon-deploy-backend/internal/config"
	"beacon-deploy-backend/internal/model"
	"beacon-deploy-backend/internal/pkg/logger"
	"beacon-deploy-backend/internal/service"
)

const passwordEnv = "BEACON_PASSWORD"

// errFailed signals a failure already reported on stdout.
var errFailed = errors.New("operation failed")

type targetFlags struct {
	ip       string
	username string
	password string
	port     string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.ip, "ip", "", "IPv4 address of the Raspberry Pi")
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "SSH username")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "SSH password (defaults to $"+passwordEnv+")")
	cmd.Flags().StringVar(&f.port, "port", "", "SSH port (defaults to SSH_DEFAULT_PORT)")
	_ = cmd.MarkFlagRequired("ip")
	_ = cmd.MarkFlagRequired("username")
}

func (f *targetFlags) resolvedPassword() string {
	if f.password != "" {
		return f.password
	}
	return os.Getenv(passwordEnv)
}

// setup loads configuration the same way the server does. Logs go to stderr
// so stdout carries only the JSON result.
func setup(manifestPath string) (*config.Config, *logger.Logger, *service.Metrics, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if manifestPath != "" {
		manifest, err := config.LoadManifest(manifestPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to load manifest: %w", err)
		}
		cfg.Deploy.Manifest = manifest
	}

	log, err := logger.NewLogger(cfg.Logging.Level, "console")
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, service.NewMetrics(prometheus.NewRegistry()), nil
}

func deployCommand() *cobra.Command {
	var (
		target       targetFlags
		directory    string
		manifestPath string
		backup       bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Fetch the simulator files, install dependencies and start the service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, metrics, err := setup(manifestPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if cmd.Flags().Changed("backup") {
				cfg.Deploy.BackupExisting = backup
			}

			svc := service.NewDeployService(cfg, service.OpenSSHSession, metrics, log)
			_, resp := svc.Deploy(cmd.Context(), &model.DeployRequest{
				IP:        target.ip,
				Username:  target.username,
				Password:  target.resolvedPassword(),
				Port:      model.Port(target.port),
				Directory: directory,
			})
			return printResult(cmd.OutOrStdout(), resp, resp.Success)
		},
	}

	target.register(cmd)
	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Remote install directory (defaults to DEPLOY_DIRECTORY)")
	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "Path to a YAML deployment manifest")
	cmd.Flags().BoolVar(&backup, "backup", false, "Copy files that already exist before overwriting them")
	return cmd
}

func checkCommand() *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the credentials and report what the device has installed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, metrics, err := setup("")
			if err != nil {
				return err
			}
			defer log.Sync()

			svc := service.NewSSHService(cfg, service.OpenSSHSession, metrics, log)
			_, resp := svc.TestConnection(cmd.Context(), &model.SSHTestRequest{
				IP:       target.ip,
				Username: target.username,
				Password: target.resolvedPassword(),
				Port:     model.Port(target.port),
			})
			return printResult(cmd.OutOrStdout(), resp, resp.Success)
		},
	}

	target.register(cmd)
	return cmd
}

func printResult(w io.Writer, resp interface{}, success bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if !success {
		return errFailed
	}
	return nil
}
