package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	SSH       SSHConfig
	Deploy    DeployConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	AllowOrigins []string
}

type SSHConfig struct {
	DefaultPort    int
	ConnectTimeout int
}

type DeployConfig struct {
	DefaultDirectory string
	BackupExisting   bool
	ManifestFile     string
	Manifest         Manifest
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type LoggingConfig struct {
	Level  string
	Format string
}

// ConnectTimeoutDuration returns the SSH connect timeout as a time.Duration.
func (c SSHConfig) ConnectTimeoutDuration() time.Duration {
	return time.Duration(c.ConnectTimeout) * time.Second
}

// LoadConfig reads the configuration from the environment. The manifest is
// taken from MANIFEST_FILE when set, otherwise the built-in default is used.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnvAsString("SERVER_HOST", "127.0.0.1"),
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 300),
			AllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		SSH: SSHConfig{
			DefaultPort:    getEnvAsInt("SSH_DEFAULT_PORT", 22),
			ConnectTimeout: getEnvAsInt("SSH_CONNECT_TIMEOUT", 10),
		},
		Deploy: DeployConfig{
			DefaultDirectory: getEnvAsString("DEPLOY_DIRECTORY", "beacon_broadcaster"),
			BackupExisting:   getEnvAsBool("BACKUP_EXISTING", false),
			ManifestFile:     getEnvAsString("MANIFEST_FILE", ""),
			Manifest:         DefaultManifest(),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 1),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnvAsString("LOG_LEVEL", "info"),
			Format: getEnvAsString("LOG_FORMAT", "json"),
		},
	}

	if cfg.Deploy.ManifestFile != "" {
		manifest, err := LoadManifest(cfg.Deploy.ManifestFile)
		if err != nil {
			return nil, err
		}
		cfg.Deploy.Manifest = manifest
	}

	return cfg, nil
}

func getEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
