package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Octets are not range checked: "999.1.1.1" passes.
var dottedQuad = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

const (
	msgMissingFields = "Missing required fields: ip, username, password"
	msgInvalidIP     = "Invalid IP address format"
)

// Credentials is the part of a request the gate looks at.
type Credentials struct {
	IP       string
	Username string
	Password string
	Port     string
}

// ValidateCredentials checks the request shape before any network I/O.
func ValidateCredentials(c Credentials) *APIError {
	if c.IP == "" || c.Username == "" || c.Password == "" {
		return NewValidationError(msgMissingFields)
	}
	if err := ValidateIP(c.IP); err != nil {
		return NewValidationError(msgInvalidIP)
	}
	if _, err := ParsePort(c.Port); err != nil {
		return NewValidationError(fmt.Sprintf("Invalid port: %s", c.Port))
	}
	return nil
}

func ValidateIP(ip string) error {
	if !dottedQuad.MatchString(ip) {
		return fmt.Errorf("invalid ip address: %s", ip)
	}
	return nil
}

func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be within 1-65535: %d", port)
	}
	return nil
}

func ParsePort(port string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return 0, fmt.Errorf("parse port %q: %w", port, err)
	}
	if err := ValidatePort(p); err != nil {
		return 0, err
	}
	return p, nil
}

// ValidateDirectory rejects directory names that cannot be passed to the
// remote shell as a single argument.
func ValidateDirectory(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return fmt.Errorf("directory is empty")
	}
	if strings.ContainsAny(dir, "\x00\n\r") {
		return fmt.Errorf("directory contains control characters")
	}
	return nil
}
