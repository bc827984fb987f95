package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	defaultPort           = 22
	defaultConnectTimeout = 10 * time.Second
)

type SSHConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	// Timeout bounds both the TCP dial and the SSH handshake.
	// If zero, defaultConnectTimeout is used.
	Timeout time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback
}

type state int

const (
	stateUnopened state = iota
	stateOpen
	stateClosed
)

// Client owns a single SSH connection to one target. It is opened at most
// once; after Close (or a failed Connect) it cannot be reused.
type Client struct {
	config SSHConfig
	conn   *ssh.Client
	state  state
}

type CommandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

func NewClient(config SSHConfig) *Client {
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Timeout == 0 {
		config.Timeout = defaultConnectTimeout
	}
	if config.HostKeyCallback == nil {
		config.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // devices are provisioned fresh, keys are unknown
	}
	return &Client{
		config: config,
	}
}

func (c *Client) Addr() string {
	return net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
}

// Connect dials the target and completes the SSH handshake. Failures are
// returned as *ConnectError.
func (c *Client) Connect(ctx context.Context) error {
	if c.state != stateUnopened {
		return fmt.Errorf("ssh client for %s already used", c.Addr())
	}
	c.state = stateClosed

	addr := c.Addr()
	dialCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	dialer := &net.Dialer{Timeout: c.config.Timeout}
	netConn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return &ConnectError{Kind: classifyNetError(err), Addr: addr, Err: err}
	}

	deadline := time.Now().Add(c.config.Timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = netConn.SetDeadline(deadline)

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, c.clientConfig())
	if err != nil {
		_ = netConn.Close()
		kind := classifyHandshakeError(err)
		if kind == KindOther && !time.Now().Before(deadline) {
			kind = KindTimedOut
		}
		return &ConnectError{Kind: kind, Addr: addr, Err: err}
	}
	_ = netConn.SetDeadline(time.Time{})

	c.conn = ssh.NewClient(sshConn, chans, reqs)
	c.state = stateOpen
	return nil
}

func (c *Client) clientConfig() *ssh.ClientConfig {
	password := c.config.Password
	return &ssh.ClientConfig{
		User: c.config.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: c.config.HostKeyCallback,
		Timeout:         c.config.Timeout,
	}
}

// ExecuteCommand runs cmd in a new session on the open connection. A non-zero
// exit status is reported through CommandResult.ExitCode; the returned error
// is reserved for transport failures.
func (c *Client) ExecuteCommand(cmd string) (*CommandResult, error) {
	if c.state != stateOpen {
		return nil, fmt.Errorf("ssh connection to %s not established", c.Addr())
	}

	session, err := c.conn.NewSession()
	if err != nil {
		return nil, fmt.Errorf("create ssh session: %w", err)
	}
	defer session.Close()

	var stdoutBuf, stderrBuf strings.Builder
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	err = session.Run(cmd)

	result := &CommandResult{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}

	var exitErr *ssh.ExitError
	var missingErr *ssh.ExitMissingError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitStatus()
	case errors.As(err, &missingErr):
		result.ExitCode = -1
	default:
		return result, fmt.Errorf("run remote command: %w", err)
	}
	return result, nil
}

// Close releases the connection. It is safe to call more than once.
func (c *Client) Close() error {
	if c.state != stateOpen {
		c.state = stateClosed
		return nil
	}
	c.state = stateClosed
	return c.conn.Close()
}
