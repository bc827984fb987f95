package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
)

// FailureKind says why a connection to the target could not be used.
type FailureKind int

const (
	KindOther FailureKind = iota
	KindUnreachable
	KindTimedOut
	KindAuthFailed
	KindRefused
)

func (k FailureKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimedOut:
		return "timed_out"
	case KindAuthFailed:
		return "auth_failed"
	case KindRefused:
		return "refused"
	default:
		return "other"
	}
}

// ConnectError is returned by Client.Connect.
type ConnectError struct {
	Kind FailureKind
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("ssh connect to %s failed (%s): %v", e.Addr, e.Kind, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// KindOf reports the failure kind of err. A ConnectError anywhere in the chain
// wins; otherwise the underlying network error decides.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindOther
	}
	var connectErr *ConnectError
	if errors.As(err, &connectErr) {
		return connectErr.Kind
	}
	return classifyNetError(err)
}

func classifyNetError(err error) FailureKind {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindRefused
	case errors.Is(err, syscall.EHOSTUNREACH), errors.Is(err, syscall.ENETUNREACH):
		return KindUnreachable
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return KindTimedOut
		}
		return KindUnreachable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, syscall.ETIMEDOUT):
		return KindTimedOut
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimedOut
	}
	return KindOther
}

// classifyHandshakeError handles failures after the TCP connection is up.
// x/crypto/ssh reports exhausted auth methods only as formatted text, so this
// is the one place the message is inspected.
func classifyHandshakeError(err error) FailureKind {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return KindAuthFailed
	}
	return classifyNetError(err)
}
