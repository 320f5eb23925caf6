package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// TransportKind classifies a failed backend call. Route handlers switch on
// the kind instead of sniffing error message strings.
type TransportKind int

const (
	KindNetwork TransportKind = iota
	KindUnreachable
	KindTimeout
	KindMalformed
)

func (k TransportKind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindTimeout:
		return "timeout"
	case KindMalformed:
		return "malformed"
	default:
		return "network"
	}
}

// StatusError is a non-2xx reply from the backend. Detail carries the
// backend's declared "detail" string when the body has one.
type StatusError struct {
	Status  int
	Detail  string
	RawBody string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Detail)
}

// TransportError is a backend call that never produced a usable response.
type TransportError struct {
	Kind     TransportKind
	Endpoint string
	Cause    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s error calling %s: %v", e.Kind, e.Endpoint, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// classifyTransport maps a raw http.Client error onto a TransportKind.
func classifyTransport(err error, endpoint string) *TransportError {
	kind := KindNetwork

	var netErr net.Error
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		kind = KindUnreachable
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = KindTimeout
	}

	return &TransportError{Kind: kind, Endpoint: endpoint, Cause: err}
}
