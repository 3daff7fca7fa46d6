package mailer

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/textproto"
)

type Kind int

const (
	KindOther Kind = iota
	KindAuth
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindConnection:
		return "connection"
	default:
		return "other"
	}
}

var (
	ErrAuth       = errors.New("smtp authentication failed")
	ErrConnection = errors.New("smtp connection failed")
)

// Failure to hand a message to the relay
type DispatchError struct {
	Err  error
	Kind Kind
}

// The relay's own error text
func (e *DispatchError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

func (e *DispatchError) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrConnection:
		return e.Kind == KindConnection
	default:
		return false
	}
}

// Kind carried by err, KindOther when err is not a *DispatchError
func KindOf(err error) Kind {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindOther
}

// SMTP reply codes that mean the credentials were refused
var authReplyCodes = map[int]bool{
	454: true, // temporary authentication failure
	530: true, // authentication required
	534: true, // mechanism too weak
	535: true, // credentials invalid
	538: true, // encryption required for mechanism
}

func classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		if authReplyCodes[protoErr.Code] {
			return KindAuth
		}
		return KindOther
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindConnection
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnection
	}

	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return KindConnection
	}

	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return KindConnection
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindConnection
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return KindConnection
	}

	return KindOther
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return &DispatchError{Kind: classify(err), Err: err}
}
