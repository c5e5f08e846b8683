package version

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorType classifies version lookup errors for better handling.
type ErrorType int

const (
	// ErrTypeNetwork is a generic network failure, the fallback when
	// nothing more specific applies.
	ErrTypeNetwork ErrorType = iota
	// ErrTypeNotFound means the repository or release does not exist.
	ErrTypeNotFound
	// ErrTypeParsing means response or manifest data could not be parsed.
	ErrTypeParsing
	// ErrTypeValidation means data was parsed but is not usable.
	ErrTypeValidation
	// ErrTypeRateLimit means the GitHub API rate limit is exhausted.
	ErrTypeRateLimit
	// ErrTypeTimeout is a request timeout.
	ErrTypeTimeout
	// ErrTypeDNS is a DNS resolution failure.
	ErrTypeDNS
	// ErrTypeConnection is a refused or reset connection.
	ErrTypeConnection
	// ErrTypeTLS is a certificate problem.
	ErrTypeTLS
)

// LookupError provides structured error information for version
// lookups, both local manifest reads and release queries.
type LookupError struct {
	Type    ErrorType
	Source  string // where the lookup ran (e.g. "cargo-manifest", "github")
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// Suggestion returns an actionable hint for the user based on the
// error type, or an empty string.
func (e *LookupError) Suggestion() string {
	switch e.Type {
	case ErrTypeRateLimit:
		return "Set GITHUB_TOKEN to raise the GitHub API rate limit, or wait for the limit to reset"
	case ErrTypeTimeout, ErrTypeNetwork:
		return "Check your internet connection and try again"
	case ErrTypeDNS:
		return "Check your DNS settings and internet connection"
	case ErrTypeConnection:
		return "The service may be down or blocked. Check if you can reach it in a browser"
	case ErrTypeTLS:
		return "There may be a certificate issue. Check that your system time is correct"
	case ErrTypeNotFound:
		return "Verify the github_repo setting points at an existing repository with releases"
	default:
		return ""
	}
}

// ClassifyError examines an error chain and returns the most specific
// ErrorType for it.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrTypeNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrTypeNetwork
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ErrTypeTimeout
		}
		return ErrTypeDNS
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return ErrTypeTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return ErrTypeTimeout
		}
		var innerDNS *net.DNSError
		if errors.As(opErr.Err, &innerDNS) {
			return ErrTypeDNS
		}
		return ErrTypeConnection
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return ErrTypeTimeout
		}
		if strings.Contains(urlErr.Err.Error(), "certificate") ||
			strings.Contains(urlErr.Err.Error(), "tls") ||
			strings.Contains(urlErr.Err.Error(), "x509") {
			return ErrTypeTLS
		}
		return ClassifyError(urlErr.Err)
	}

	return ErrTypeNetwork
}

// wrapNetworkError builds a LookupError with the classified type.
func wrapNetworkError(err error, source, message string) *LookupError {
	return &LookupError{
		Type:    ClassifyError(err),
		Source:  source,
		Message: message,
		Err:     err,
	}
}
