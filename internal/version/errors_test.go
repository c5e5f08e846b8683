package version

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrTypeNetwork},
		{"deadline exceeded", context.DeadlineExceeded, ErrTypeTimeout},
		{"wrapped deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTypeTimeout},
		{"canceled", context.Canceled, ErrTypeNetwork},
		{"dns failure", &net.DNSError{Name: "api.github.com", Err: "no such host"}, ErrTypeDNS},
		{"dns timeout", &net.DNSError{Name: "api.github.com", IsTimeout: true}, ErrTypeTimeout},
		{
			"connection refused",
			&net.OpError{Op: "dial", Err: errors.New("connection refused")},
			ErrTypeConnection,
		},
		{
			"op error wrapping dns",
			&net.OpError{Op: "dial", Err: &net.DNSError{Name: "x", Err: "no such host"}},
			ErrTypeDNS,
		},
		{
			"url error recurses",
			&url.Error{Op: "Get", URL: "https://api.github.com", Err: &net.OpError{Op: "dial", Err: errors.New("reset")}},
			ErrTypeConnection,
		},
		{
			"url error with certificate hint",
			&url.Error{Op: "Get", URL: "https://api.github.com", Err: errors.New("x509: certificate signed by unknown authority")},
			ErrTypeTLS,
		},
		{"plain error", errors.New("boom"), ErrTypeNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestLookupErrorFormat(t *testing.T) {
	e := &LookupError{Type: ErrTypeNotFound, Source: "github", Message: "no releases found for a/b"}
	if got := e.Error(); got != "github: no releases found for a/b" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := &LookupError{Type: ErrTypeNetwork, Source: "github", Message: "query failed", Err: errors.New("dial tcp: refused")}
	if got := wrapped.Error(); !strings.Contains(got, "query failed") || !strings.Contains(got, "refused") {
		t.Errorf("Error() = %q, want message and cause", got)
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Error("Unwrap() should expose the cause")
	}
}

func TestLookupErrorSuggestion(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeRateLimit, "GITHUB_TOKEN"},
		{ErrTypeTimeout, "internet connection"},
		{ErrTypeNetwork, "internet connection"},
		{ErrTypeDNS, "DNS"},
		{ErrTypeConnection, "down or blocked"},
		{ErrTypeTLS, "certificate"},
		{ErrTypeNotFound, "github_repo"},
		{ErrTypeParsing, ""},
		{ErrTypeValidation, ""},
	}
	for _, tt := range tests {
		e := &LookupError{Type: tt.errType, Source: "github", Message: "x"}
		got := e.Suggestion()
		if tt.want == "" {
			if got != "" {
				t.Errorf("Suggestion() for type %v = %q, want empty", tt.errType, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Suggestion() for type %v = %q, want substring %q", tt.errType, got, tt.want)
		}
	}
}
