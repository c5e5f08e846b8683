// Package version reads the crate version from the source tree and
// compares it against published GitHub releases.
package version

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Release is a published release of the configured repository.
type Release struct {
	Tag     string // tag as published (e.g. "v1.2.3")
	Version string // normalized (e.g. "1.2.3")
}

// Resolver queries GitHub for the latest published release.
type Resolver struct {
	client        *github.Client
	authenticated bool
}

// New creates a resolver. A GITHUB_TOKEN in the environment is used
// for authenticated requests, which have a much higher rate limit.
func New() *Resolver {
	r := &Resolver{}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		r.client = github.NewClient(oauth2.NewClient(context.Background(), ts))
		r.authenticated = true
	} else {
		r.client = github.NewClient(nil)
	}
	return r
}

// NewWithClient creates a resolver around an existing GitHub client.
// Used by tests to point at a mock server.
func NewWithClient(client *github.Client) *Resolver {
	return &Resolver{client: client}
}

// LatestRelease returns the newest published release of repo, given in
// owner/name form.
func (r *Resolver) LatestRelease(ctx context.Context, repo string) (*Release, error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, &LookupError{
			Type:    ErrTypeValidation,
			Source:  "github",
			Message: fmt.Sprintf("invalid repository %q, expected owner/name", repo),
		}
	}

	release, _, err := r.client.Repositories.GetLatestRelease(ctx, parts[0], parts[1])
	if err != nil {
		return nil, r.wrapAPIError(err, repo)
	}

	if release.TagName == nil || *release.TagName == "" {
		return nil, &LookupError{
			Type:    ErrTypeValidation,
			Source:  "github",
			Message: fmt.Sprintf("latest release of %s has no tag", repo),
		}
	}

	tag := *release.TagName
	return &Release{
		Tag:     tag,
		Version: strings.TrimPrefix(tag, "v"),
	}, nil
}

// wrapAPIError converts go-github errors into typed lookup errors.
func (r *Resolver) wrapAPIError(err error, repo string) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		msg := fmt.Sprintf("GitHub API rate limit exhausted (%d/%d), resets %s",
			rateErr.Rate.Remaining, rateErr.Rate.Limit,
			rateErr.Rate.Reset.Time.Format("15:04:05"))
		if !r.authenticated {
			msg += "; requests are unauthenticated"
		}
		return &LookupError{
			Type:    ErrTypeRateLimit,
			Source:  "github",
			Message: msg,
			Err:     err,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == 404 {
		return &LookupError{
			Type:    ErrTypeNotFound,
			Source:  "github",
			Message: fmt.Sprintf("no releases found for %s", repo),
			Err:     err,
		}
	}

	return wrapNetworkError(err, "github", fmt.Sprintf("failed to query releases for %s", repo))
}
