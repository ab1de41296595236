// Package httpclient builds the outbound HTTP clients used to reach upstream
// services and maps their responses onto the platform sentinels.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"soknadpdf/internal/platform/config"
	"soknadpdf/pkg/platform/sentinel"
)

// MaxBodyBytes caps how much of an upstream response is read.
const MaxBodyBytes = 64 << 20

// New returns a client that attaches a client-credentials token for scope. When
// no token URL is configured requests go out unauthenticated.
func New(ctx context.Context, cfg config.OAuth, scope string, timeout time.Duration) *http.Client {
	base := &http.Client{Timeout: timeout}
	if cfg.TokenURL == "" {
		return base
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	if scope != "" {
		cc.Scopes = []string{scope}
	}
	// The token endpoint is called with its own client so the base timeout applies
	// to it as well.
	client := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	client.Timeout = timeout
	return client
}

// CheckStatus translates a non-2xx response into an error. 404 wraps
// sentinel.ErrNotFound and 5xx wraps sentinel.ErrUnavailable.
func CheckStatus(resp *http.Response, what string) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w", what, sentinel.ErrNotFound)
	case code >= 500:
		return fmt.Errorf("%s: status %d: %w", what, code, sentinel.ErrUnavailable)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", what, code, body)
	}
}

// ReadBody reads at most MaxBodyBytes of the response body.
func ReadBody(resp *http.Response, what string) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", what, err)
	}
	if len(body) > MaxBodyBytes {
		return nil, fmt.Errorf("%s: body exceeds %d bytes", what, MaxBodyBytes)
	}
	return body, nil
}

// Do sends req and returns the body of a successful response. Transport failures
// wrap sentinel.ErrUnavailable.
func Do(client *http.Client, req *http.Request, what string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", what, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if err := CheckStatus(resp, what); err != nil {
		return nil, err
	}
	return ReadBody(resp, what)
}
