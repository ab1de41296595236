// Package clients fetches the inputs of a submission document from the upstream
// services: the answer tree, text catalog and documentation requirements from the
// application service, and personal data from the person register.
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"soknadpdf/internal/platform/httpclient"
)

// Soknad reads the finalized trees of an application.
type Soknad struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// SoknadOption configures a Soknad client.
type SoknadOption func(*Soknad)

// WithSoknadLogger sets the logger used for request tracing.
func WithSoknadLogger(logger *slog.Logger) SoknadOption {
	return func(s *Soknad) {
		s.logger = logger
	}
}

// NewSoknad creates a client for the application service at baseURL.
func NewSoknad(baseURL string, client *http.Client, opts ...SoknadOption) (*Soknad, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	s := &Soknad{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Answers returns the raw answer tree.
func (s *Soknad) Answers(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.get(ctx, fmt.Sprintf("%s/%s/ferdigstilt/fakta", s.baseURL, id), "fetch answer tree")
}

// Texts returns the raw text catalog the applicant saw.
func (s *Soknad) Texts(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.get(ctx, fmt.Sprintf("%s/%s/ferdigstilt/tekst", s.baseURL, id), "fetch text catalog")
}

// Requirements returns the raw documentation requirement tree.
func (s *Soknad) Requirements(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.get(ctx, fmt.Sprintf("%s/soknad/%s/dokumentasjonskrav", s.baseURL, id), "fetch documentation requirements")
}

func (s *Soknad) get(ctx context.Context, url, what string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	req.Header.Set("Accept", "application/json")
	body, err := httpclient.Do(s.client, req, what)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "fetched", "url", url, "bytes", len(body))
	return body, nil
}
