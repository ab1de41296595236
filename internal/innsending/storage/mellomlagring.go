package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"soknadpdf/internal/platform/httpclient"
)

// Mellomlagring stores documents in the intermediate storage service, which
// answers with one URN per uploaded file.
type Mellomlagring struct {
	baseURL string
	client  *http.Client
}

// NewMellomlagring creates a client for the storage service at baseURL.
func NewMellomlagring(baseURL string, client *http.Client) (*Mellomlagring, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("mellomlagring URL is required")
	}
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	return &Mellomlagring{baseURL: strings.TrimRight(baseURL, "/"), client: client}, nil
}

type urnResponse struct {
	Filnavn string `json:"filnavn"`
	URN     string `json:"urn"`
}

// Save uploads docs as one multipart request.
func (m *Mellomlagring) Save(ctx context.Context, submissionID, ident string, docs []Document) ([]Stored, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, d := range docs {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Type", "application/pdf")
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, d.Variant.part(), d.Variant.Filename()))
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
		if _, err := part.Write(d.Content); err != nil {
			return nil, fmt.Errorf("build upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/"+submissionID, &body)
	if err != nil {
		return nil, fmt.Errorf("store documents: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Eier", ident)

	raw, err := httpclient.Do(m.client, req, "store documents")
	if err != nil {
		return nil, err
	}
	var urns []urnResponse
	if err := json.Unmarshal(raw, &urns); err != nil {
		return nil, fmt.Errorf("decode storage response: %w", err)
	}

	byName := make(map[string]string, len(urns))
	for _, u := range urns {
		byName[u.Filnavn] = u.URN
	}
	stored := make([]Stored, 0, len(docs))
	for _, d := range docs {
		urn, ok := byName[d.Variant.Filename()]
		if !ok {
			return nil, fmt.Errorf("storage response has no urn for %s", d.Variant.Filename())
		}
		stored = append(stored, Stored{Variant: d.Variant, Filename: d.Variant.Filename(), URN: urn})
	}
	return stored, nil
}
