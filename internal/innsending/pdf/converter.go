// Package pdf converts rendered XHTML documents to archivable PDF/A through an
// HTML to PDF conversion service.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"soknadpdf/internal/platform/httpclient"
)

// Conformance is the PDF/A level requested from the converter.
const Conformance = "PDF/A-2u"

const convertPath = "/forms/chromium/convert/html"

// Converter posts documents to the conversion service.
type Converter struct {
	url    string
	client *http.Client
}

// New creates a Converter for the service at baseURL.
func New(baseURL string, client *http.Client) (*Converter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("converter URL is required")
	}
	if client == nil {
		return nil, fmt.Errorf("http client is required")
	}
	return &Converter{url: strings.TrimRight(baseURL, "/") + convertPath, client: client}, nil
}

// Convert renders document as a tagged PDF/A file.
func (c *Converter) Convert(ctx context.Context, document string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}
	if _, err := part.Write([]byte(document)); err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}
	if err := mw.WriteField("pdfa", Conformance); err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}
	if err := mw.WriteField("pdfua", "true"); err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("convert to pdf: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	out, err := httpclient.Do(c.client, req, "convert to pdf")
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		return nil, fmt.Errorf("convert to pdf: response is not a PDF")
	}
	return out, nil
}
