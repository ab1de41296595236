// Package storage persists produced PDF documents and reports where they were
// stored. Three backends exist: the intermediate storage service used by the
// archive pipeline, S3 and Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"soknadpdf/internal/platform/config"
)

// Variant distinguishes the compact and the full document.
type Variant string

const (
	Netto  Variant = "NETTO"
	Brutto Variant = "BRUTTO"
)

// Filename is the stored file name of the variant.
func (v Variant) Filename() string {
	return strings.ToLower(string(v)) + ".pdf"
}

func (v Variant) part() string {
	return strings.ToLower(string(v))
}

// Document is one PDF to store.
type Document struct {
	Variant Variant
	Content []byte
}

// Stored locates a stored document.
type Stored struct {
	Variant  Variant
	Filename string
	URN      string
}

// Store saves the documents of one submission, owned by ident, and returns one
// Stored per document in input order.
type Store interface {
	Save(ctx context.Context, submissionID, ident string, docs []Document) ([]Stored, error)
}

const (
	BackendMellomlagring = "mellomlagring"
	BackendS3            = "s3"
	BackendGCS           = "gcs"
)

// New builds the backend selected by cfg. client is only used by the
// intermediate storage backend.
func New(ctx context.Context, cfg config.Storage, client *http.Client) (Store, error) {
	switch cfg.Backend {
	case BackendMellomlagring, "":
		return NewMellomlagring(cfg.MellomlagringURL, client)
	case BackendS3:
		return NewS3FromConfig(ctx, S3Config{Bucket: cfg.Bucket, Region: cfg.Region, Endpoint: cfg.Endpoint})
	case BackendGCS:
		return NewGCSFromConfig(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", cfg.Backend)
	}
}

func objectKey(prefix, submissionID string, v Variant) string {
	return prefix + submissionID + "/" + v.Filename()
}
