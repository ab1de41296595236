package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

// ObjectWriter opens a writer for one object in a bucket.
type ObjectWriter interface {
	NewWriter(ctx context.Context, object, contentType string) io.WriteCloser
}

type gcsBucket struct {
	bucket *gcs.BucketHandle
}

func (b gcsBucket) NewWriter(ctx context.Context, object, contentType string) io.WriteCloser {
	w := b.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	return w
}

// GCS stores documents in a Google Cloud Storage bucket.
type GCS struct {
	writer ObjectWriter
	bucket string
	prefix string
	closer io.Closer
}

// NewGCS creates a GCS store writing through w.
func NewGCS(w ObjectWriter, bucket, prefix string) (*GCS, error) {
	if w == nil {
		return nil, fmt.Errorf("object writer is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	return &GCS{writer: w, bucket: bucket, prefix: prefix}, nil
}

// NewGCSFromConfig creates a GCS store using application default credentials.
func NewGCSFromConfig(ctx context.Context, bucket string) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	store, err := NewGCS(gcsBucket{bucket: client.Bucket(bucket)}, bucket, "")
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	store.closer = client
	return store, nil
}

// Close releases the underlying client, if the store owns one.
func (g *GCS) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

// Save writes one object per document. An object is only committed when its
// writer closes without error.
func (g *GCS) Save(ctx context.Context, submissionID, _ string, docs []Document) ([]Stored, error) {
	stored := make([]Stored, 0, len(docs))
	for _, d := range docs {
		object := objectKey(g.prefix, submissionID, d.Variant)
		w := g.writer.NewWriter(ctx, object, "application/pdf")
		if _, err := w.Write(d.Content); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("gcs write %s: %w", object, err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gcs close %s: %w", object, err)
		}
		stored = append(stored, Stored{
			Variant:  d.Variant,
			Filename: d.Variant.Filename(),
			URN:      fmt.Sprintf("urn:gcs:%s:%s", g.bucket, object),
		})
	}
	return stored, nil
}
