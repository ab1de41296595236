package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"soknadpdf/internal/archive"
)

type key struct {
	need    string
	variant string
}

// Store keeps receipts in memory. It is used when no database is configured.
type Store struct {
	mu       sync.RWMutex
	receipts map[uuid.UUID]map[key]archive.Receipt
}

func New() *Store {
	return &Store{receipts: make(map[uuid.UUID]map[key]archive.Receipt)}
}

func (s *Store) Append(_ context.Context, receipts ...archive.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range receipts {
		bySubmission, ok := s.receipts[r.SubmissionID]
		if !ok {
			bySubmission = make(map[key]archive.Receipt)
			s.receipts[r.SubmissionID] = bySubmission
		}
		bySubmission[key{need: r.Need, variant: r.Variant}] = r
	}
	return nil
}

// ListBySubmission returns receipts ordered by archive time, then variant.
func (s *Store) ListBySubmission(_ context.Context, submissionID uuid.UUID) ([]archive.Receipt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]archive.Receipt, 0, len(s.receipts[submissionID]))
	for _, r := range s.receipts[submissionID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ArchivedAt.Equal(out[j].ArchivedAt) {
			return out[i].ArchivedAt.Before(out[j].ArchivedAt)
		}
		return out[i].Variant < out[j].Variant
	})
	return out, nil
}
