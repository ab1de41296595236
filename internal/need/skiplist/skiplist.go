// Package skiplist holds the submission ids whose needs are logged and dropped
// instead of solved. Ids come from configuration and, when Redis is configured,
// from a Redis set that operators can change without a deploy.
package skiplist

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	platformstrings "soknadpdf/pkg/platform/strings"
)

// DefaultKey is the Redis set holding skipped submission ids.
const DefaultKey = "soknadpdf:skip"

// List checks submission ids against the configured ids and the Redis set.
type List struct {
	static map[string]struct{}
	client redis.Cmdable
	key    string
}

// Option configures a List.
type Option func(*List)

// WithRedis adds the Redis set stored under key. An empty key uses DefaultKey.
func WithRedis(client redis.Cmdable, key string) Option {
	return func(l *List) {
		l.client = client
		if key != "" {
			l.key = key
		}
	}
}

// New creates a List from the configured ids.
func New(ids []string, opts ...Option) *List {
	ids = platformstrings.DedupeAndTrimLower(ids)
	l := &List{static: make(map[string]struct{}, len(ids)), key: DefaultKey}
	for _, id := range ids {
		l.static[id] = struct{}{}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Contains reports whether submissionID is skipped.
func (l *List) Contains(ctx context.Context, submissionID string) (bool, error) {
	id := normalize(submissionID)
	if _, ok := l.static[id]; ok {
		return true, nil
	}
	if l.client == nil {
		return false, nil
	}
	found, err := l.client.SIsMember(ctx, l.key, id).Result()
	if err != nil {
		return false, fmt.Errorf("check skip set: %w", err)
	}
	return found, nil
}

// Add puts submissionID in the Redis set.
func (l *List) Add(ctx context.Context, submissionID string) error {
	if l.client == nil {
		return fmt.Errorf("skip list has no redis store")
	}
	if err := l.client.SAdd(ctx, l.key, normalize(submissionID)).Err(); err != nil {
		return fmt.Errorf("add to skip set: %w", err)
	}
	return nil
}

// Remove takes submissionID out of the Redis set.
func (l *List) Remove(ctx context.Context, submissionID string) error {
	if l.client == nil {
		return fmt.Errorf("skip list has no redis store")
	}
	if err := l.client.SRem(ctx, l.key, normalize(submissionID)).Err(); err != nil {
		return fmt.Errorf("remove from skip set: %w", err)
	}
	return nil
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
