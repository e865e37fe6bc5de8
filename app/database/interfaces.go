package database

import (
	"context"
	"fmt"
)

// AccessDeniedError marks a write rejected by the store's access policy, as
// opposed to a generic failure. The writer reacts to it by falling back to
// the privileged write path; every other error is surfaced unchanged.
type AccessDeniedError struct {
	Op  string
	Err error
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("store denied %s: %v", e.Op, e.Err)
}

func (e *AccessDeniedError) Unwrap() error { return e.Err }

// Store is the article persistence contract consumed by the writer. Upsert
// takes a flat field record (unknown keys are ignored; empty values are
// expected to have been dropped by the caller) and uses the source_url
// column as its conflict key.
type Store interface {
	Ping(ctx context.Context) error
	ExistsByURL(ctx context.Context, sourceURL string) (bool, error)
	Upsert(ctx context.Context, fields map[string]any) (*Article, error)
}

// Reader is the read side used by the deep-scrape crawler and the stats
// endpoint.
type Reader interface {
	GetArticlesNeedingContent(ctx context.Context, limit int) ([]Article, error)
	GetStats(ctx context.Context) (*Stats, error)
}
