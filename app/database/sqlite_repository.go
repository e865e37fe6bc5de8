package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// upsertColumns is the fixed column order for dynamic upserts. Only keys in
// this list are accepted from the flat field record; everything else is
// silently dropped, matching the "ignore unknown keys" contract.
var upsertColumns = []string{
	"id", "source_url", "slug", "title", "summary", "content",
	"author", "image_url", "category", "status", "published_at",
}

// NewConnection opens (and creates if needed) the sqlite database at path.
func NewConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writes; a single writer connection avoids
	// SQLITE_BUSY under the worker pool.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// SQLiteRepository implements Store and Reader on a local sqlite file. The
// local backend has no row-level policies, so it never produces an
// AccessDeniedError and the writer's fallback path is a no-op here.
type SQLiteRepository struct {
	db *sql.DB
}

var (
	_ Store  = (*SQLiteRepository)(nil)
	_ Reader = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ExistsByURL reports whether an article with the given canonical source URL
// is already persisted.
func (r *SQLiteRepository) ExistsByURL(ctx context.Context, sourceURL string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM articles WHERE source_url = ? LIMIT 1`, sourceURL).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Upsert inserts or updates on the source_url conflict key. created_at is
// preserved on conflict; updated_at always refreshes.
func (r *SQLiteRepository) Upsert(ctx context.Context, fields map[string]any) (*Article, error) {
	cols := make([]string, 0, len(upsertColumns))
	args := make([]any, 0, len(upsertColumns))
	for _, col := range upsertColumns {
		if v, ok := fields[col]; ok {
			cols = append(cols, col)
			args = append(args, v)
		}
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("upsert called with no known fields")
	}

	updates := make([]string, 0, len(cols))
	for _, col := range cols {
		if col == "source_url" || col == "id" {
			continue
		}
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	updates = append(updates, "updated_at = CURRENT_TIMESTAMP")

	query := fmt.Sprintf(`
		INSERT INTO articles (%s) VALUES (%s)
		ON CONFLICT (source_url) DO UPDATE SET %s
		RETURNING id, source_url, slug, title, summary, content, author,
		          image_url, category, status, published_at, created_at, updated_at`,
		strings.Join(cols, ", "),
		strings.TrimRight(strings.Repeat("?, ", len(cols)), ", "),
		strings.Join(updates, ", "))

	row := r.db.QueryRowContext(ctx, query, args...)
	return scanArticle(row)
}

// GetArticlesNeedingContent returns draft rows awaiting a deep scrape, oldest
// first so a backlog drains in publish order.
func (r *SQLiteRepository) GetArticlesNeedingContent(ctx context.Context, limit int) ([]Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, slug, title, summary, content, author,
		       image_url, category, status, published_at, created_at, updated_at
		FROM articles
		WHERE status = 'draft'
		ORDER BY published_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query draft articles: %w", err)
	}
	defer rows.Close()

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}
	return articles, nil
}

func (r *SQLiteRepository) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = 'published' THEN 1 END),
		       COUNT(CASE WHEN status = 'draft' THEN 1 END)
		FROM articles`).Scan(&stats.Total, &stats.Published, &stats.Draft)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*Article, error) {
	var a Article
	var publishedAt sql.NullTime
	err := row.Scan(&a.ID, &a.SourceURL, &a.Slug, &a.Title, &a.Summary,
		&a.Content, &a.Author, &a.ImageURL, &a.Category, &a.Status,
		&publishedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan article row: %w", err)
	}
	if publishedAt.Valid {
		a.PublishedAt = publishedAt.Time
	} else {
		a.PublishedAt = time.Time{}
	}
	return &a, nil
}
