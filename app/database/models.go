package database

import (
	"time"
)

// Article is a persisted article row. SourceURL is the conflict key: the
// pipeline upserts on it and never deletes rows (deletion is an admin
// operation outside the crawler).
type Article struct {
	ID          int64
	SourceURL   string
	Slug        string
	Title       string
	Summary     string
	Content     string
	Author      string
	ImageURL    string
	Category    string
	Status      string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats summarizes the article table for the operational endpoints.
type Stats struct {
	Total     int
	Published int
	Draft     int
}
