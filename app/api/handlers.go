package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ho-Thien-Sinh/news-crawler/app/crawler"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
)

// SessionSource exposes the current crawl run counters.
type SessionSource interface {
	Snapshot() crawler.Snapshot
}

// BrowserStatus reports whether the headless browser is up.
type BrowserStatus interface {
	Running() bool
}

type Handler struct {
	store   database.Store
	reader  database.Reader
	session SessionSource
	browser BrowserStatus
	version string
}

func NewHandler(store database.Store, reader database.Reader,
	session SessionSource, browser BrowserStatus, version string) *Handler {
	return &Handler{
		store:   store,
		reader:  reader,
		session: session,
		browser: browser,
		version: version,
	}
}

// GetHealth reports store reachability and browser state. Store failures
// degrade the response to 503 so orchestrators restart the service.
func (h *Handler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
		"browser":   h.browser.Running(),
	}

	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		health["store"] = "unreachable"
		status = http.StatusServiceUnavailable
	} else {
		health["store"] = "ok"
	}

	c.JSON(status, health)
}

// GetStats returns the crawl session snapshot plus article counts when the
// backend can provide them.
func (h *Handler) GetStats(c *gin.Context) {
	snap := h.session.Snapshot()

	stats := gin.H{
		"session": snap,
	}

	if h.reader != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if counts, err := h.reader.GetStats(ctx); err == nil {
			stats["articles"] = counts
		}
	}

	c.JSON(http.StatusOK, stats)
}
