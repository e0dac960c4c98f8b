package middleware

import (
	"net/http"
	"sync"
	"time"

	"localprice/internal/apiresp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ── Sliding-window rate limiting ──────────────────────────────────────────────

// windowEntry tracks request counts per client within a sliding window.
type windowEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// limiterMap is a per-concern collection of window entries keyed by client IP.
type limiterMap struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
}

func newLimiterMap() *limiterMap {
	return &limiterMap{entries: make(map[string]*windowEntry)}
}

// allow increments the client's counter and reports whether the request fits
// within limit for the current window.
func (m *limiterMap) allow(key string, limit int, window time.Duration) (bool, time.Time) {
	m.mu.Lock()
	entry, exists := m.entries[key]
	if !exists {
		entry = &windowEntry{}
		m.entries[key] = entry
	}
	m.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		// Reset sliding window
		entry.count = 0
		entry.windowEnd = now.Add(window)
	}

	entry.count++
	return entry.count <= limit, entry.windowEnd
}

// purge removes expired entries and returns how many were dropped.
func (m *limiterMap) purge(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for key, entry := range m.entries {
		entry.mu.Lock()
		if now.After(entry.windowEnd) {
			delete(m.entries, key)
			purged++
		}
		entry.mu.Unlock()
	}
	return purged
}

var (
	loginMap   = newLimiterMap()
	apiMap     = newLimiterMap()
	webhookMap = newLimiterMap()
)

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginMap.allow(c.ClientIP(), 20, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiresp.Error("too many login attempts, retry in one minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose sliding-window rate limiter.
// Default: 200 requests per minute per IP — adjust limit / window as needed.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := apiMap.allow(c.ClientIP(), limit, window)
		if !ok {
			c.Header("Retry-After", windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiresp.Error("too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}

// WebhookRateLimiter caps collector submissions so a misbehaving form client
// cannot flood the moderation queue.
func WebhookRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := webhookMap.allow(c.ClientIP(), limit, window)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiresp.Error("too many submissions, retry shortly"))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries from the rate limiter maps to prevent
// memory leaks from accumulating IPs that never return.

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purgedLogin := loginMap.purge(now)
		purgedAPI := apiMap.purge(now)
		purgedWebhook := webhookMap.purge(now)

		if purgedLogin > 0 || purgedAPI > 0 || purgedWebhook > 0 {
			log.Debug().
				Int("login_entries_purged", purgedLogin).
				Int("api_entries_purged", purgedAPI).
				Int("webhook_entries_purged", purgedWebhook).
				Msg("rate limiter maps purged")
		}
	}
}
