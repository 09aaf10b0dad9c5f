package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeCounter struct {
	counts  map[string]int64
	expires map[string]time.Duration
	err     error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int64), expires: make(map[string]time.Duration)}
}

func (f *fakeCounter) Incr(_ context.Context, key string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeCounter) Expire(_ context.Context, key string, ttl time.Duration) error {
	f.expires[key] = ttl
	return nil
}

func rateLimitedRouter(counter Counter, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/contact",
		RateLimit(counter, zerolog.Nop(), "contact", limit, time.Hour),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) },
	)
	return router
}

func doPost(router *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsUpToLimit(t *testing.T) {
	counter := newFakeCounter()
	router := rateLimitedRouter(counter, 5)

	for i := 0; i < 5; i++ {
		rec := doPost(router)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := doPost(router)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitWindowStartsOnFirstRequest(t *testing.T) {
	counter := newFakeCounter()
	router := rateLimitedRouter(counter, 5)

	doPost(router)
	doPost(router)

	// Expire is only set when the key is created.
	assert.Len(t, counter.expires, 1)
	for _, ttl := range counter.expires {
		assert.Equal(t, time.Hour, ttl)
	}
}

func TestRateLimitNewWindowAdmits(t *testing.T) {
	counter := newFakeCounter()
	router := rateLimitedRouter(counter, 5)

	for i := 0; i < 6; i++ {
		doPost(router)
	}

	// Simulate the redis key expiring.
	counter.counts = make(map[string]int64)

	rec := doPost(router)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitFailsOpenWhenCounterDown(t *testing.T) {
	counter := newFakeCounter()
	counter.err = assert.AnError
	router := rateLimitedRouter(counter, 5)

	rec := doPost(router)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitKeyedByClientIP(t *testing.T) {
	counter := newFakeCounter()
	router := rateLimitedRouter(counter, 1)

	first := httptest.NewRequest(http.MethodPost, "/contact", nil)
	first.RemoteAddr = "198.51.100.1:40000"
	recA := httptest.NewRecorder()
	router.ServeHTTP(recA, first)
	assert.Equal(t, http.StatusOK, recA.Code)

	second := httptest.NewRequest(http.MethodPost, "/contact", nil)
	second.RemoteAddr = "198.51.100.2:40000"
	recB := httptest.NewRecorder()
	router.ServeHTTP(recB, second)
	assert.Equal(t, http.StatusOK, recB.Code)

	third := httptest.NewRequest(http.MethodPost, "/contact", nil)
	third.RemoteAddr = "198.51.100.1:40001"
	recC := httptest.NewRecorder()
	router.ServeHTTP(recC, third)
	assert.Equal(t, http.StatusTooManyRequests, recC.Code)
}
