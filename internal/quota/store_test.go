package quota

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestMemoryStore_CountsDown(t *testing.T) {
	s := NewMemoryStore(3)
	ctx := context.Background()

	for want := 3; want > 0; want-- {
		remaining, err := s.Remaining(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if remaining != want {
			t.Fatalf("remaining = %d, want %d", remaining, want)
		}
		s.Incr(ctx, "1.2.3.4")
	}

	remaining, _ := s.Remaining(ctx, "1.2.3.4")
	if remaining != 0 {
		t.Errorf("remaining after exhaustion = %d, want 0", remaining)
	}

	// Other IPs are unaffected.
	other, _ := s.Remaining(ctx, "5.6.7.8")
	if other != 3 {
		t.Errorf("other ip remaining = %d, want 3", other)
	}
}

func TestMemoryStore_DateRollover(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	s.Incr(ctx, "ip")
	s.Incr(ctx, "ip")
	if remaining, _ := s.Remaining(ctx, "ip"); remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}

	s.now = func() time.Time { return day.Add(24 * time.Hour) }
	if remaining, _ := s.Remaining(ctx, "ip"); remaining != 2 {
		t.Errorf("remaining after rollover = %d, want 2", remaining)
	}
}

func TestMiddleware_BlocksWhenExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMemoryStore(1)

	handled := 0
	r := gin.New()
	r.POST("/gen", Middleware(s, 1), func(c *gin.Context) {
		handled++
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/gen", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	if rec := do(); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := do(); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if handled != 1 {
		t.Errorf("handler ran %d times, want 1", handled)
	}
}

func TestMiddleware_FailedGenerationIsFree(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMemoryStore(5)

	r := gin.New()
	r.POST("/gen", Middleware(s, 5), func(c *gin.Context) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no image"})
	})

	req := httptest.NewRequest(http.MethodPost, "/gen", nil)
	req.RemoteAddr = "9.9.9.9:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	remaining, _ := s.Remaining(context.Background(), "9.9.9.9")
	if remaining != 5 {
		t.Errorf("remaining = %d, want 5 (non-200 must not consume quota)", remaining)
	}
}

func TestStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMemoryStore(10)
	s.Incr(context.Background(), "9.9.9.9")

	r := gin.New()
	r.GET("/api/quota", StatusHandler(s, 10))

	req := httptest.NewRequest(http.MethodGet, "/api/quota", nil)
	req.RemoteAddr = "9.9.9.9:555"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	want := `"remaining":9`
	if body := rec.Body.String(); !strings.Contains(body, want) {
		t.Errorf("body = %s, want it to contain %s", body, want)
	}
}
