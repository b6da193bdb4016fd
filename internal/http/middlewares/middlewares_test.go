package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("first request rejected")
	}
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("second request rejected")
	}

	ok, retry := rl.Allow("a")
	if ok {
		t.Fatal("third request allowed")
	}
	if retry != time.Minute {
		t.Fatalf("retryAfter = %v, want 1m", retry)
	}

	if ok, _ := rl.Allow("b"); !ok {
		t.Fatal("other key should have its own window")
	}

	now = now.Add(time.Minute + time.Second)
	if ok, _ := rl.Allow("a"); !ok {
		t.Fatal("request in a new window rejected")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	r := gin.New()
	r.Use(rl.RateLimiterMiddleware(KeyByIP))
	r.GET("/api/users", okHandler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != http.StatusOK {
		t.Fatalf("first: got %d", w.Code)
	}

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"rate_limited"`)) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "1"},
		{200 * time.Millisecond, "1"},
		{time.Second, "1"},
		{1500 * time.Millisecond, "2"},
		{59*time.Second + time.Millisecond, "60"},
		{time.Minute, "60"},
	}

	for _, tt := range tests {
		if got := retryAfterSeconds(tt.in); got != tt.want {
			t.Errorf("retryAfterSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRateLimiterMiddleware_RetryAfterRoundsUp(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.RateLimiterMiddleware(KeyByIP))
	r.GET("/api/users", okHandler)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	do()

	// 300ms left in the window
	now = now.Add(time.Minute - 300*time.Millisecond)

	w := do()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q, want %q", got, "1")
	}
}

func TestRequireJSON(t *testing.T) {
	r := gin.New()
	r.Use(RequireJSON())
	r.POST("/api/users", okHandler)
	r.PUT("/api/users/:email", okHandler)
	r.DELETE("/api/users/:email", okHandler)
	r.GET("/api/users", okHandler)

	tests := []struct {
		method, path, contentType string
		want                      int
	}{
		{http.MethodPost, "/api/users", "application/json", http.StatusOK},
		{http.MethodPost, "/api/users", "application/json; charset=utf-8", http.StatusOK},
		{http.MethodPost, "/api/users", "Application/JSON", http.StatusOK},
		{http.MethodPost, "/api/users", "", http.StatusUnsupportedMediaType},
		{http.MethodPost, "/api/users", "text/plain", http.StatusUnsupportedMediaType},
		{http.MethodPut, "/api/users/a@b", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{http.MethodDelete, "/api/users/a@b", "", http.StatusOK},
		{http.MethodGet, "/api/users", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.contentType, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(`{}`))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("got %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000"}))
	r.GET("/api/users", okHandler)

	t.Run("allowed_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Fatalf("Allow-Origin = %q", got)
		}
	})

	t.Run("other_origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Fatalf("Allow-Origin = %q, want empty", got)
		}
		if w.Code != http.StatusOK {
			t.Fatalf("got %d", w.Code)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("got %d, want 204", w.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxRequestID))
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-Id") != "req-123" || w.Body.String() != "req-123" {
		t.Fatalf("header=%q body=%q", w.Header().Get("X-Request-Id"), w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if len(w.Header().Get("X-Request-Id")) != 36 {
		t.Fatalf("generated id = %q", w.Header().Get("X-Request-Id"))
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/users", okHandler)
	r.GET("/swagger", okHandler)
	r.GET("/", okHandler)

	for path, want := range map[string]string{
		"/api/users": apiCSP,
		"/swagger":   swaggerCSP,
		"/":          uiCSP,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get("Content-Security-Policy"); got != want {
			t.Errorf("%s: CSP = %q, want %q", path, got, want)
		}
		if w.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("%s: missing nosniff", path)
		}
	}
}
