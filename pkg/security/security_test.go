package security

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quizhub_backend/internal/config"

	"github.com/gin-gonic/gin"
)

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORS(t *testing.T) {
	r := newTestRouter(CORS(config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
	}))

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{"allowed origin echoed", "http://localhost:3000", "http://localhost:3000"},
		{"unknown origin ignored", "http://evil.example.com", ""},
		{"no origin header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantHeader {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantHeader)
			}
			if tt.wantHeader != "" && w.Header().Get("Access-Control-Allow-Credentials") != "true" {
				t.Error("allowed origin missing credentials header")
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(CORS(config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
	}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight missing allowed methods")
	}
}

func TestSecureHeaders(t *testing.T) {
	r := newTestRouter(Secure())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	r := newTestRouter(RateLimiter(config.RateLimitConfig{
		MaxRequests:   3,
		WindowMinutes: 1,
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("over-quota status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
}
