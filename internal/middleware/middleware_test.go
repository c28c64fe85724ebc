package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UrbanAtlas/trip-backend/internal/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestCORSMiddleware_AllowedOrigin verifies an allow-listed origin is echoed
// back with credentials enabled.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

// TestCORSMiddleware_UnknownOrigin verifies unknown origins get no CORS
// headers but the request still goes through.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

// TestRateLimitMiddleware_Rejects429 verifies requests past the burst get a
// 429 while the ones within it succeed.
func TestRateLimitMiddleware_Rejects429(t *testing.T) {
	handler := middleware.RateLimitMiddleware(0.0001, 2)(okHandler())

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/cluster/run", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("first two requests = %v, want 200s", codes[:2])
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", codes[2])
	}
}
