package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/serroba/babyurl/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureMeta runs req through RequestMetaHandler and returns what the
// downstream handler saw.
func captureMeta(t *testing.T, req *http.Request) (middleware.RequestMeta, *httptest.ResponseRecorder) {
	t.Helper()

	var got middleware.RequestMeta

	handler := middleware.RequestMetaHandler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = middleware.RequestMetaFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	return got, w
}

func TestRequestMetaHandler(t *testing.T) {
	t.Run("generates a request id and echoes it", func(t *testing.T) {
		meta, w := captureMeta(t, httptest.NewRequest(http.MethodGet, "/test", nil))

		_, err := uuid.Parse(meta.RequestID)
		require.NoError(t, err)
		assert.Equal(t, meta.RequestID, w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("reuses an incoming request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(middleware.HeaderRequestID, "upstream-42")

		meta, w := captureMeta(t, req)

		assert.Equal(t, "upstream-42", meta.RequestID)
		assert.Equal(t, "upstream-42", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("captures the user agent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("User-Agent", "TestAgent/1.0")

		meta, _ := captureMeta(t, req)

		assert.Equal(t, "TestAgent/1.0", meta.UserAgent)
	})

	t.Run("extracts IP from X-Forwarded-For with single IP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1")

		meta, _ := captureMeta(t, req)

		assert.Equal(t, "192.168.1.1", meta.ClientIP)
	})

	t.Run("extracts first IP from X-Forwarded-For with multiple IPs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1, 172.16.0.1")

		meta, _ := captureMeta(t, req)

		assert.Equal(t, "192.168.1.1", meta.ClientIP)
	})

	t.Run("extracts IP from X-Real-IP when X-Forwarded-For is absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Real-IP", "10.0.0.1")

		meta, _ := captureMeta(t, req)

		assert.Equal(t, "10.0.0.1", meta.ClientIP)
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "203.0.113.7:51234"

		meta, _ := captureMeta(t, req)

		assert.Equal(t, "203.0.113.7", meta.ClientIP)
	})
}

func TestRequestMetaFromContext(t *testing.T) {
	t.Run("returns zero value when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)

		assert.Equal(t, middleware.RequestMeta{}, middleware.RequestMetaFromContext(req.Context()))
	})
}
