package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/serroba/babyurl/internal/web"
	"github.com/stretchr/testify/assert"
)

func TestIndex(t *testing.T) {
	router := chi.NewMux()
	web.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `fetch('/shorten'`)
	assert.Contains(t, w.Body.String(), `fetch('/generate-qr'`)
}
