package shortener_test

import (
	"strings"
	"testing"

	"github.com/serroba/babyurl/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	valid := []struct {
		name string
		in   string
		want string
	}{
		{"https", "https://example.com", "https://example.com"},
		{"http with path and query", "http://example.com/a/b?c=d#e", "http://example.com/a/b?c=d#e"},
		{"port", "https://example.com:8443/x", "https://example.com:8443/x"},
		{"uppercase scheme", "HTTPS://example.com", "HTTPS://example.com"},
		{"surrounding whitespace", "\t https://example.com \n", "https://example.com"},
	}

	for _, tt := range valid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shortener.ValidateURL(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	invalid := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no scheme", "example.com"},
		{"plain text", "not a url"},
		{"ftp", "ftp://example.com/file"},
		{"javascript", "javascript:alert(1)"},
		{"mailto", "mailto:someone@example.com"},
		{"missing host", "https://"},
		{"inner whitespace", "https://exa mple.com"},
		{"too long", "https://example.com/" + strings.Repeat("a", 2048)},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shortener.ValidateURL(tt.in)

			assert.Empty(t, got)
			assert.ErrorIs(t, err, shortener.ErrInvalidURL)
		})
	}
}
