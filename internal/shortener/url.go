package shortener

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxURLLength = 2048

var validate = validator.New()

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
// It returns the trimmed URL, which is what gets stored.
func ValidateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: url is required", ErrInvalidURL)
	}

	if len(trimmed) > maxURLLength {
		return "", fmt.Errorf("%w: url exceeds %d characters", ErrInvalidURL, maxURLLength)
	}

	if strings.ContainsAny(trimmed, " \t\r\n") {
		return "", fmt.Errorf("%w: url must not contain whitespace", ErrInvalidURL)
	}

	if err := validate.Var(trimmed, "url"); err != nil {
		return "", fmt.Errorf("%w: %q is not a valid url", ErrInvalidURL, trimmed)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, err.Error())
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidURL)
	}

	if u.Host == "" || u.Hostname() == "" {
		return "", fmt.Errorf("%w: url must include a host", ErrInvalidURL)
	}

	return trimmed, nil
}
