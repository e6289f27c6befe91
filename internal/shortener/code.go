package shortener

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// Alphabet is the URL-safe set short codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const (
	MinCodeLength = 5
	MaxCodeLength = 7
)

// CodeGenerator generates short codes.
type CodeGenerator func() string

// NewCodeGenerator returns a crypto-random generator of fixed-length codes.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	if length < MinCodeLength || length > MaxCodeLength {
		return nil, fmt.Errorf("code length must be between %d and %d, got %d",
			MinCodeLength, MaxCodeLength, length)
	}

	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, err
	}

	return CodeGenerator(gen), nil
}

// ValidCode reports whether code has the given length and only uses Alphabet.
func ValidCode(code Code, length int) bool {
	if len(code) != length {
		return false
	}

	for i := 0; i < len(code); i++ {
		if !inAlphabet(code[i]) {
			return false
		}
	}

	return true
}

func inAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}

	return false
}
