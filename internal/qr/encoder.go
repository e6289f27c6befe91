package qr

import (
	"encoding/base64"
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when there is nothing to encode.
	ErrEmptyContent = errors.New("short url is required")

	// ErrEncoding is returned when the content cannot be rendered as a QR code.
	ErrEncoding = errors.New("error generating qr code")
)

const (
	DefaultSize = 256

	dataURIPrefix = "data:image/png;base64,"
)

// Encoder renders strings as PNG QR codes.
type Encoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewEncoder creates an encoder producing size x size images.
func NewEncoder(size int) *Encoder {
	if size <= 0 {
		size = DefaultSize
	}

	return &Encoder{
		size:  size,
		level: qrcode.Medium,
	}
}

// Encode returns content as PNG bytes.
func (e *Encoder) Encode(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	png, err := qrcode.Encode(content, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, err.Error())
	}

	return png, nil
}

// DataURI returns content as a base64 PNG data URI.
func (e *Encoder) DataURI(content string) (string, error) {
	png, err := e.Encode(content)
	if err != nil {
		return "", err
	}

	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
