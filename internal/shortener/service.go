package shortener

import (
	"context"
	"strings"
	"time"
)

// QREncoder renders content as a QR image data URI.
type QREncoder interface {
	DataURI(content string) (string, error)
}

// Result describes a freshly shortened URL.
type Result struct {
	Code        Code
	ShortURL    string
	OriginalURL string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Service exposes shortening, resolution and QR rendering.
type Service struct {
	store   *Store
	baseURL string
	qr      QREncoder
}

// NewService creates a service that builds short URLs under baseURL.
func NewService(store *Store, baseURL string, qr QREncoder) *Service {
	return &Service{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		qr:      qr,
	}
}

// Shorten stores originalURL and returns its short form.
func (s *Service) Shorten(ctx context.Context, originalURL string) (*Result, error) {
	association, err := s.store.Put(ctx, originalURL)
	if err != nil {
		return nil, err
	}

	return &Result{
		Code:        association.Code,
		ShortURL:    s.ShortURL(association.Code),
		OriginalURL: association.OriginalURL,
		CreatedAt:   association.CreatedAt,
		ExpiresAt:   association.ExpiresAt(s.store.TTL()),
	}, nil
}

// Resolve returns the original URL behind code.
func (s *Service) Resolve(ctx context.Context, code Code) (string, error) {
	association, err := s.store.Get(ctx, code)
	if err != nil {
		return "", err
	}

	return association.OriginalURL, nil
}

// MakeQR renders shortURL as a QR code. It never touches storage.
func (s *Service) MakeQR(shortURL string) (string, error) {
	return s.qr.DataURI(shortURL)
}

// ShortURL joins the configured base origin with code.
func (s *Service) ShortURL(code Code) string {
	return s.baseURL + "/" + string(code)
}
