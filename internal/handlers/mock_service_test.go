package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/babyurl/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com"

// mockService is a test double for handlers.Shortener that returns fixed errors.
type mockService struct {
	shortenErr error
	resolveErr error
	qrErr      error
}

func (m *mockService) Shorten(_ context.Context, originalURL string) (*shortener.Result, error) {
	if m.shortenErr != nil {
		return nil, m.shortenErr
	}

	return &shortener.Result{Code: "abc1234", ShortURL: "http://short/abc1234", OriginalURL: originalURL}, nil
}

func (m *mockService) Resolve(_ context.Context, _ shortener.Code) (string, error) {
	if m.resolveErr != nil {
		return "", m.resolveErr
	}

	return testURL, nil
}

func (m *mockService) MakeQR(_ string) (string, error) {
	if m.qrErr != nil {
		return "", m.qrErr
	}

	return "data:image/png;base64,AAAA", nil
}
