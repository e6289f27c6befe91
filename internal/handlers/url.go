package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/babyurl/internal/qr"
	"github.com/serroba/babyurl/internal/shortener"
	"go.uber.org/zap"
)

// MsgShortened is returned in the body of every successful shorten call.
const MsgShortened = "Url Shortened"

// Shortener is the service the URL handlers depend on.
type Shortener interface {
	Shorten(ctx context.Context, originalURL string) (*shortener.Result, error)
	Resolve(ctx context.Context, code shortener.Code) (string, error)
	MakeQR(shortURL string) (string, error)
}

// URLHandler handles URL shortening operations.
type URLHandler struct {
	service Shortener
	logger  *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(service Shortener, logger *zap.Logger) *URLHandler {
	return &URLHandler{
		service: service,
		logger:  logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	result, err := h.service.Shorten(ctx, req.Body.URL)
	if err != nil {
		if errors.Is(err, shortener.ErrInvalidURL) {
			return nil, huma.Error400BadRequest(err.Error())
		}

		h.logger.Error("failed to shorten url", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to shorten url")
	}

	resp := &CreateShortURLResponse{}
	resp.Headers.Location = result.ShortURL
	resp.Body.Msg = MsgShortened
	resp.Body.Code = string(result.Code)
	resp.Body.ShortURL = result.ShortURL
	resp.Body.OriginalURL = result.OriginalURL
	resp.Body.ExpiresAt = result.ExpiresAt

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	originalURL, err := h.service.Resolve(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound(shortener.ErrNotFound.Error())
		}

		h.logger.Error("failed to resolve code", zap.String("code", req.Code), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	resp := &RedirectResponse{
		Status: http.StatusFound,
	}
	resp.Headers.Location = originalURL

	return resp, nil
}

func (h *URLHandler) GenerateQR(_ context.Context, req *GenerateQRRequest) (*GenerateQRResponse, error) {
	shortURL := strings.TrimSpace(req.Body.ShortURL)

	dataURI, err := h.service.MakeQR(shortURL)
	if err != nil {
		if errors.Is(err, qr.ErrEmptyContent) {
			return nil, huma.Error400BadRequest(qr.ErrEmptyContent.Error())
		}

		h.logger.Error("failed to generate qr code", zap.Error(err))

		return nil, huma.Error500InternalServerError(qr.ErrEncoding.Error())
	}

	resp := &GenerateQRResponse{}
	resp.Body.QRCode = dataURI

	return resp, nil
}
