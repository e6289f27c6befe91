package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers all URL shortener routes.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Stores the URL under a fresh short code that resolves until it expires.",
		Tags:        []string{"URLs"},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		OperationID: "generate-qr",
		Method:      http.MethodPost,
		Path:        "/generate-qr",
		Summary:     "Generate QR code",
		Description: "Renders the given short URL as a PNG QR code data URI.",
		Tags:        []string{"QR"},
	}, urlHandler.GenerateQR)

	huma.Register(api, huma.Operation{
		OperationID:   "redirect",
		Method:        http.MethodGet,
		Path:          "/{code}",
		DefaultStatus: http.StatusFound,
		Summary:       "Redirect to original URL",
		Description:   "Redirects to the original URL while the short code is live.",
		Tags:          []string{"URLs"},
	}, urlHandler.RedirectToURL)
}
