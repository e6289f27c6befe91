package handlers

import "time"

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url" required:"false"`
	}
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Msg         string    `doc:"Outcome message"             example:"Url Shortened"                      json:"msg"`
		Code        string    `doc:"The short code"              example:"aB3dE9z"                            json:"code"`
		ShortURL    string    `doc:"The full short URL"          example:"http://localhost:3000/aB3dE9z"      json:"shortUrl"`
		OriginalURL string    `doc:"The original URL"            example:"https://example.com/very/long/path" json:"originalUrl"`
		ExpiresAt   time.Time `doc:"When the short URL stops resolving"                                       json:"expiresAt"`
	}
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"aB3dE9z" path:"code"`
}

// RedirectResponse sends the client on to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

// GenerateQRRequest is the request body for rendering a QR code.
type GenerateQRRequest struct {
	Body struct {
		ShortURL string `doc:"The short URL to encode" example:"http://localhost:3000/aB3dE9z" json:"shortUrl" required:"false"`
	}
}

// GenerateQRResponse carries the QR code as a PNG data URI.
type GenerateQRResponse struct {
	Body struct {
		QRCode string `doc:"PNG data URI" example:"data:image/png;base64,iVBORw0KGgo..." json:"qrCode"`
	}
}
