package tracking

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	pkgerrors "github.com/vintagegrove/backend/pkg/errors"
)

const (
	defaultPixelBaseURL = "https://www.facebook.com/tr"
	pixelTimeout        = 5 * time.Second
)

// PixelDispatcher is the browser-channel leg of a dispatch. Implementations
// must be safe to fail: the pipeline logs and continues regardless.
type PixelDispatcher interface {
	Send(ctx context.Context, event Event, identity Identity) error
}

// NoopPixel is the default dispatcher when no pixel is configured.
type NoopPixel struct{}

func (NoopPixel) Send(ctx context.Context, event Event, identity Identity) error {
	return nil
}

// HTTPPixel replays the browser pixel beacon server-side against the /tr
// endpoint. Used when the storefront cannot run the pixel script itself.
type HTTPPixel struct {
	pixelID    string
	baseURL    string
	httpClient *http.Client
}

// PixelOption mutates the HTTP pixel before first use.
type PixelOption func(*HTTPPixel)

// WithPixelHTTPClient overrides the transport, mainly for tests.
func WithPixelHTTPClient(client *http.Client) PixelOption {
	return func(p *HTTPPixel) {
		if client != nil {
			p.httpClient = client
		}
	}
}

// WithPixelBaseURL overrides the beacon endpoint, mainly for tests.
func WithPixelBaseURL(baseURL string) PixelOption {
	return func(p *HTTPPixel) {
		if baseURL != "" {
			p.baseURL = baseURL
		}
	}
}

// NewHTTPPixel builds a pixel dispatcher for the given pixel ID.
func NewHTTPPixel(pixelID string, opts ...PixelOption) (*HTTPPixel, error) {
	if pixelID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pixel id is required")
	}
	pixel := &HTTPPixel{
		pixelID:    pixelID,
		baseURL:    defaultPixelBaseURL,
		httpClient: &http.Client{Timeout: pixelTimeout},
	}
	for _, opt := range opts {
		opt(pixel)
	}
	return pixel, nil
}

// Send fires one beacon. The dedup key rides along as eid so the platform can
// merge this leg with the server-side leg.
func (p *HTTPPixel) Send(ctx context.Context, event Event, identity Identity) error {
	query := url.Values{}
	query.Set("id", p.pixelID)
	query.Set("ev", event.Name)
	query.Set("eid", event.ID)
	query.Set("noscript", "1")
	if event.SourceURL != "" {
		query.Set("dl", event.SourceURL)
	}
	if event.ProductID != "" {
		query.Set("cd[content_ids]", event.ProductID)
	}
	if event.ProductName != "" {
		query.Set("cd[content_name]", event.ProductName)
	}
	if event.Currency != "" {
		query.Set("cd[currency]", event.Currency)
	}
	if !event.Value.IsZero() {
		query.Set("cd[value]", event.Value.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build pixel request")
	}
	if identity.UserAgent != "" {
		req.Header.Set("User-Agent", identity.UserAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send pixel beacon")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("pixel beacon returned %d", resp.StatusCode))
	}
	return nil
}
