package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imagebind/pkg/types"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 20 << 20
	DefaultUserAgent    = "imagebind/1.0"
)

// Fetcher retrieves one artifact per call.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*types.Artifact, error)
}

// Options configures an HTTPFetcher. Zero values select the defaults.
type Options struct {
	// Client overrides the HTTP client. Timeout is ignored when set.
	Client       *http.Client
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
}

// HTTPFetcher performs a single GET and decodes the body as an image.
type HTTPFetcher struct {
	client       *http.Client
	maxBodyBytes int64
	userAgent    string
	now          func() time.Time
}

var _ Fetcher = (*HTTPFetcher)(nil)

// New constructs an HTTPFetcher from opts.
func New(opts Options) *HTTPFetcher {
	f := &HTTPFetcher{
		client:       opts.Client,
		maxBodyBytes: opts.MaxBodyBytes,
		userAgent:    opts.UserAgent,
		now:          time.Now,
	}
	if f.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		f.client = &http.Client{Timeout: timeout}
	}
	if f.maxBodyBytes <= 0 {
		f.maxBodyBytes = DefaultMaxBodyBytes
	}
	if f.userAgent == "" {
		f.userAgent = DefaultUserAgent
	}
	return f
}

// ParseURL validates rawURL as an absolute http or https URL.
func ParseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: errors.New("empty URL")}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: errors.New("missing host")}
	}
	return u, nil
}

// Fetch downloads rawURL once. Every failure is an *Error.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (art *types.Artifact, err error) {
	start := f.now()
	defer func() {
		var size int64
		if art != nil {
			size = art.Size
		}
		observe(start, err, size)
	}()

	u, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponse, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &Error{Kind: KindInvalidResponse, URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &Error{Kind: KindInvalidResponse, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &Error{Kind: KindUnsupportedPayload, URL: rawURL, Err: fmt.Errorf("payload exceeds %d bytes", f.maxBodyBytes)}
	}
	return decode(rawURL, resp.Header.Get("Content-Type"), body, f.now())
}

// decode validates body as a complete image and builds the artifact.
func decode(rawURL, contentType string, body []byte, at time.Time) (*types.Artifact, error) {
	if len(body) == 0 {
		return nil, &Error{Kind: KindUnsupportedPayload, URL: rawURL, Err: errors.New("empty body")}
	}
	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindUnsupportedPayload, URL: rawURL, Err: err}
	}
	b := img.Bounds()
	return &types.Artifact{
		URL:         rawURL,
		ContentType: contentType,
		Format:      format,
		Width:       b.Dx(),
		Height:      b.Dy(),
		Size:        int64(len(body)),
		FetchedAt:   at,
		Data:        body,
	}, nil
}
