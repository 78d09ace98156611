package types

import "time"

// Artifact is the decoded result of a successful image download.
type Artifact struct {
	// Source URL the artifact was fetched from.
	// example: https://example.com/background.png
	URL string `json:"url" example:"https://example.com/background.png"`
	// Content-Type header reported by the server.
	// example: image/png
	ContentType string `json:"content_type,omitempty" example:"image/png"`
	// Image format detected by the decoder (png, jpeg, gif, bmp, tiff, webp).
	// example: png
	Format string `json:"format" example:"png"`
	// Pixel width of the decoded image.
	// example: 1920
	Width int `json:"width" example:"1920"`
	// Pixel height of the decoded image.
	// example: 1080
	Height int `json:"height" example:"1080"`
	// Payload size in bytes.
	// example: 524288
	Size int64 `json:"size" example:"524288"`
	// When the download completed.
	FetchedAt time.Time `json:"fetched_at"`
	// Raw payload. Not serialized; served by GET /artifact.
	Data []byte `json:"-"`
}
