package types

// DownloadRequest is the payload of POST /download.
type DownloadRequest struct {
	// Required URL of the image to download.
	// example: https://example.com/background.png
	URL string `json:"url" example:"https://example.com/background.png"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// StateResponse is returned by GET /state and by POST /download?wait=1.
// It mirrors the three observable fields of the view model.
type StateResponse struct {
	// True while a download is in flight.
	// example: false
	Busy bool `json:"busy" example:"false"`
	// Metadata of the current artifact, if any.
	Artifact *Artifact `json:"artifact,omitempty"`
	// Human-readable error of the last failed download, if any.
	// example: invalid response: HTTP 404 Not Found
	Error string `json:"error,omitempty" example:"invalid response: HTTP 404 Not Found"`
	// Machine-readable error kind: invalid_url, invalid_response, unsupported_payload.
	// example: invalid_response
	ErrorKind string `json:"error_kind,omitempty" example:"invalid_response"`
	// Total downloads accepted since start.
	// example: 3
	DownloadsTotal uint64 `json:"downloads_total" example:"3"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// DownloadAccepted is returned by POST /download when the download runs in the background.
type DownloadAccepted struct {
	// Identifier of the accepted download, as seen in logs.
	// example: 1b4e28ba-2fa1-11d2-883f-0016d3cca427
	ID string `json:"id" example:"1b4e28ba-2fa1-11d2-883f-0016d3cca427"`
	// URL being downloaded.
	// example: https://example.com/background.png
	URL string `json:"url" example:"https://example.com/background.png"`
}
