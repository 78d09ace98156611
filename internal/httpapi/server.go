package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"imagebind/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
// *viewmodel.ViewModel satisfies it.
type Service interface {
	Snapshot() types.StateResponse
	StartDownload(ctx context.Context, rawURL string) (id string, done <-chan struct{}, err error)
	Ready() bool
}

// NewMux builds the router: download trigger, state, artifact bytes, probes and metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			MaxAge:         300,
		}))
	}

	r.Post("/download", downloadHandler(svc))
	r.Get("/state", stateHandler(svc))
	r.Get("/artifact", artifactHandler(svc))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	})

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// downloadHandler starts a download.
//
//	@Summary		Download an image into the view model
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.DownloadRequest	true	"Image URL"
//	@Param			wait	query		bool					false	"Wait for the download to finish and return the resulting state"
//	@Success		200		{object}	types.StateResponse
//	@Success		202		{object}	types.DownloadAccepted
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		409		{object}	types.ErrorResponse
//	@Failure		415		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Router			/download [post]
func downloadHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.DownloadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeJSONError(w, http.StatusBadRequest, "url is required")
			return
		}

		wait := isTruthy(r.URL.Query().Get("wait"))
		ctx, cancel := serverBaseCtx, context.CancelFunc(func() {})
		if wait {
			// a synchronous caller that disconnects aborts its own download
			ctx, cancel = joinContexts(serverBaseCtx, r.Context())
		}
		start := time.Now()
		id, done, err := svc.StartDownload(ctx, req.URL)
		if err != nil {
			cancel()
			status := statusForStartError(err)
			if status == http.StatusConflict {
				IncrementBackpressure("in_flight")
			}
			requestEvent(r, LevelInfo).Int("status", status).Err(err).Msg("download rejected")
			writeJSONError(w, status, err.Error())
			return
		}
		requestEvent(r, LevelInfo).Str("download_id", id).Str("url", req.URL).Bool("wait", wait).Msg("download accepted")
		if !wait {
			writeJSON(w, http.StatusAccepted, types.DownloadAccepted{ID: id, URL: req.URL})
			return
		}
		<-done
		cancel()
		st := svc.Snapshot()
		requestEvent(r, LevelDebug).Str("download_id", id).Str("error_kind", st.ErrorKind).Dur("dur", time.Since(start)).Msg("download finished")
		writeJSON(w, http.StatusOK, st)
	}
}

// stateHandler reports the store.
//
//	@Summary	Current busy flag, artifact metadata and error
//	@Produce	json
//	@Success	200	{object}	types.StateResponse
//	@Router		/state [get]
func stateHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Snapshot())
	}
}

// artifactHandler serves the stored image bytes.
//
//	@Summary	Raw bytes of the current artifact
//	@Produce	image/png,image/jpeg,image/gif,json
//	@Success	200	"image payload"
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/artifact [get]
func artifactHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		art := svc.Snapshot().Artifact
		if art == nil {
			writeJSONError(w, http.StatusNotFound, "no artifact available")
			return
		}
		ct := art.ContentType
		if ct == "" {
			ct = "image/" + art.Format
		}
		w.Header().Set("Content-Type", ct)
		w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(art.Data)
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	}
	return false
}
