package e2e

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"imagebind/internal/builder"
	"imagebind/internal/events"
	"imagebind/internal/fetcher"
	"imagebind/internal/httpapi"
	"imagebind/internal/viewmodel"
	"imagebind/pkg/types"
)

// upstream serves a small PNG on every path except /missing. When gate is
// non-nil each image request blocks until gate is closed.
func newUpstream(t *testing.T, gate <-chan struct{}) (*httptest.Server, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 6))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img := buf.Bytes()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		if gate != nil {
			select {
			case <-gate:
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	t.Cleanup(srv.Close)
	return srv, img
}

// busyLog records busy transitions from the download goroutine and signals
// every transition to idle on idle.
type busyLog struct {
	mu   sync.Mutex
	seen []bool
	idle chan struct{}
}

func (l *busyLog) record(b bool) {
	l.mu.Lock()
	l.seen = append(l.seen, b)
	l.mu.Unlock()
	if !b {
		select {
		case l.idle <- struct{}{}:
		default:
		}
	}
}

func (l *busyLog) transitions() []bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]bool(nil), l.seen...)
}

// waitIdle blocks until the next busy=false notification.
func (l *busyLog) waitIdle(t *testing.T) {
	t.Helper()
	select {
	case <-l.idle:
	case <-time.After(5 * time.Second):
		t.Fatalf("no busy=false notification after 5s")
	}
}

// newServer builds the full stack the way `imagebind serve` does and returns
// the API server plus the log of busy transitions.
func newServer(t *testing.T) (*httptest.Server, *busyLog) {
	t.Helper()
	busy := &busyLog{idle: make(chan struct{}, 16)}
	view := events.NewBackgroundImage().Named("E2E").OnBusyChanged(busy.record)
	vm, err := builder.Build(func() *viewmodel.ViewModel {
		return viewmodel.New(viewmodel.Config{Fetcher: fetcher.New(fetcher.Options{Timeout: 5 * time.Second})})
	}, []events.Declaration{view, httpapi.StateMetrics()})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(func() { _ = vm.Close() })
	srv := httptest.NewServer(httpapi.NewMux(vm))
	t.Cleanup(srv.Close)
	return srv, busy
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func postDownload(t *testing.T, base, query, target string) (*http.Response, []byte) {
	t.Helper()
	body, _ := json.Marshal(types.DownloadRequest{URL: target})
	resp, err := http.Post(base+"/download"+query, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /download: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, b
}

func getState(t *testing.T, base string) types.StateResponse {
	t.Helper()
	_, b := httpGet(t, base+"/state")
	var st types.StateResponse
	if err := json.Unmarshal(b, &st); err != nil {
		t.Fatalf("decode state %q: %v", b, err)
	}
	return st
}
