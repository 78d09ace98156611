package viewmodel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"imagebind/internal/fetcher"
	"imagebind/internal/observable"
	"imagebind/pkg/types"
)

var (
	// ErrDownloadInFlight is returned when DownloadImage is called while
	// another download is still running. The store is left untouched.
	ErrDownloadInFlight = errors.New("viewmodel: download already in flight")
	// ErrClosed is returned by operations on a closed view model.
	ErrClosed = errors.New("viewmodel: closed")

	errNoArtifact = errors.New("fetcher returned no artifact")
)

// Unbinder is anything bound against the store whose subscriptions must be
// released when the view model goes away.
type Unbinder interface {
	Unbind()
}

// Config holds ViewModel dependencies. Zero values select defaults.
type Config struct {
	Fetcher fetcher.Fetcher
	Logger  *zerolog.Logger
}

// ViewModel owns an observable store and drives it from image downloads.
type ViewModel struct {
	store    *observable.Store
	fetcher  fetcher.Fetcher
	log      zerolog.Logger
	inflight *semaphore.Weighted

	mu       sync.Mutex
	retained []Unbinder
	closed   bool

	downloads atomic.Uint64
}

// New constructs a ViewModel with an idle store.
func New(cfg Config) *ViewModel {
	vm := &ViewModel{
		store:    observable.NewStore(),
		fetcher:  cfg.Fetcher,
		log:      zerolog.Nop(),
		inflight: semaphore.NewWeighted(1),
	}
	if vm.fetcher == nil {
		vm.fetcher = fetcher.New(fetcher.Options{})
	}
	if cfg.Logger != nil {
		vm.log = cfg.Logger.With().Str("component", "viewmodel").Logger()
	}
	return vm
}

// Store exposes the observable state for binding.
func (vm *ViewModel) Store() *observable.Store { return vm.store }

// DownloadImage fetches rawURL and publishes the outcome to the store:
// busy=true, then the result (artifact or error), then busy=false.
// Fetch failures are recorded in the store, not returned.
func (vm *ViewModel) DownloadImage(ctx context.Context, rawURL string) error {
	id, err := vm.acquire()
	if err != nil {
		return err
	}
	defer vm.inflight.Release(1)
	vm.run(ctx, id, rawURL)
	return nil
}

// StartDownload is the asynchronous form of DownloadImage. The in-flight
// check happens before it returns; done is closed when the store has been
// updated with busy=false.
func (vm *ViewModel) StartDownload(ctx context.Context, rawURL string) (id string, done <-chan struct{}, err error) {
	id, err = vm.acquire()
	if err != nil {
		return "", nil, err
	}
	ch := make(chan struct{})
	go func() {
		defer close(ch)
		defer vm.inflight.Release(1)
		vm.run(ctx, id, rawURL)
	}()
	return id, ch, nil
}

func (vm *ViewModel) acquire() (string, error) {
	vm.mu.Lock()
	closed := vm.closed
	vm.mu.Unlock()
	if closed {
		return "", ErrClosed
	}
	if !vm.inflight.TryAcquire(1) {
		return "", ErrDownloadInFlight
	}
	vm.downloads.Add(1)
	return uuid.NewString(), nil
}

func (vm *ViewModel) run(ctx context.Context, id, rawURL string) {
	log := vm.log.With().Str("download_id", id).Str("url", rawURL).Logger()
	start := time.Now()
	vm.set(observable.FieldBusy, true)
	log.Debug().Msg("download start")

	art, err := vm.fetcher.Fetch(ctx, rawURL)
	if err == nil && art == nil {
		err = &fetcher.Error{Kind: fetcher.KindUnsupportedPayload, URL: rawURL, Err: errNoArtifact}
	}
	if err != nil {
		vm.set(observable.FieldArtifact, nil)
		vm.set(observable.FieldError, asFetchError(rawURL, err))
		log.Warn().Err(err).Str("kind", fetcher.KindOf(err).String()).Dur("dur", time.Since(start)).Msg("download failed")
	} else {
		vm.set(observable.FieldError, nil)
		vm.set(observable.FieldArtifact, art)
		log.Info().Str("format", art.Format).Int64("bytes", art.Size).Dur("dur", time.Since(start)).Msg("download done")
	}
	vm.set(observable.FieldBusy, false)
}

// set applies a store mutation. A rejected mutation is a bug in run.
func (vm *ViewModel) set(f observable.Field, v any) {
	if err := vm.store.Set(f, v); err != nil {
		vm.log.Error().Err(err).Str("field", string(f)).Msg("store update rejected")
	}
}

// asFetchError guarantees the store only ever holds *fetcher.Error values,
// even when a custom Fetcher returns something else.
func asFetchError(rawURL string, err error) error {
	var fe *fetcher.Error
	if errors.As(err, &fe) {
		return err
	}
	return &fetcher.Error{Kind: fetcher.KindInvalidResponse, URL: rawURL, Err: err}
}

// Retain ties u to the view model's lifetime; Close will unbind it.
func (vm *ViewModel) Retain(u Unbinder) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return ErrClosed
	}
	vm.retained = append(vm.retained, u)
	return nil
}

// Close unbinds retained declarations in reverse order. Safe to call more
// than once. A download in flight is not cancelled.
func (vm *ViewModel) Close() error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return nil
	}
	vm.closed = true
	retained := vm.retained
	vm.retained = nil
	vm.mu.Unlock()
	for i := len(retained) - 1; i >= 0; i-- {
		retained[i].Unbind()
	}
	return nil
}

// Busy reports whether a download is running.
func (vm *ViewModel) Busy() bool { return vm.store.Busy() }

// Ready reports whether a new download would be accepted right now.
func (vm *ViewModel) Ready() bool {
	vm.mu.Lock()
	closed := vm.closed
	vm.mu.Unlock()
	return !closed && !vm.store.Busy()
}

// Snapshot returns the current state for the HTTP layer.
func (vm *ViewModel) Snapshot() types.StateResponse {
	st := types.StateResponse{
		Busy:           vm.store.Busy(),
		Artifact:       vm.store.Artifact(),
		DownloadsTotal: vm.downloads.Load(),
		ServerTimeUnix: time.Now().Unix(),
	}
	if err := vm.store.Err(); err != nil {
		st.Error = err.Error()
		st.ErrorKind = fetcher.KindOf(err).String()
	}
	return st
}
