package events

import (
	"errors"
	"sync"

	"imagebind/internal/observable"
	"imagebind/pkg/types"
)

var (
	// ErrAlreadyBound is returned when a declaration is bound a second time.
	ErrAlreadyBound = errors.New("events: declaration already bound")
	ErrNilStore     = errors.New("events: nil store")
	// ErrNilDeclaration is returned by Bind on a nil *BackgroundImage.
	ErrNilDeclaration = errors.New("events: nil declaration")
)

// Declaration is a named bundle of callbacks bound to store fields.
type Declaration interface {
	Name() string
	Bind(o observable.Observable) error
	Unbind()
}

// BackgroundImage declares callbacks for an image shown as a background:
// when it becomes available, while it is loading, and when loading fails.
// Configure it with the chainable On* methods before binding; after Bind the
// callback slots are frozen.
type BackgroundImage struct {
	name string

	mu              sync.Mutex
	onArtifactReady func(*types.Artifact)
	onBusyChanged   func(bool)
	onError         func(error)
	bound           bool
	subs            []*observable.Subscription
}

var _ Declaration = (*BackgroundImage)(nil)

// NewBackgroundImage returns an empty declaration named "BackgroundImage".
func NewBackgroundImage() *BackgroundImage {
	return &BackgroundImage{name: "BackgroundImage"}
}

// Named overrides the declaration name used in logs.
func (b *BackgroundImage) Named(name string) *BackgroundImage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound && name != "" {
		b.name = name
	}
	return b
}

func (b *BackgroundImage) Name() string {
	if b == nil {
		return ""
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// OnArtifactReady sets the callback invoked with each new, non-nil artifact.
func (b *BackgroundImage) OnArtifactReady(cb func(*types.Artifact)) *BackgroundImage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound {
		b.onArtifactReady = cb
	}
	return b
}

// OnBusyChanged sets the callback invoked on every busy update.
func (b *BackgroundImage) OnBusyChanged(cb func(bool)) *BackgroundImage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound {
		b.onBusyChanged = cb
	}
	return b
}

// OnError sets the callback invoked with each new, non-nil error.
func (b *BackgroundImage) OnError(cb func(error)) *BackgroundImage {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.bound {
		b.onError = cb
	}
	return b
}

// Bind subscribes each configured callback to its field of o. Unconfigured
// slots are not subscribed. A declaration can be bound once.
func (b *BackgroundImage) Bind(o observable.Observable) error {
	if b == nil {
		return ErrNilDeclaration
	}
	if o == nil {
		return ErrNilStore
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bound {
		return ErrAlreadyBound
	}

	type slot struct {
		field observable.Field
		cb    observable.Callback
	}
	var slots []slot
	if cb := b.onArtifactReady; cb != nil {
		slots = append(slots, slot{observable.FieldArtifact, func(v any) {
			if a, ok := v.(*types.Artifact); ok && a != nil {
				cb(a)
			}
		}})
	}
	if cb := b.onBusyChanged; cb != nil {
		slots = append(slots, slot{observable.FieldBusy, func(v any) {
			if busy, ok := v.(bool); ok {
				cb(busy)
			}
		}})
	}
	if cb := b.onError; cb != nil {
		slots = append(slots, slot{observable.FieldError, func(v any) {
			if err, ok := v.(error); ok && err != nil {
				cb(err)
			}
		}})
	}

	subs := make([]*observable.Subscription, 0, len(slots))
	for _, s := range slots {
		sub, err := o.Subscribe(s.field, s.cb)
		if err != nil {
			for _, done := range subs {
				done.Release()
			}
			return err
		}
		subs = append(subs, sub)
	}
	b.subs = subs
	b.bound = true
	return nil
}

// Unbind releases every subscription created by Bind. The declaration stays
// bound: it cannot be bound again.
func (b *BackgroundImage) Unbind() {
	if b == nil {
		return
	}
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, s := range subs {
		s.Release()
	}
}

// Bound reports whether Bind has succeeded.
func (b *BackgroundImage) Bound() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bound
}
