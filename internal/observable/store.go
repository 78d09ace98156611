package observable

import (
	"errors"
	"fmt"
	"sync"

	"imagebind/pkg/types"
)

// Field names one observable value held by a Store.
type Field string

const (
	FieldBusy     Field = "busy"
	FieldArtifact Field = "artifact"
	FieldError    Field = "error"
)

// Fields lists every field a Store exposes, in declaration order.
var Fields = []Field{FieldBusy, FieldArtifact, FieldError}

// Callback receives the new value of a field. The dynamic type matches the
// field: bool for busy, *types.Artifact for artifact, error for error. Cleared
// artifact and error fields are delivered as an untyped nil.
type Callback func(value any)

// Observable is the contract event declarations bind against.
type Observable interface {
	Get(f Field) (any, error)
	Set(f Field, value any) error
	Subscribe(f Field, cb Callback) (*Subscription, error)
}

var (
	ErrUnknownField = errors.New("observable: unknown field")
	ErrInvalidValue = errors.New("observable: invalid value for field")
	ErrNilCallback  = errors.New("observable: nil callback")
	// ErrExclusive is returned when a Set would leave both artifact and error populated.
	ErrExclusive = errors.New("observable: artifact and error are mutually exclusive")
)

type subscriber struct {
	id uint64
	cb Callback
}

// Store holds the busy flag, the current artifact and the last error.
// Set notifies subscribers synchronously on the calling goroutine, outside
// the lock, in subscription order.
type Store struct {
	mu       sync.RWMutex
	busy     bool
	artifact *types.Artifact
	err      error
	nextID   uint64
	subs     map[Field][]subscriber
}

var _ Observable = (*Store)(nil)

// NewStore returns an idle store with no artifact and no error.
func NewStore() *Store {
	return &Store{subs: make(map[Field][]subscriber, len(Fields))}
}

func validField(f Field) bool {
	switch f {
	case FieldBusy, FieldArtifact, FieldError:
		return true
	}
	return false
}

// Get returns the current value of f.
func (s *Store) Get(f Field) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch f {
	case FieldBusy:
		return s.busy, nil
	case FieldArtifact:
		if s.artifact == nil {
			return nil, nil
		}
		return s.artifact, nil
	case FieldError:
		if s.err == nil {
			return nil, nil
		}
		return s.err, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
}

// Busy reports whether a download is in flight.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// Artifact returns the current artifact or nil.
func (s *Store) Artifact() *types.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.artifact
}

// Err returns the last download error or nil.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Set updates f and notifies every subscriber of f registered at the time of
// the call. Notification happens even when the value did not change.
func (s *Store) Set(f Field, value any) error {
	s.mu.Lock()
	var delivered any
	switch f {
	case FieldBusy:
		b, ok := value.(bool)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("%w %q: %T", ErrInvalidValue, f, value)
		}
		s.busy = b
		delivered = b
	case FieldArtifact:
		var a *types.Artifact
		if value != nil {
			v, ok := value.(*types.Artifact)
			if !ok {
				s.mu.Unlock()
				return fmt.Errorf("%w %q: %T", ErrInvalidValue, f, value)
			}
			a = v
		}
		if a != nil && s.err != nil {
			s.mu.Unlock()
			return ErrExclusive
		}
		s.artifact = a
		if a != nil {
			delivered = a
		}
	case FieldError:
		var e error
		if value != nil {
			v, ok := value.(error)
			if !ok {
				s.mu.Unlock()
				return fmt.Errorf("%w %q: %T", ErrInvalidValue, f, value)
			}
			e = v
		}
		if e != nil && s.artifact != nil {
			s.mu.Unlock()
			return ErrExclusive
		}
		s.err = e
		if e != nil {
			delivered = e
		}
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	subs := make([]subscriber, len(s.subs[f]))
	copy(subs, s.subs[f])
	s.mu.Unlock()

	for _, sub := range subs {
		sub.cb(delivered)
	}
	return nil
}

// Subscribe registers cb for changes of f. The callback is not invoked with
// the current value; only subsequent Set calls are delivered.
func (s *Store) Subscribe(f Field, cb Callback) (*Subscription, error) {
	if !validField(f) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	if cb == nil {
		return nil, ErrNilCallback
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[f] = append(s.subs[f], subscriber{id: id, cb: cb})
	s.mu.Unlock()
	return &Subscription{store: s, field: f, id: id}, nil
}

// SubscriberCount returns the number of live subscriptions on f.
func (s *Store) SubscriberCount(f Field) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[f])
}

func (s *Store) remove(f Field, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.subs[f]
	for i, sub := range list {
		if sub.id == id {
			// copy so snapshots taken by an in-progress Set stay intact
			next := make([]subscriber, 0, len(list)-1)
			next = append(next, list[:i]...)
			next = append(next, list[i+1:]...)
			s.subs[f] = next
			return
		}
	}
}

// Subscription is a live registration of one callback against one field.
type Subscription struct {
	store *Store
	field Field
	id    uint64
	once  sync.Once
}

// Field returns the field this subscription observes.
func (sub *Subscription) Field() Field { return sub.field }

// Release removes the callback from the store. Safe to call more than once.
func (sub *Subscription) Release() {
	if sub == nil {
		return
	}
	sub.once.Do(func() { sub.store.remove(sub.field, sub.id) })
}
