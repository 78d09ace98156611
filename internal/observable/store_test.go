package observable

import (
	"errors"
	"testing"

	"imagebind/pkg/types"
)

func TestStore_ZeroState(t *testing.T) {
	s := NewStore()
	if s.Busy() || s.Artifact() != nil || s.Err() != nil {
		t.Fatalf("unexpected initial state: busy=%v artifact=%v err=%v", s.Busy(), s.Artifact(), s.Err())
	}
	v, err := s.Get(FieldBusy)
	if err != nil || v != false {
		t.Fatalf("Get(busy) = %v, %v", v, err)
	}
	for _, f := range []Field{FieldArtifact, FieldError} {
		v, err := s.Get(f)
		if err != nil || v != nil {
			t.Fatalf("Get(%s) = %v, %v", f, v, err)
		}
	}
}

func TestStore_SetNotifiesInSubscriptionOrder(t *testing.T) {
	s := NewStore()
	var order []string
	if _, err := s.Subscribe(FieldBusy, func(v any) { order = append(order, "first") }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := s.Subscribe(FieldBusy, func(v any) { order = append(order, "second") }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := s.Set(FieldBusy, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
}

func TestStore_SetNotifiesOnlyThatField(t *testing.T) {
	s := NewStore()
	calls := 0
	_, _ = s.Subscribe(FieldError, func(v any) { calls++ })
	_ = s.Set(FieldBusy, true)
	_ = s.Set(FieldArtifact, &types.Artifact{URL: "u"})
	if calls != 0 {
		t.Fatalf("error subscriber called %d times", calls)
	}
}

func TestStore_NotifiesEvenWhenUnchanged(t *testing.T) {
	s := NewStore()
	calls := 0
	_, _ = s.Subscribe(FieldBusy, func(v any) { calls++ })
	_ = s.Set(FieldBusy, false)
	_ = s.Set(FieldBusy, false)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestStore_NoReplayOnSubscribe(t *testing.T) {
	s := NewStore()
	_ = s.Set(FieldBusy, true)
	calls := 0
	_, _ = s.Subscribe(FieldBusy, func(v any) { calls++ })
	if calls != 0 {
		t.Fatalf("subscriber received replay")
	}
}

func TestStore_ClearedValuesAreUntypedNil(t *testing.T) {
	s := NewStore()
	var got []any
	_, _ = s.Subscribe(FieldArtifact, func(v any) { got = append(got, v) })
	_ = s.Set(FieldArtifact, (*types.Artifact)(nil))
	_ = s.Set(FieldArtifact, nil)
	for i, v := range got {
		if v != nil {
			t.Fatalf("notification %d = %#v, want nil", i, v)
		}
	}
}

func TestStore_RejectsInvalidInput(t *testing.T) {
	s := NewStore()
	if err := s.Set("nope", true); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field err = %v", err)
	}
	if err := s.Set(FieldBusy, "yes"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("busy type err = %v", err)
	}
	if err := s.Set(FieldArtifact, "x"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("artifact type err = %v", err)
	}
	if err := s.Set(FieldError, 42); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("error type err = %v", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("get unknown err = %v", err)
	}
	if _, err := s.Subscribe("nope", func(any) {}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("subscribe unknown err = %v", err)
	}
	if _, err := s.Subscribe(FieldBusy, nil); !errors.Is(err, ErrNilCallback) {
		t.Fatalf("nil callback err = %v", err)
	}
}

func TestStore_ArtifactAndErrorExclusive(t *testing.T) {
	s := NewStore()
	if err := s.Set(FieldError, errors.New("boom")); err != nil {
		t.Fatalf("set error: %v", err)
	}
	calls := 0
	_, _ = s.Subscribe(FieldArtifact, func(any) { calls++ })
	if err := s.Set(FieldArtifact, &types.Artifact{}); !errors.Is(err, ErrExclusive) {
		t.Fatalf("expected ErrExclusive, got %v", err)
	}
	if calls != 0 || s.Artifact() != nil {
		t.Fatalf("rejected set must not mutate or notify")
	}
	// clearing error first makes the artifact legal
	if err := s.Set(FieldError, nil); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if err := s.Set(FieldArtifact, &types.Artifact{}); err != nil {
		t.Fatalf("set artifact: %v", err)
	}
	if err := s.Set(FieldError, errors.New("again")); !errors.Is(err, ErrExclusive) {
		t.Fatalf("expected ErrExclusive, got %v", err)
	}
}

func TestSubscription_ReleaseIsIdempotent(t *testing.T) {
	s := NewStore()
	calls := 0
	sub, _ := s.Subscribe(FieldBusy, func(any) { calls++ })
	other, _ := s.Subscribe(FieldBusy, func(any) {})
	sub.Release()
	sub.Release()
	if n := s.SubscriberCount(FieldBusy); n != 1 {
		t.Fatalf("subscriber count = %d, want 1", n)
	}
	_ = s.Set(FieldBusy, true)
	if calls != 0 {
		t.Fatalf("released callback invoked")
	}
	other.Release()
	if n := s.SubscriberCount(FieldBusy); n != 0 {
		t.Fatalf("subscriber count = %d, want 0", n)
	}
	var nilSub *Subscription
	nilSub.Release()
}

func TestStore_CallbackMayReadStore(t *testing.T) {
	s := NewStore()
	var seen bool
	_, _ = s.Subscribe(FieldBusy, func(any) { seen = s.Busy() })
	_ = s.Set(FieldBusy, true)
	if !seen {
		t.Fatalf("callback did not observe updated value")
	}
}

func TestStore_ReleaseDuringNotification(t *testing.T) {
	s := NewStore()
	var second int
	var first *Subscription
	first, _ = s.Subscribe(FieldBusy, func(any) { first.Release() })
	_, _ = s.Subscribe(FieldBusy, func(any) { second++ })
	_ = s.Set(FieldBusy, true)
	_ = s.Set(FieldBusy, false)
	if second != 2 {
		t.Fatalf("second subscriber calls = %d, want 2", second)
	}
	if n := s.SubscriberCount(FieldBusy); n != 1 {
		t.Fatalf("subscriber count = %d", n)
	}
}

func TestRecorder_AttachAndDetach(t *testing.T) {
	s := NewStore()
	rec := NewRecorder()
	if err := rec.Attach(s); err != nil {
		t.Fatalf("attach: %v", err)
	}
	_ = s.Set(FieldBusy, true)
	_ = s.Set(FieldArtifact, &types.Artifact{URL: "u"})
	_ = s.Set(FieldBusy, false)
	got := rec.Notifications()
	if len(got) != 3 || got[0].Field != FieldBusy || got[1].Field != FieldArtifact || got[2].Field != FieldBusy {
		t.Fatalf("notifications = %+v", got)
	}
	if b := rec.Busy(); len(b) != 2 || !b[0] || b[1] {
		t.Fatalf("busy = %v", b)
	}
	rec.Detach()
	for _, f := range Fields {
		if n := s.SubscriberCount(f); n != 0 {
			t.Fatalf("%s still has %d subscribers", f, n)
		}
	}
}
