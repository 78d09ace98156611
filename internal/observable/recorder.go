package observable

import "sync"

// Notification is one delivered field update.
type Notification struct {
	Field Field
	Value any
}

// Recorder stores notifications in-memory, in delivery order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
	subs  []*Subscription
}

func NewRecorder() *Recorder { return &Recorder{} }

// Attach subscribes the recorder to every field of o.
func (r *Recorder) Attach(o Observable) error {
	for _, f := range Fields {
		f := f
		sub, err := o.Subscribe(f, func(v any) { r.record(f, v) })
		if err != nil {
			r.Detach()
			return err
		}
		r.mu.Lock()
		r.subs = append(r.subs, sub)
		r.mu.Unlock()
	}
	return nil
}

// Detach releases the subscriptions created by Attach.
func (r *Recorder) Detach() {
	r.mu.Lock()
	subs := r.subs
	r.subs = nil
	r.mu.Unlock()
	for _, s := range subs {
		s.Release()
	}
}

func (r *Recorder) record(f Field, v any) {
	r.mu.Lock()
	r.items = append(r.items, Notification{Field: f, Value: v})
	r.mu.Unlock()
}

func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Busy returns the sequence of busy values observed so far.
func (r *Recorder) Busy() []bool {
	var out []bool
	for _, n := range r.Notifications() {
		if n.Field == FieldBusy {
			out = append(out, n.Value.(bool))
		}
	}
	return out
}
