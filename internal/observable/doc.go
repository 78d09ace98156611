// Package observable provides the state container owned by a view model: a
// busy flag, the current artifact and the last error, each exposed as a named
// field that callers can read, set and subscribe to.
//
// Delivery is synchronous and immediate. A Set notifies the subscribers that
// are registered at the moment of the call, in the order they subscribed;
// there is no replay of the current value and no buffering.
package observable
