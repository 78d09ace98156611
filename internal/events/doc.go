// Package events defines event declarations: named, caller-built bundles of
// UI callbacks that are bound to a view model's observable fields without the
// caller knowing the field names.
//
//	bg := events.NewBackgroundImage().
//		OnBusyChanged(func(busy bool) { spinner.Set(busy) }).
//		OnArtifactReady(func(a *types.Artifact) { view.Show(a.Data) }).
//		OnError(func(err error) { banner.Show(err.Error()) })
//
// A declaration is immutable once bound and can be bound only once.
package events
