// Package builder constructs a view model and wires event declarations to
// its store in one step.
package builder

import (
	"errors"
	"fmt"

	"imagebind/internal/events"
	"imagebind/internal/viewmodel"
)

var (
	ErrNilFactory     = errors.New("builder: nil view model factory")
	ErrNilViewModel   = errors.New("builder: factory returned nil view model")
	ErrNilDeclaration = events.ErrNilDeclaration
)

// Factory creates the view model a Build call wires up.
type Factory func() *viewmodel.ViewModel

// Build creates a view model and binds each declaration to its store in the
// order given. Bound declarations are retained by the view model, so closing
// it releases their subscriptions. On error nothing stays bound and the view
// model is closed.
func Build(factory Factory, decls []events.Declaration) (*viewmodel.ViewModel, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	vm := factory()
	if vm == nil {
		return nil, ErrNilViewModel
	}
	for i, d := range decls {
		if d == nil {
			_ = vm.Close()
			return nil, fmt.Errorf("declaration %d: %w", i, ErrNilDeclaration)
		}
		if err := d.Bind(vm.Store()); err != nil {
			_ = vm.Close()
			return nil, fmt.Errorf("bind %s (declaration %d): %w", d.Name(), i, err)
		}
		if err := vm.Retain(d); err != nil {
			d.Unbind()
			_ = vm.Close()
			return nil, fmt.Errorf("retain %s: %w", d.Name(), err)
		}
	}
	return vm, nil
}

// MustBuild is like Build but panics on error. Intended for static wiring in
// main packages and tests.
func MustBuild(factory Factory, decls ...events.Declaration) *viewmodel.ViewModel {
	vm, err := Build(factory, decls)
	if err != nil {
		panic(err)
	}
	return vm
}
