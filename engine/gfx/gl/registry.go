package glbackend

import (
	"fmt"

	"github.com/hubastard/es2/engine/handle"
)

// ContextID is the opaque token an engine holds for a Context.
type ContextID handle.Handle

func (id ContextID) String() string { return "context " + handle.Handle(id).String() }

// Registry hands out ContextIDs. It is not safe for concurrent use.
type Registry struct {
	ctxs handle.Pool[*Context]
}

// Create builds a Context and registers it.
func (r *Registry) Create(d Driver, p Procs, opts ...Option) (ContextID, *Context) {
	c := NewContext(d, p, opts...)
	return ContextID(r.ctxs.Insert(c)), c
}

// Context resolves id.
func (r *Registry) Context(id ContextID) (*Context, error) {
	c, err := r.ctxs.Get(handle.Handle(id))
	if err != nil {
		return nil, fmt.Errorf("%v: %w", id, err)
	}
	return c, nil
}

// Dispose unregisters id and disposes its Context. A second Dispose of the
// same id returns handle.ErrStale.
func (r *Registry) Dispose(id ContextID) error {
	c, err := r.ctxs.Release(handle.Handle(id))
	if err != nil {
		return fmt.Errorf("%v: %w", id, err)
	}
	c.Dispose()
	return nil
}

// Len returns the number of registered contexts.
func (r *Registry) Len() int { return r.ctxs.Len() }
