// Package handle provides generation-checked handles for records that are
// created and released explicitly by the caller.
//
// A Handle is an opaque integer token. Releasing a handle bumps the
// generation of its slot, so any later use of the same token (including a
// second release) is reported as ErrStale instead of touching whatever record
// now lives in that slot.
package handle

import (
	"errors"
	"fmt"
)

// Handle packs a slot index (low 32 bits) and a generation (high 32 bits).
// The zero Handle is never issued.
type Handle uint64

// Nil is the zero handle.
const Nil Handle = 0

var (
	ErrInvalid = errors.New("handle: invalid")
	ErrStale   = errors.New("handle: stale")
)

func makeHandle(index, gen uint32) Handle { return Handle(uint64(gen)<<32 | uint64(index)) }

func (h Handle) index() uint32 { return uint32(h) }
func (h Handle) gen() uint32   { return uint32(h >> 32) }

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool { return h == Nil }

func (h Handle) String() string {
	if h == Nil {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d@%d)", h.index(), h.gen())
}

type slot[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Pool is an arena of T addressed by Handle. The zero Pool is ready to use.
// Pools are not safe for concurrent use.
type Pool[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// Insert stores v and returns a fresh handle for it.
func (p *Pool[T]) Insert(v T) Handle {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot[T]{gen: 1})
	}
	s := &p.slots[idx]
	s.val = v
	s.live = true
	p.live++
	return makeHandle(idx, s.gen)
}

// Get returns the value stored under h.
func (p *Pool[T]) Get(h Handle) (T, error) {
	s, err := p.lookup(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.val, nil
}

// Release removes the value stored under h and returns it. Releasing the
// same handle twice returns ErrStale.
func (p *Pool[T]) Release(h Handle) (T, error) {
	var zero T
	s, err := p.lookup(h)
	if err != nil {
		return zero, err
	}
	v := s.val
	s.val = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	p.free = append(p.free, h.index())
	p.live--
	return v, nil
}

// Valid reports whether h currently refers to a live value.
func (p *Pool[T]) Valid(h Handle) bool {
	_, err := p.lookup(h)
	return err == nil
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int { return p.live }

// Each calls fn for every live value in slot order.
func (p *Pool[T]) Each(fn func(Handle, T)) {
	for i := range p.slots {
		s := &p.slots[i]
		if s.live {
			fn(makeHandle(uint32(i), s.gen), s.val)
		}
	}
}

func (p *Pool[T]) lookup(h Handle) (*slot[T], error) {
	if h == Nil || int(h.index()) >= len(p.slots) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, h)
	}
	s := &p.slots[h.index()]
	if !s.live || s.gen != h.gen() {
		return nil, fmt.Errorf("%w: %v", ErrStale, h)
	}
	return s, nil
}
