package interop

import (
	"sync/atomic"
)

// Registry publishes the active extension snapshot. Call sites that embedded
// a snapshot into a generated guard revalidate against Current with ValidFor.
type Registry struct {
	current atomic.Pointer[ExtensionSet]
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.current.Store(EmptyExtensionSet())
	return r
}

func (r *Registry) Current() *ExtensionSet {
	return r.current.Load()
}

// Update applies f to the active snapshot until the result can be published.
// f must be pure: it may run more than once when publishers race.
func (r *Registry) Update(f func(*ExtensionSet) *ExtensionSet) *ExtensionSet {
	for {
		cur := r.current.Load()
		next := f(cur)
		if next == cur || r.current.CompareAndSwap(cur, next) {
			return next
		}
	}
}
