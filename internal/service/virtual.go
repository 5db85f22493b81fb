package service

// VirtualIndex maps a virtual name (e.g. "net") to the single service that
// provides it. Entries are borrowed references into the Registry — the
// index never extends a record's lifetime, it only remembers which name
// currently wins.
type VirtualIndex struct {
	providers map[string]*Record
}

// NewVirtualIndex creates an empty index.
func NewVirtualIndex() *VirtualIndex {
	return &VirtualIndex{providers: make(map[string]*Record)}
}

// Add records that provider provides virtual. If a provider is already
// recorded for virtual, the existing binding wins and the sink receives a
// warning — this is never a hard error.
//
// If virtual collides with the name of a real, registered service, that is
// also only a warning: the virtual is still recorded so later substitution
// can occur, but name lookups continue to resolve to the real service.
func (v *VirtualIndex) Add(registry *Registry, provider *Record, virtual string, sink Sink) {
	if real, ok := registry.Get(virtual); ok && real != provider {
		sink.Warnf("virtual %q collides with service %q; provider %q recorded but the real service wins name lookups", virtual, real.Name, provider.Name)
	}

	if existing, ok := v.providers[virtual]; ok {
		if existing != provider {
			sink.Warnf("service %q already provides %q; discarding duplicate provider %q", existing.Name, virtual, provider.Name)
		}
		return
	}
	v.providers[virtual] = provider
	if provider.Provides == "" {
		provider.Provides = virtual
	}
}

// Resolve returns the concrete provider for virtual, or (nil, false).
func (v *VirtualIndex) Resolve(virtual string) (*Record, bool) {
	rec, ok := v.providers[virtual]
	return rec, ok
}
