package service

import "sort"

// Registry is the canonical, name-keyed store of service records: a map
// plus a maintained order slice, the order here being the name's sort
// order rather than registration order, per the "sorted insertion"
// invariant of the original dependency engine.
//
// A Registry is single-writer, single-reader during a ResolveAll call;
// callers that need concurrent access around that call (the watch-mode
// daemon) wrap it in their own mutex rather than Registry taking one
// itself, keeping the core lock-free.
type Registry struct {
	byName map[string]*Record
	sorted []string // names, kept in ascending lexicographic order
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Record)}
}

// Add inserts a new, empty service record under name. Returns
// ErrInvalidInput for an empty name, ErrDuplicateName if name already exists.
func (r *Registry) Add(name string) error {
	if name == "" {
		return ErrInvalidInput
	}
	if _, exists := r.byName[name]; exists {
		return ErrDuplicateName
	}

	r.byName[name] = newRecord(name)

	i := sort.SearchStrings(r.sorted, name)
	r.sorted = append(r.sorted, "")
	copy(r.sorted[i+1:], r.sorted[i:])
	r.sorted[i] = name

	return nil
}

// Get returns the record for name, or (nil, false) if unknown.
func (r *Registry) Get(name string) (*Record, bool) {
	rec, ok := r.byName[name]
	return rec, ok
}

// mustGet is for call sites that have already confirmed the name exists;
// nothing in this package calls it at present. It panics on a missing name,
// surfacing a registry-invariant breach immediately rather than propagating
// a nil pointer.
func (r *Registry) mustGet(name string) *Record {
	rec, ok := r.byName[name]
	if !ok {
		panic("service: registry invariant broken: " + name + " vanished mid-resolution")
	}
	return rec
}

// SetMTime updates a record's mtime. Returns ErrNotFound if name is unknown.
func (r *Registry) SetMTime(name string, mtime int64) error {
	rec, ok := r.byName[name]
	if !ok {
		return ErrNotFound
	}
	rec.MTime = mtime
	return nil
}

// Enumerate returns every record in ascending name order. The returned
// slice is a snapshot safe to range over while the registry is mutated,
// matching the "safe iteration" contract the resolver driver relies on for
// its outer loop (inner relation-set iteration has its own contract, see
// RelationSet and resolver.go).
func (r *Registry) Enumerate() []*Record {
	out := make([]*Record, len(r.sorted))
	for i, name := range r.sorted {
		out[i] = r.byName[name]
	}
	return out
}

// Len reports the number of registered services.
func (r *Registry) Len() int {
	return len(r.sorted)
}

// AddDependency records that src has a relation of kind k to peer. Both must
// already be non-empty strings; peer need not yet be a registered service
// (PROVIDE targets and not-yet-resolved virtuals are added before the
// resolver has run). Duplicate (src, peer, k) triples are accepted silently.
func (r *Registry) AddDependency(src, peer string, k RelationKind) error {
	if src == "" || peer == "" {
		return ErrInvalidInput
	}
	rec, ok := r.byName[src]
	if !ok {
		return ErrNotFound
	}
	rec.relations[k].Insert(peer)
	return nil
}
