package service

// sweepOrder is the fixed order in which relation kinds are resolved. NEED
// goes first so BEFORE's overrides (steps 4-5 in the validator) can consult
// a complete NEED set; USE follows for the same reason. BEFORE precedes
// AFTER so a BEFORE-derived reverse edge (an AFTER edge) is already planted
// before the AFTER sweep observes it — re-validating it there is harmless
// because reverse-edge insertion is monotone.
var sweepOrder = []RelationKind{Need, Use, Before, After}

// Resolver drives the one-shot transformation from a raw, ingested graph to
// a normalized one: it folds PROVIDE declarations into the virtual index,
// installs the synthetic "net" service when nothing else answers to "net",
// then sweeps NEED/USE/BEFORE/AFTER in that order, delegating each edge to a
// Validator.
type Resolver struct {
	registry  *Registry
	virtuals  *VirtualIndex
	validator *Validator
}

// NewResolver builds a Resolver over registry, creating the virtual index
// and validator it needs internally. sink receives every warning and debug
// trace produced while resolving.
func NewResolver(registry *Registry, sink Sink) *Resolver {
	virtuals := NewVirtualIndex()
	return &Resolver{
		registry:  registry,
		virtuals:  virtuals,
		validator: NewValidator(registry, virtuals, sink),
	}
}

// ResolveAll performs the full resolution pass: fold PROVIDE into the
// virtual index, install the synthetic net service if no service is named
// "net" and no service provides a "net" virtual, then sweep NEED/USE/BEFORE/
// AFTER in that fixed order. It is idempotent: invoking it again on an
// already-resolved registry produces no warnings and no further mutation
// (law L1).
func (r *Resolver) ResolveAll() error {
	for _, rec := range r.registry.Enumerate() {
		for _, virtual := range rec.relations[Provide].snapshot() {
			r.virtuals.Add(r.registry, rec, virtual, r.validator.sink)
		}
		rec.relations[Provide] = newRelationSet()
	}

	if _, ok := r.registry.Get(NetServiceName); !ok {
		if _, provided := r.virtuals.Resolve(NetServiceName); !provided {
			if err := r.registry.Add(NetServiceName); err != nil {
				return err
			}
			_ = r.registry.SetMTime(NetServiceName, 0)
		}
	}

	for _, kind := range sweepOrder {
		for _, rec := range r.registry.Enumerate() {
			for _, peer := range rec.relations[kind].snapshot() {
				if err := r.validator.ResolveEdge(rec.Name, peer, kind); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
