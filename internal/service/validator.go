package service

import "fmt"

// isActiveKind reports whether k is one of the relation kinds the
// override/cycle/reverse-edge machinery below applies to. NEED_ME, USE_ME, BROKEN and PROVIDE are never
// swept directly by the resolver driver — they only ever come into being as
// side effects of resolving one of these four — but ResolveEdge is written
// to behave sanely if ever called with one of them anyway.
func isActiveKind(k RelationKind) bool {
	switch k {
	case Need, Use, Before, After:
		return true
	default:
		return false
	}
}

// Validator implements the single resolve_edge operation: the pairwise
// rule set applied to one (source, peer, kind) triple at a time during the
// resolver driver's sweep.
type Validator struct {
	registry *Registry
	virtuals *VirtualIndex
	sink     Sink
}

// NewValidator builds a Validator bound to a specific registry, virtual
// index and diagnostics sink. The resolver driver owns the one instance
// used across a ResolveAll call.
func NewValidator(registry *Registry, virtuals *VirtualIndex, sink Sink) *Validator {
	return &Validator{registry: registry, virtuals: virtuals, sink: sink}
}

// ResolveEdge validates the edge (source, peer, kind), mutating the
// registry's relation sets in place: removing the edge if it is invalid,
// rewriting it if peer was a virtual, and materializing the reverse edge on
// peer if it survives. It returns a non-nil error only if the registry
// itself is found to be in an inconsistent state (a record the caller
// claims exists has vanished) — every domain-level problem is reported via
// the sink and otherwise treated as handled.
func (v *Validator) ResolveEdge(sourceName, peer string, kind RelationKind) error {
	source, ok := v.registry.Get(sourceName)
	if !ok {
		return fmt.Errorf("service: resolve edge: unknown source %q", sourceName)
	}

	// Step 1: virtual substitution. If no service answers to peer but a
	// virtual does, rewrite the edge onto the concrete provider. The
	// rewrite is idempotent: once peer is the provider's own name, this
	// branch does not fire again.
	if _, ok := v.registry.Get(peer); !ok {
		if provider, ok := v.virtuals.Resolve(peer); ok {
			v.sink.Debugf("virtual %q -> %q for service %q, kind %s", peer, provider.Name, sourceName, kind)
			if err := source.relations[kind].Remove(peer); err != nil {
				return fmt.Errorf("service: resolve edge: remove virtual placeholder %q on %q: %w", peer, sourceName, err)
			}
			peer = provider.Name
			source.relations[kind].Insert(peer)
		}
	}

	// Step 2: unknown-peer policy.
	peerRec, peerKnown := v.registry.Get(peer)
	if !peerKnown {
		switch kind {
		case Need, NeedMe:
			v.sink.Warnf("can't find service %q needed by %q; continuing", peer, sourceName)
			source.relations[Broken].Insert(peer)
			return removeEdge(source, peer, kind)
		default:
			// Historical safety net: the driver guarantees "net" resolves
			// before any sweep runs (a real service, the synthetic one
			// ResolveAll installs, or a virtual substituted in step 1), so this branch
			// is defensive against a future adapter bug rather than a path
			// exercised by the resolver's own preconditions.
			if peer == NetServiceName {
				return nil
			}
			return removeEdge(source, peer, kind)
		}
	}

	// Step 3: self-edge.
	if peer == sourceName {
		if kind != Before && kind != After {
			v.sink.Warnf("service %q can't depend on itself; continuing", sourceName)
		}
		return removeEdge(source, peer, kind)
	}

	if !isActiveKind(kind) {
		return nil
	}

	if kind == Before {
		// Step 4: NEED/USE override BEFORE.
		if source.relations[Need].Contains(peer) || source.relations[Use].Contains(peer) {
			return removeEdge(source, peer, kind)
		}
		// Step 5: transitive override — peer's NEED_ME/USE_ME reaching
		// back into source's NEED/USE means peer is indirectly required
		// after source, which conflicts with "source BEFORE peer".
		if m, ok := v.transitiveConflict(peerRec, source); ok {
			v.sink.Warnf("service %q should be BEFORE service %q, but %q needed by %q depends in return on %q", sourceName, peer, m, sourceName, peer)
			return removeEdge(source, peer, kind)
		}
	}

	if kind == After {
		// Step 6: NEED/USE override AFTER.
		if peerRec.relations[Need].Contains(sourceName) || peerRec.relations[Use].Contains(sourceName) {
			return removeEdge(source, peer, kind)
		}
		// Step 7: transitive override, roles swapped from step 5.
		if m, ok := v.transitiveConflict(source, peerRec); ok {
			v.sink.Warnf("service %q should be AFTER service %q, but %q needed by %q depends in return on %q", sourceName, peer, m, peer, sourceName)
			return removeEdge(source, peer, kind)
		}
	}

	// Step 8: symmetric-pair cycle — peer already declares the same
	// relation kind back at source.
	if peerRec.relations[kind].Contains(sourceName) {
		v.sink.Warnf("services %q and %q have circular dependency of type %s; continuing", sourceName, peer, kind)
		return removeEdge(source, peer, kind)
	}

	// Step 9: materialize the reverse edge on peer.
	if rev, ok := kind.reverse(); ok {
		peerRec.relations[rev].Insert(sourceName)
	}

	return nil
}

// transitiveConflict implements "service_is_recursive_dependency": it looks
// at reachRec's NEED_ME and USE_ME sets and reports the first member that is
// also present in conflictRec's NEED or USE set. Both of peer's reverse sets
// are always consulted — the original's conditional `checkuse` flag is
// standardized to always-on here; see DESIGN.md for the rationale.
func (v *Validator) transitiveConflict(reachRec, conflictRec *Record) (string, bool) {
	for _, m := range reachRec.relations[NeedMe].snapshot() {
		if conflictRec.relations[Need].Contains(m) || conflictRec.relations[Use].Contains(m) {
			return m, true
		}
	}
	for _, m := range reachRec.relations[UseMe].snapshot() {
		if conflictRec.relations[Need].Contains(m) || conflictRec.relations[Use].Contains(m) {
			return m, true
		}
	}
	return "", false
}

// removeEdge deletes peer from source's kind set, tolerating an edge that
// is already gone (e.g. a prior virtual-substitution rewrite already
// removed it). It is the structured stand-in for the source's shared
// `remove:` goto label: every early return above that decides an edge is
// invalid funnels through here, and always reports success to its caller.
func removeEdge(source *Record, peer string, kind RelationKind) error {
	_ = source.relations[kind].Remove(peer)
	return nil
}
