// Package service implements the dependency resolution engine: a name-keyed
// registry of service records, the sorted relation sets hanging off each
// record, and the validator/driver pair that normalizes a raw, user-authored
// graph into one that obeys the resolved graph's structural invariants
// (reverse-edge symmetry, no self-edges, no dangling hints, no symmetric
// same-kind pairs).
package service

import "fmt"

// RelationKind identifies one of the edge labels a service can carry.
type RelationKind int

const (
	Need RelationKind = iota
	NeedMe
	Use
	UseMe
	Before
	After
	Broken
	Provide

	numRelationKinds
)

func (k RelationKind) String() string {
	switch k {
	case Need:
		return "NEED"
	case NeedMe:
		return "NEED_ME"
	case Use:
		return "USE"
	case UseMe:
		return "USE_ME"
	case Before:
		return "BEFORE"
	case After:
		return "AFTER"
	case Broken:
		return "BROKEN"
	case Provide:
		return "PROVIDE"
	default:
		return fmt.Sprintf("RelationKind(%d)", int(k))
	}
}

// reverse returns the relation kind that materializes as the reverse edge of
// k, and whether k is one of the four kinds that gets a reverse edge at all.
func (k RelationKind) reverse() (RelationKind, bool) {
	switch k {
	case Need:
		return NeedMe, true
	case Use:
		return UseMe, true
	case Before:
		return After, true
	case After:
		return Before, true
	default:
		return 0, false
	}
}

// NetServiceName is the name the driver guarantees resolves before any sweep
// runs — either to a provider of the "net" virtual or, when there is none,
// to a synthetic service it installs — so that "NEED net" never becomes
// BROKEN.
const NetServiceName = "net"

// Record is a single service's entry in the registry: its identity, the
// virtual it provides (if any), and its relation sets.
type Record struct {
	Name     string
	Provides string
	MTime    int64

	relations [numRelationKinds]*RelationSet
}

func newRecord(name string) *Record {
	r := &Record{Name: name}
	for k := range r.relations {
		r.relations[k] = newRelationSet()
	}
	return r
}

// Relations returns the sorted peer set for kind k. The returned slice is a
// snapshot; mutating the registry after the call does not retroactively
// change it.
func (r *Record) Relations(k RelationKind) []string {
	return r.relations[k].snapshot()
}
