package service

import "sort"

// RelationSet is a sorted, deduplicated set of peer names. It is the Go
// stand-in for the source's string-list-with-sorted-insertion macros: one
// RelationSet exists per (service, relation kind) pair.
type RelationSet struct {
	peers []string
}

func newRelationSet() *RelationSet {
	return &RelationSet{}
}

// Contains reports whether peer is already a member.
func (s *RelationSet) Contains(peer string) bool {
	_, found := s.search(peer)
	return found
}

// Insert adds peer if absent. Re-inserting an existing peer is a no-op, not
// an error — the resolver re-asserts reverse edges it has already planted.
func (s *RelationSet) Insert(peer string) {
	i, found := s.search(peer)
	if found {
		return
	}
	s.peers = append(s.peers, "")
	copy(s.peers[i+1:], s.peers[i:])
	s.peers[i] = peer
}

// Remove deletes peer. Returns ErrNotPresent if peer was not a member.
func (s *RelationSet) Remove(peer string) error {
	i, found := s.search(peer)
	if !found {
		return ErrNotPresent
	}
	s.peers = append(s.peers[:i], s.peers[i+1:]...)
	return nil
}

// Len reports the number of members.
func (s *RelationSet) Len() int {
	return len(s.peers)
}

// snapshot returns a defensive copy of the current members in sorted order.
func (s *RelationSet) snapshot() []string {
	if len(s.peers) == 0 {
		return nil
	}
	out := make([]string, len(s.peers))
	copy(out, s.peers)
	return out
}

func (s *RelationSet) search(peer string) (int, bool) {
	i := sort.SearchStrings(s.peers, peer)
	return i, i < len(s.peers) && s.peers[i] == peer
}
