package tracking

import (
	"sync/atomic"
)

// GroupCapacity is the total number of allocation group slots, including the
// reserved default group. The counter table is sized to this constant and
// group ids are always in [0, GroupCapacity).
const GroupCapacity = 1024

// GroupID identifies an allocation group.
type GroupID uint32

// DefaultGroupID is the reserved group that receives allocations made while
// no group scope is entered on the calling goroutine. It is always valid and
// is never issued by a registry.
const DefaultGroupID GroupID = 0

// Tag is a descriptive key/value pair associated with an allocation group.
// Tags are carried on the token so callers can correlate a group with an
// external span identity; they are not consumed by the tracking machinery
// itself.
type Tag struct {
	Key   string
	Value string
}

// Registry issues allocation group ids from a bounded pool. Issuing happens
// off the allocation hot path, once per logical group, so a single atomic
// counter is sufficient. Ids are never returned to the pool.
type Registry struct {
	next atomic.Uint32
}

// NewRegistry returns an empty registry. Id 0 stays reserved for the default
// group; the first acquired token receives id 1.
func NewRegistry() *Registry {
	return &Registry{}
}

// Acquire allocates the next unused group id and returns a token owning it.
// It fails with ErrGroupCapacityExceeded when all GroupCapacity-1
// non-reserved slots have been issued; it never wraps around and never
// reuses the default group.
func (r *Registry) Acquire(tags ...Tag) (*Token, error) {
	for {
		issued := r.next.Load()
		if issued >= GroupCapacity-1 {
			return nil, ErrGroupCapacityExceeded
		}
		if r.next.CompareAndSwap(issued, issued+1) {
			return &Token{id: GroupID(issued + 1), tags: tags}, nil
		}
	}
}

// Issued returns how many group ids have been handed out so far.
func (r *Registry) Issued() int {
	return int(r.next.Load())
}

// Token is an owned handle to exactly one allocation group.
type Token struct {
	id   GroupID
	tags []Tag
}

// ID returns the group id owned by this token.
func (t *Token) ID() GroupID {
	return t.id
}

// Tags returns the descriptive tags supplied when the group was acquired.
func (t *Token) Tags() []Tag {
	return t.tags
}

// Enter pushes the token's group onto the calling goroutine's active-group
// stack and returns the guard that pops it. Entry is nestable: entering
// token B while A is active makes B current, and exiting B restores A. The
// returned guard must be released on every exit path, typically via defer.
func (t *Token) Enter() *ScopeGuard {
	l := current()
	l.push(t.id)
	return &ScopeGuard{local: l, id: t.id}
}
