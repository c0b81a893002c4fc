package tracking

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// GroupedAllocator wraps an arrow memory.Allocator so that every allocation
// routed through it is attributed to the allocation group active on the
// calling goroutine. Attribution is stamped into a header in front of the
// returned region at allocation time and read back at free time, so a
// region freed on another goroutine, or under a different group, is always
// subtracted from the group that originally allocated it.
//
// The hot path takes no locks and performs no heap allocation of its own:
// attribution is a goroutine-local stack read and the counter update is an
// atomic add on an independent slot.
//
// Underlying allocation failure is never intercepted; arrow allocators that
// panic on exhaustion propagate unchanged.
type GroupedAllocator struct {
	mem    memory.Allocator
	tracer Tracer
}

// NewGroupedAllocator wraps the given allocator, forwarding allocation
// events to the tracer. A nil underlying allocator defaults to arrow's
// default allocator.
func NewGroupedAllocator(mem memory.Allocator, tracer Tracer) *GroupedAllocator {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return &GroupedAllocator{mem: mem, tracer: tracer}
}

// Underlying returns the wrapped allocator.
func (a *GroupedAllocator) Underlying() memory.Allocator {
	return a.mem
}

// Allocate obtains size bytes attributed to the calling goroutine's current
// group. The returned region excludes the bookkeeping header but stays
// 64-byte aligned. Zero-sized requests bypass tracking entirely.
func (a *GroupedAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return a.mem.Allocate(size)
	}
	wrapped := size + HeaderOverhead
	l := lookup()
	if !enabled.Load() || (l != nil && l.suppress > 0) {
		full := a.mem.Allocate(wrapped)
		stampHeader(full, headerMagicUntracked, DefaultGroupID, wrapped)
		return full[HeaderOverhead:wrapped:wrapped]
	}
	if l == nil {
		l = current()
	}
	l.beginSuppress()
	defer l.endSuppress()
	full := a.mem.Allocate(wrapped)
	group := l.top()
	stampHeader(full, headerMagicTracked, group, wrapped)
	a.tracer.TraceAllocation(wrapped, group)
	return full[HeaderOverhead:wrapped:wrapped]
}

// Reallocate grows or shrinks a region previously obtained from this
// allocator. The resized region keeps the attribution recorded at the
// original allocation; accounting treats the operation as a free of the old
// wrapped size followed by an allocation of the new one against that same
// group.
func (a *GroupedAllocator) Reallocate(size int, b []byte) []byte {
	if cap(b) == 0 {
		// Zero-sized regions carry no header.
		return a.Allocate(size)
	}
	h := headerOf(b)
	full := wrappedRegion(b, h.wrapped)
	if h.magic == headerMagicTracked {
		l := current()
		l.beginSuppress()
		defer l.endSuppress()
	}
	if size <= 0 {
		if h.magic == headerMagicTracked {
			a.tracer.TraceDeallocation(h.wrapped, h.group)
		}
		a.mem.Free(full)
		return a.mem.Allocate(size)
	}
	wrapped := size + HeaderOverhead
	newFull := a.mem.Reallocate(wrapped, full)
	stampHeader(newFull, h.magic, h.group, wrapped)
	if h.magic == headerMagicTracked {
		a.tracer.TraceDeallocation(h.wrapped, h.group)
		a.tracer.TraceAllocation(wrapped, h.group)
	}
	return newFull[HeaderOverhead:wrapped:wrapped]
}

// Free releases a region previously obtained from this allocator. Tracked
// regions are subtracted from the group recorded in their header regardless
// of the goroutine's current stack state or whether tracking has since been
// disabled; untracked regions are forwarded without touching any counter.
func (a *GroupedAllocator) Free(b []byte) {
	if cap(b) == 0 {
		a.mem.Free(b)
		return
	}
	h := headerOf(b)
	full := wrappedRegion(b, h.wrapped)
	if h.magic == headerMagicTracked {
		l := current()
		l.beginSuppress()
		a.tracer.TraceDeallocation(h.wrapped, h.group)
		l.endSuppress()
	}
	a.mem.Free(full)
}

var _ memory.Allocator = (*GroupedAllocator)(nil)
