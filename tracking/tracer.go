package tracking

// Tracer receives allocation and deallocation events from the wrapping
// allocator. Implementations are called concurrently from arbitrary
// goroutines, must run in O(1) and must not allocate; a tracer that does
// allocate through a tracked allocator relies on the suppression guard to
// avoid recursing, at the cost of under-counting its own overhead.
//
// The wrapped size includes the per-allocation header, so an allocation's
// add and its eventual subtract always cancel exactly.
type Tracer interface {
	// TraceAllocation records that wrappedSize bytes were allocated on
	// behalf of the given group.
	TraceAllocation(wrappedSize int, group GroupID)

	// TraceDeallocation records that wrappedSize bytes previously
	// attributed to the given group were freed.
	TraceDeallocation(wrappedSize int, group GroupID)
}
