// Package tracking attributes heap allocations to logical allocation groups.
// A group represents a unit of work (a pipeline stage, a task) that owns the
// memory allocated while its scope is entered on the calling goroutine. The
// package provides the bounded group registry, the goroutine-local
// active-group stack, the tracer contract and its counter-table
// implementation, and the wrapping allocator that stamps every allocation
// with the group current at allocation time.
package tracking
