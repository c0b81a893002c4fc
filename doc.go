// Package alloctrack attributes heap memory usage to logical allocation
// groups (pipeline stages, tasks) instead of a single undifferentiated
// process total. It wraps an arrow-style allocator so every allocation and
// deallocation routed through it is tagged with the group active on the
// calling goroutine at allocation time, aggregates live-byte counts per
// group in a fixed-capacity counter table, and periodically emits non-zero
// group totals to a pluggable telemetry sink.
//
// The root package wires the pieces into a process-lifetime service:
//
//	srv, err := alloctrack.Init(ctx)
//	token, err := srv.AcquireGroup(tracking.Tag{Key: "component", Value: "ingest"})
//	alloc := srv.Allocator(memory.NewGoAllocator())
//
//	guard := token.Enter()
//	defer guard.Exit()
//	buf := alloc.Allocate(4096) // attributed to "ingest"
//
// Init is expected to run exactly once per process, before significant
// allocation activity; allocations made before it are permanently
// unaccounted.
package alloctrack
