// Package tracing is a thin wrapper around OpenTelemetry that keeps span
// lifecycle and allocation-group scope in lockstep: starting a span with an
// attached group token enters the group on the calling goroutine, and ending
// the span exits it, so allocation attribution mirrors the logical execution
// context recorded by the trace.
package tracing
