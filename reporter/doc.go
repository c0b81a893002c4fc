// Package reporter owns the background loop that converts live per-group
// byte counters into telemetry records. It is the only reader of the
// counter table, performs atomic reads only and never blocks the allocation
// hot path.
package reporter
