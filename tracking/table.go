package tracking

import "sync/atomic"

// CounterTable is the concrete Tracer: a fixed array of per-group live-byte
// counters updated with atomic add/subtract. Slots are independent, so
// concurrent updates contend only on false sharing, never on correctness.
// Individual reads and writes are atomic; the table as a whole is not
// transactionally consistent across groups, which is all the reporting loop
// needs.
type CounterTable struct {
	counters [GroupCapacity]atomic.Int64
}

// NewCounterTable returns a table with all counters at zero.
func NewCounterTable() *CounterTable {
	return &CounterTable{}
}

// TraceAllocation adds wrappedSize to the group's live-byte counter.
func (t *CounterTable) TraceAllocation(wrappedSize int, group GroupID) {
	t.counters[group].Add(int64(wrappedSize))
}

// TraceDeallocation subtracts wrappedSize from the group's live-byte
// counter.
func (t *CounterTable) TraceDeallocation(wrappedSize int, group GroupID) {
	t.counters[group].Add(-int64(wrappedSize))
}

// Load returns the group's currently live attributed bytes.
func (t *CounterTable) Load(group GroupID) int64 {
	return t.counters[group].Load()
}

var _ Tracer = (*CounterTable)(nil)
