package tracking

// ScopeGuard pops a group id pushed by Token.Enter. Exit is idempotent so a
// deferred call and an explicit early call can coexist; the pop itself
// happens exactly once. Exiting scopes out of order panics, since an
// interleaved exit would silently misattribute every later allocation on the
// goroutine.
type ScopeGuard struct {
	local *localContext
	id    GroupID
	done  bool
}

// Exit pops the guarded group from the calling goroutine's active-group
// stack, restoring the previously entered group.
func (g *ScopeGuard) Exit() {
	if g == nil || g.done {
		return
	}
	g.done = true
	g.local.pop(g.id)
}

// SuppressGuard marks the calling goroutine as inside tracking machinery.
// While any suppression is held, the wrapping allocator performs no tracing
// for allocations on that goroutine, which is what prevents a tracer's own
// allocations from recursing into the tracer.
type SuppressGuard struct {
	local *localContext
	done  bool
}

// Suppress raises the suppression depth on the calling goroutine and
// returns the guard that lowers it. Suppression nests.
func Suppress() *SuppressGuard {
	l := current()
	l.beginSuppress()
	return &SuppressGuard{local: l}
}

// Release lowers the suppression depth. Safe to call more than once;
// releases happen exactly once per guard.
func (g *SuppressGuard) Release() {
	if g == nil || g.done {
		return
	}
	g.done = true
	g.local.endSuppress()
}
