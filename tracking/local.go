package tracking

import (
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// enabled is the process-wide switch gating whether the wrapping allocator
// performs any tracking. It starts off; allocations made before Enable are
// permanently unaccounted.
var enabled atomic.Bool

// Enable turns allocation tracking on. It is expected to be called once the
// counter table and the reporting loop are in place; the root service does
// this as the last step of its startup.
func Enable() {
	enabled.Store(true)
}

// Disable turns allocation tracking off. Allocations stamped while tracking
// was on are still subtracted from their group on free, so counters drain
// back to zero rather than sticking.
func Disable() {
	enabled.Store(false)
}

// Enabled reports whether allocation tracking is on.
func Enabled() bool {
	return enabled.Load()
}

// localContext holds the per-goroutine tracking state: the active-group
// stack and the suppression depth. Each goroutine owns exactly one instance,
// so no field needs synchronisation.
type localContext struct {
	gid      int64
	stack    []GroupID
	suppress int
}

// locals maps goroutine id to its tracking context. Goroutine ids are never
// reused, so an entry is installed only when a goroutine actually holds
// tracking state and is removed again once its stack and suppression depth
// drain to zero; reads on the bypass paths never insert.
var locals sync.Map

// lookup returns the calling goroutine's tracking context, or nil when the
// goroutine holds no tracking state. It never inserts.
func lookup() *localContext {
	if v, ok := locals.Load(goid.Get()); ok {
		return v.(*localContext)
	}
	return nil
}

// current returns the calling goroutine's tracking context, creating it
// when absent.
func current() *localContext {
	id := goid.Get()
	if v, ok := locals.Load(id); ok {
		return v.(*localContext)
	}
	v, _ := locals.LoadOrStore(id, &localContext{gid: id, stack: make([]GroupID, 0, 8)})
	return v.(*localContext)
}

// CurrentGroup returns the group a tracked allocation on the calling
// goroutine would be attributed to right now: the top of the active-group
// stack, or the default group when no scope is entered.
func CurrentGroup() GroupID {
	if l := lookup(); l != nil {
		return l.top()
	}
	return DefaultGroupID
}

// Suppressed reports whether tracking is suppressed on the calling
// goroutine.
func Suppressed() bool {
	l := lookup()
	return l != nil && l.suppress > 0
}

func (l *localContext) top() GroupID {
	if n := len(l.stack); n > 0 {
		return l.stack[n-1]
	}
	return DefaultGroupID
}

func (l *localContext) push(id GroupID) {
	l.stack = append(l.stack, id)
}

func (l *localContext) pop(id GroupID) {
	n := len(l.stack)
	if n == 0 {
		panic("alloctrack: allocation group stack underflow")
	}
	if l.stack[n-1] != id {
		panic("alloctrack: allocation group scope exited out of order")
	}
	l.stack = l.stack[:n-1]
	l.maybeReclaim()
}

func (l *localContext) beginSuppress() {
	l.suppress++
}

func (l *localContext) endSuppress() {
	if l.suppress == 0 {
		panic("alloctrack: suppression released more times than acquired")
	}
	l.suppress--
	l.maybeReclaim()
}

// maybeReclaim removes the goroutine's registry entry once it carries no
// state, so contexts of long-gone goroutines do not accumulate.
func (l *localContext) maybeReclaim() {
	if len(l.stack) == 0 && l.suppress == 0 {
		locals.Delete(l.gid)
	}
}

// localsCount reports how many goroutines currently hold tracking state.
func localsCount() int {
	count := 0
	locals.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}
