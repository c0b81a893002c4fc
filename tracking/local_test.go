package tracking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentGroup_PerGoroutine(t *testing.T) {
	registry := NewRegistry()
	token, _ := registry.Acquire()

	guard := token.Enter()
	defer guard.Exit()
	assert.Equal(t, token.ID(), CurrentGroup())

	// The active-group stack is goroutine local: a concurrently running
	// goroutine starts from the default group.
	var wg sync.WaitGroup
	wg.Add(1)
	var observed GroupID
	go func() {
		defer wg.Done()
		observed = CurrentGroup()
	}()
	wg.Wait()
	assert.Equal(t, DefaultGroupID, observed)
}

func TestSuppress_Nesting(t *testing.T) {
	assert.False(t, Suppressed())

	outer := Suppress()
	assert.True(t, Suppressed())

	inner := Suppress()
	assert.True(t, Suppressed())

	inner.Release()
	assert.True(t, Suppressed())

	outer.Release()
	assert.False(t, Suppressed())
}

func TestSuppress_ReleaseIdempotent(t *testing.T) {
	guard := Suppress()
	guard.Release()
	guard.Release()
	assert.False(t, Suppressed())
}

func TestLocals_ReclaimedAfterScopesExit(t *testing.T) {
	withTracking(t)
	registry := NewRegistry()
	token, _ := registry.Acquire()
	alloc := NewGroupedAllocator(nil, NewCounterTable())

	before := localsCount()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			guard := token.Enter()
			b := alloc.Allocate(64)
			alloc.Free(b)
			guard.Exit()
		}()
	}
	wg.Wait()

	// Every goroutine drained its stack and suppression depth, so its
	// registry entry must be gone.
	assert.Equal(t, before, localsCount())
}

func TestLocals_NoEntryWhileDisabled(t *testing.T) {
	alloc := NewGroupedAllocator(nil, NewCounterTable())

	before := localsCount()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = CurrentGroup()
			_ = Suppressed()
			b := alloc.Allocate(64)
			alloc.Free(b)
		}()
	}
	wg.Wait()

	// Reads and untracked allocations never install goroutine state.
	assert.Equal(t, before, localsCount())
}
