package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionLocksSerializePerAction(t *testing.T) {
	locks := NewActionLocks()

	// Same id always resolves to the same mutex
	unlock := locks.Lock("action-1")
	unlock()
	unlock = locks.Lock("action-1")
	unlock()
	assert.Len(t, locks.locks, 1)

	// Holding one action's lock must not block another action
	unlockA := locks.Lock("action-a")
	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock("action-b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()
}

func TestActionLocksUnderContention(t *testing.T) {
	locks := NewActionLocks()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("action-1")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Len(t, locks.locks, 1)
}
