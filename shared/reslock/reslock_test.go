package reslock_test

import (
	"sync"
	"testing"
	"tably/shared/reslock"

	"github.com/stretchr/testify/assert"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	locker := reslock.New()

	const workers = 32

	counter := 0

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			unlock := locker.Lock("room-1")
			defer unlock()

			// Non-atomic increment; only safe when the lock serializes access.
			counter++
		}()
	}

	wg.Wait()

	assert.Equal(t, workers, counter)
}

func TestLocker_IndependentKeysDoNotBlock(t *testing.T) {
	locker := reslock.New()

	unlockA := locker.Lock("room-a")
	defer unlockA()

	done := make(chan struct{})

	go func() {
		unlockB := locker.Lock("room-b")
		unlockB()
		close(done)
	}()

	// Must complete even though room-a is still held.
	<-done
}

func TestLocker_ReusableAfterUnlock(t *testing.T) {
	locker := reslock.New()

	unlock := locker.Lock("table-9")
	unlock()

	unlock = locker.Lock("table-9")
	unlock()
}
