package helpers

import (
	"fmt"
	"sync"
)

type PoolStats struct {
	creates int
	resets  int
	hits    int
}

func (s PoolStats) String() string {
	return fmt.Sprint("creates: ", s.creates, ", resets: ", s.resets, ", hits: ", s.hits)
}

// CreatePool builds a fixed-capacity free list. get() hands out a recycled
// value when one is available, otherwise creates a fresh one; release()
// resets a value and returns it to the list.
func CreatePool[T any](create func() T, reset func(*T)) (func() *T, func(*T), func() PoolStats) {
	availableBuffer := [256]*T{}
	startIndex := 0
	endIndex := 0

	lock := sync.Mutex{}

	creates := 0
	resets := 0
	hits := 0

	var get = func() *T {
		lock.Lock()

		if endIndex != startIndex {
			result := availableBuffer[startIndex]
			startIndex = (startIndex + 1) % 256

			lock.Unlock()

			hits++
			return result
		}

		lock.Unlock()

		creates++
		result := create()
		return &result
	}

	var release = func(t *T) {
		resets++
		reset(t)

		lock.Lock()
		if (endIndex+1)%256 != startIndex {
			availableBuffer[endIndex] = t
			endIndex = (endIndex + 1) % 256
		}
		lock.Unlock()
	}

	var stats = func() PoolStats {
		return PoolStats{creates, resets, hits}
	}

	return get, release, stats
}
