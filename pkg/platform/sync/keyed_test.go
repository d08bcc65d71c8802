package sync

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	counter := 0
	var wg sync.WaitGroup
	for range 200 {
		wg.Go(func() {
			_ = m.Do("companies/acme/bookings/b1", func() error {
				counter++
				return nil
			})
		})
	}
	wg.Wait()

	assert.Equal(t, 200, counter)
}

func TestKeyedMutexDoReturnsError(t *testing.T) {
	m := NewKeyedMutex()
	boom := errors.New("boom")

	require.ErrorIs(t, m.Do("k", func() error { return boom }), boom)

	// the lock is released after an error
	unlock := m.Lock("k")
	unlock()
}

func TestKeyedMutexSpreadsKeys(t *testing.T) {
	seen := map[int]bool{}
	for i := range 16 {
		seen[shardOf(fmt.Sprintf("bookings/b%d", i))] = true
	}
	assert.GreaterOrEqual(t, len(seen), 4)
	assert.Equal(t, 0, shardOf(""))
	assert.Equal(t, shardOf("same"), shardOf("same"))
}
