package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBreaker(t *testing.T) {
	t.Run("opens after consecutive failures", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(2))

		open, change := b.RecordFailure()
		assert.False(t, open)
		assert.False(t, change.Opened)

		open, change = b.RecordFailure()
		assert.True(t, open)
		assert.True(t, change.Opened)
		assert.Equal(t, StateOpen, b.State())

		_, change = b.RecordFailure()
		assert.False(t, change.Opened, "already open")
	})

	t.Run("a success resets the failure streak", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(2))
		b.RecordFailure()
		b.RecordSuccess()
		open, _ := b.RecordFailure()
		assert.False(t, open)
	})

	t.Run("closes after consecutive successes", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(1), WithSuccessThreshold(2))
		b.RecordFailure()

		closed, _ := b.RecordSuccess()
		assert.False(t, closed)
		b.RecordFailure()
		closed, _ = b.RecordSuccess()
		assert.False(t, closed, "failure restarts the success streak")

		closed, change := b.RecordSuccess()
		assert.True(t, closed)
		assert.True(t, change.Closed)
		assert.Equal(t, "closed", b.State().String())
	})

	t.Run("reset closes", func(t *testing.T) {
		b := New("kafka", WithFailureThreshold(1))
		b.RecordFailure()
		b.Reset()
		assert.Equal(t, StateClosed, b.State())
	})
}
