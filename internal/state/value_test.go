package state

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_GetReturnsInitial(t *testing.T) {
	v := NewValue(42)
	assert.Equal(t, 42, v.Get())
}

func TestValue_SetUpdatesCurrent(t *testing.T) {
	v := NewValue(0)
	v.Set(7)
	assert.Equal(t, 7, v.Get())
}

func TestValue_SubscriberReceivesWrite(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	got := make(chan int, 1)
	sub := v.Subscribe(func(val int) { got <- val })
	defer sub.Unsubscribe()

	v.Set(99)

	select {
	case val := <-got:
		assert.Equal(t, 99, val)
	case <-time.After(time.Second):
		t.Fatal("subscriber was never notified")
	}
}

func TestValue_NotificationIsAsynchronous(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	var delivered atomic.Bool
	sub := v.Subscribe(func(int) {
		// Reading inside the callback must not deadlock against the writer
		_ = v.Get()
		delivered.Store(true)
	})
	defer sub.Unsubscribe()

	// Set must return without waiting for the observer
	v.Set(1)

	require.Eventually(t, delivered.Load, time.Second, time.Millisecond)
}

func TestValue_BurstCoalescesToLatest(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	var last atomic.Int64
	var calls atomic.Int64
	sub := v.Subscribe(func(val int) {
		last.Store(int64(val))
		calls.Add(1)
	})
	defer sub.Unsubscribe()

	const writes = 1000
	for i := 1; i <= writes; i++ {
		v.Set(i)
	}

	require.Eventually(t, func() bool {
		return last.Load() == writes
	}, time.Second, time.Millisecond, "observer must converge on the final value")

	// Intermediate values may be dropped but never duplicated past the write count
	assert.LessOrEqual(t, calls.Load(), int64(writes))
}

func TestValue_ObserverRearmsAfterEachDelivery(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	got := make(chan int, 10)
	sub := v.Subscribe(func(val int) { got <- val })
	defer sub.Unsubscribe()

	for i := 1; i <= 3; i++ {
		v.Set(i)
		select {
		case val := <-got:
			assert.Equal(t, i, val)
		case <-time.After(time.Second):
			t.Fatalf("observer went dead after delivery %d", i-1)
		}
	}
}

func TestValue_UnsubscribeStopsDelivery(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	var calls atomic.Int64
	sub := v.Subscribe(func(int) { calls.Add(1) })

	v.Set(1)
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)

	sub.Unsubscribe()
	v.Set(2)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestValue_UnsubscribeIsIdempotent(t *testing.T) {
	v := NewValue(0)
	defer v.Close()

	sub := v.Subscribe(func(int) {})
	sub.Unsubscribe()
	assert.NotPanics(t, func() { sub.Unsubscribe() })
}

func TestValue_CloseStopsAllSubscribers(t *testing.T) {
	v := NewValue(0)

	var calls atomic.Int64
	v.Subscribe(func(int) { calls.Add(1) })
	v.Subscribe(func(int) { calls.Add(1) })

	v.Close()
	v.Set(5)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())
	assert.Equal(t, 0, v.Get(), "writes after Close are ignored")
}

func TestValue_SubscribeAfterCloseIsInert(t *testing.T) {
	v := NewValue(0)
	v.Close()

	sub := v.Subscribe(func(int) { t.Error("callback must never fire") })
	v.Set(1)
	time.Sleep(20 * time.Millisecond)
	assert.NotPanics(t, func() { sub.Unsubscribe() })
}
