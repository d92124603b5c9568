package autosave

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testDelay = 100 * time.Millisecond

func counter() (*atomic.Int32, func()) {
	var n atomic.Int32
	return &n, func() { n.Add(1) }
}

func TestTrigger_CoalescesBurst(t *testing.T) {
	n, fn := counter()
	d := New(testDelay, fn)
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(testDelay / 10)
	}
	assert.Equal(t, int32(0), n.Load(), "no run while changes keep arriving")

	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(1), n.Load(), "a burst is a single run")
	assert.False(t, d.Pending())
}

func TestTrigger_SeparateBursts(t *testing.T) {
	n, fn := counter()
	d := New(testDelay, fn)
	defer d.Stop()

	d.Trigger()
	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
	d.Trigger()
	assert.Eventually(t, func() bool { return n.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestFlush(t *testing.T) {
	n, fn := counter()
	d := New(time.Hour, fn)
	defer d.Stop()

	assert.False(t, d.Flush(), "nothing pending")

	d.Trigger()
	assert.True(t, d.Pending())
	assert.True(t, d.Flush())
	assert.Equal(t, int32(1), n.Load())
	assert.False(t, d.Pending())
}

func TestStop_CancelsPending(t *testing.T) {
	n, fn := counter()
	d := New(testDelay, fn)

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(3 * testDelay)
	assert.Equal(t, int32(0), n.Load())
	assert.False(t, d.Flush())
}

func TestNew_DefaultDelay(t *testing.T) {
	d := New(0, func() {})
	assert.Equal(t, DefaultDelay, d.delay)
}

func TestCancel_KeepsDebouncerUsable(t *testing.T) {
	n, fn := counter()
	d := New(testDelay, fn)
	defer d.Stop()

	d.Trigger()
	d.Cancel()
	assert.False(t, d.Pending())
	time.Sleep(2 * testDelay)
	assert.Equal(t, int32(0), n.Load(), "cancelled run never fires")

	d.Trigger()
	assert.Eventually(t, func() bool { return n.Load() == 1 }, time.Second, 5*time.Millisecond)
}
