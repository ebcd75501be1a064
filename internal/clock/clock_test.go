package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	c := NewFake(start)

	var order []string

	c.AfterFunc(5*time.Second, func() { order = append(order, "b") })
	c.AfterFunc(2*time.Second, func() { order = append(order, "a") })
	c.AfterFunc(9*time.Second, func() { order = append(order, "c") })

	c.Add(6 * time.Second)

	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, start.Add(6*time.Second), c.Now())
	assert.Equal(t, 1, c.Pending())
}

func TestFakeStop(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	fired := false
	tm := c.AfterFunc(time.Second, func() { fired = true })

	assert.True(t, tm.Stop())
	assert.False(t, tm.Stop())

	c.Add(time.Minute)

	assert.False(t, fired)
	assert.Equal(t, 0, c.Pending())
}

func TestFakeStopAfterFire(t *testing.T) {
	c := NewFake(time.Unix(0, 0))

	tm := c.AfterFunc(time.Second, func() {})

	c.Add(time.Second)

	assert.False(t, tm.Stop())
}

func TestFakeCallbackSeesDeadline(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewFake(start)

	var seen time.Time

	c.AfterFunc(3*time.Second, func() { seen = c.Now() })
	c.Add(10 * time.Second)

	assert.Equal(t, start.Add(3*time.Second), seen)
}
