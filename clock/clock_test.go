package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakeClockAdvancesAndResets(t *testing.T) {
	c := NewFake()
	assert.Equal(t, 0.0, c.Now())

	c.Advance(5)
	assert.Equal(t, 5.0, c.Now())

	c.Reset()
	assert.Equal(t, 0.0, c.Now())
}

func TestFakeClockSetPinsExactValue(t *testing.T) {
	c := NewFake()
	c.Set(100)
	assert.Equal(t, 100.0, c.Now())
}

func TestFakeClockAdvancePanicsOnNegativeDelta(t *testing.T) {
	c := NewFake()
	assert.Panics(t, func() { c.Advance(-1) })
}

func TestSystemClockIsNonDecreasing(t *testing.T) {
	c := NewSystem()
	first := c.Now()
	second := c.Now()
	assert.GreaterOrEqual(t, second, first)
}
