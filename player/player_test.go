package player

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LukeAtkinz/matchcore/clock"
)

func TestOrderingIsSkillThenID(t *testing.T) {
	clk := clock.NewFake()
	a := New(1, 1000, clk)
	b := New(2, 1000, clk)
	c := New(3, 999, clk)

	assert.True(t, a.Less(b), "lower id wins on equal skill")
	assert.False(t, b.Less(a))
	assert.True(t, c.Less(a), "lower skill always wins")
}

func TestEqualityIsByIDOnly(t *testing.T) {
	clk := clock.NewFake()
	a := New(1, 1000, clk)
	b := New(1, 2000, clk)
	assert.True(t, a.Equal(b))
}

func TestWaitTimeBeforeAndAfterExit(t *testing.T) {
	clk := clock.NewFake()
	p := New(1, 1000, clk)

	clk.Advance(10)
	assert.Equal(t, 10.0, p.WaitTime())

	clk.Advance(5)
	p.MarkExited()
	assert.True(t, p.Dequeued())
	assert.Equal(t, 15.0, p.WaitTime())

	clk.Advance(100)
	assert.Equal(t, 15.0, p.WaitTime(), "wait time frozen once dequeued")
}

func TestToRecordReflectsCurrentState(t *testing.T) {
	clk := clock.NewFake()
	p := New(7, 1500, clk)
	clk.Advance(3)

	r := p.ToRecord()
	assert.Equal(t, 7, r.ID)
	assert.Equal(t, 1500, r.Skill)
	assert.Equal(t, 3.0, r.WaitTime)
}
