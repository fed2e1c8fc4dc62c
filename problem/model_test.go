package problem

import (
	"testing"

	"github.com/msuda/pdrplan/clause"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEliminatesDelAddAndAddPre(t *testing.T) {
	a, ok := normalize("op", clause.Clause{0}, clause.Clause{0, 1, 2}, clause.Clause{2, 3})

	assert.True(t, ok)
	assert.Equal(t, clause.Clause{1, 2}, a.Add)
	assert.Equal(t, clause.Clause{3}, a.Del)
}

func TestNormalizeDropsEmptyAdd(t *testing.T) {
	_, ok := normalize("op", clause.Clause{0}, clause.Clause{0}, clause.Clause{})
	assert.False(t, ok)
}

func TestReverseModeSwapsPreconditionsAndDeletes(t *testing.T) {
	cfg := Config{
		NumAtoms: 2,
		Actions: []RawAction{
			{Name: "a", Pre: clause.Clause{0}, Add: clause.Clause{1}, Del: clause.Clause{0}},
		},
		Init:    clause.Clause{0},
		Goal:    clause.Clause{1},
		Reverse: true,
	}
	m := New(cfg)

	assert.True(t, m.Reverse())
	assert.Equal(t, clause.State{false, true}, m.StartState())
	assert.Equal(t, clause.Clause{0}, m.TargetCondition())

	a := m.Actions()[0]
	assert.Equal(t, clause.Clause{0}, a.Pre)
	assert.Equal(t, clause.Clause{1}, a.Add)
}

func TestApplicableAndApply(t *testing.T) {
	a := Action{Pre: clause.Clause{0}, Add: clause.Clause{1}, Del: clause.Clause{0}}
	s := clause.State{true, false}

	assert.True(t, a.Applicable(s))

	out := a.Apply(s)
	assert.Equal(t, clause.State{false, true}, out)
}

func TestSatisfiesTargetTrivialCase(t *testing.T) {
	m := New(Config{
		NumAtoms: 1,
		Init:     clause.Clause{0},
		Goal:     clause.Clause{0},
	})

	assert.True(t, m.SatisfiesTarget(m.StartState()))
}
