package extend

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/layer"
	"github.com/msuda/pdrplan/problem"
	"github.com/stretchr/testify/assert"
)

func oneStepModel() *problem.Model {
	return problem.New(problem.Config{
		NumAtoms: 2,
		Actions: []problem.RawAction{
			{Name: "set-q", Pre: clause.Clause{0}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
}

func emptyInvariant() *invariant.Result {
	return invariant.Compute(clause.Clause{}, 2, nil)
}

func TestExtendFindsApplicableAction(t *testing.T) {
	model := oneStepModel()
	store := layer.New()
	store.Insert(clause.Clause{1}, 0, true, true)

	o := New(model, emptyInvariant(), store, Options{MinimizeLevel: 0, Seed: 1})

	res := o.Extend(0, model.StartState())

	assert.Equal(t, EXTEND, res.Kind)
	assert.Equal(t, "set-q", res.Action.Name)
	assert.True(t, res.Successor[1])
}

func TestExtendBlocksWhenNoActionIsApplicable(t *testing.T) {
	model := oneStepModel()
	store := layer.New()
	store.Insert(clause.Clause{1}, 0, true, true)

	o := New(model, emptyInvariant(), store, Options{MinimizeLevel: 0, Seed: 1})

	// Atom 0 (the only action's precondition) is false, so set-q cannot
	// apply at all.
	res := o.Extend(0, clause.State{false, false})

	assert.Equal(t, BLOCK, res.Kind)
	assert.True(t, res.Reason.Contains(0))
	assert.False(t, res.Reason.Satisfies(clause.State{false, false}))
}

func TestUselessActionIsSkipped(t *testing.T) {
	model := problem.New(problem.Config{
		NumAtoms: 1,
		Actions: []problem.RawAction{
			{Name: "noop-ish", Pre: clause.Clause{}, Add: clause.Clause{0}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{0},
	})
	store := layer.New()
	o := New(model, emptyInvariant(), store, Options{Seed: 2})

	s := clause.State{true}
	outcome, _, _ := o.tryAction(0, s, &model.Actions()[0])

	assert.Equal(t, outcomeSkip, outcome)
}

func TestBuildBlockClausePrefersSharedAtoms(t *testing.T) {
	// The single-reason action is processed first (smallest buffer), fixing
	// atom 2 into u; the second action's buffer already contains 2, so it
	// should be reused rather than adding atom 3.
	reasons := map[int]clause.Clause{
		0: {2},
		1: {2, 3},
	}
	r := buildBlockClause(reasons)

	if diff := cmp.Diff(clause.Clause{2}, r); diff != "" {
		t.Errorf("block clause mismatch (-want +got):\n%s", diff)
	}
}

func TestMinimizeDropsRedundantAtoms(t *testing.T) {
	model := oneStepModel()
	reasons := map[int]clause.Clause{
		0: {0, 1},
	}
	rng := rand.New(rand.NewPCG(3, 4))
	r := minimize(clause.Clause{0, 1}, reasons, model, 2, rng)

	assert.True(t, len(r) >= 1 && len(r) <= 2)
	assert.True(t, len(clause.Intersect(reasons[0], r)) > 0)
}
