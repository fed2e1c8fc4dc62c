package postprocess

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
	"github.com/stretchr/testify/assert"
)

func blocksModel() *problem.Model {
	return problem.New(problem.Config{
		NumAtoms: 3, // 0: on-a-table, 1: on-a-b, 2: holding-nothing
		Actions: []problem.RawAction{
			{Name: "stack-a-b", Pre: clause.Clause{0, 2}, Add: clause.Clause{1}, Del: clause.Clause{0}},
			{Name: "noop-shuffle", Pre: clause.Clause{}, Add: clause.Clause{2}},
		},
		Init: clause.Clause{0, 2},
		Goal: clause.Clause{1},
	})
}

func TestEliminateDropsRedundantSteps(t *testing.T) {
	model := blocksModel()
	stack := &model.Actions()[0]
	noop := &model.Actions()[1]

	plan := []*problem.Action{noop, stack, noop}

	reduced := Eliminate(plan, model)

	assert.Len(t, reduced, 1)
	assert.Equal(t, "stack-a-b", reduced[0].Name)
}

func TestEliminateIsIdempotent(t *testing.T) {
	model := blocksModel()
	stack := &model.Actions()[0]
	plan := []*problem.Action{stack}

	once := Eliminate(plan, model)
	twice := Eliminate(once, model)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("re-running elimination changed the plan (-once +twice):\n%s", diff)
	}
}

func TestEliminateKeepsPlanWhenNoStepIsRedundant(t *testing.T) {
	model := blocksModel()
	stack := &model.Actions()[0]
	plan := []*problem.Action{stack}

	reduced := Eliminate(plan, model)

	if diff := cmp.Diff(plan, reduced); diff != "" {
		t.Errorf("plan changed when no step was redundant (-want +got):\n%s", diff)
	}
}

// cascadeModel has a step whose only purpose is enabling a second, equally
// useless step; neither is needed once a third, independent step reaches
// the goal on its own.
func cascadeModel() *problem.Model {
	return problem.New(problem.Config{
		NumAtoms: 4, // 0: p, 1: goal, 2: r, 3: dummy
		Actions: []problem.RawAction{
			{Name: "set-r", Pre: clause.Clause{0}, Add: clause.Clause{2}},
			{Name: "use-r", Pre: clause.Clause{2}, Add: clause.Clause{3}},
			{Name: "achieve-goal", Pre: clause.Clause{0}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
}

func TestEliminateDropsACascadeOfNowUnneededSteps(t *testing.T) {
	model := cascadeModel()
	setR := &model.Actions()[0]
	useR := &model.Actions()[1]
	achieveGoal := &model.Actions()[2]

	plan := []*problem.Action{setR, useR, achieveGoal}

	reduced := Eliminate(plan, model)

	assert.Len(t, reduced, 1)
	assert.Equal(t, "achieve-goal", reduced[0].Name)
}
