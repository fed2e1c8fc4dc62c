package schedule

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/extend"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/layer"
	"github.com/msuda/pdrplan/problem"
)

func silentLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func noInvariant(n int) *invariant.Result {
	return invariant.Compute(clause.Clause{}, n, nil)
}

func newSched(model *problem.Model, cfg Config) *Scheduler {
	store := layer.New()
	store.Insert(model.TargetCondition(), 0, true, true)
	inv := noInvariant(model.N())
	oracle := extend.New(model, inv, store, extend.Options{Seed: 1})
	return New(model, store, oracle, inv, cfg, silentLog())
}

func TestRunTrivialPlanWhenStartSatisfiesGoal(t *testing.T) {
	model := problem.New(problem.Config{
		NumAtoms: 1,
		Init:     clause.Clause{0},
		Goal:     clause.Clause{0},
	})
	sched := newSched(model, Config{PhaseLimit: -1})

	res := sched.Run(context.Background())

	assert.Equal(t, OutcomeSAT, res.Outcome)
	assert.Equal(t, "Initial state satisfies the goal.\nPlan is trivial!", res.Marker)
	assert.Empty(t, res.Plan)
}

func TestRunOneStepPlan(t *testing.T) {
	model := problem.New(problem.Config{
		NumAtoms: 2,
		Actions: []problem.RawAction{
			{Name: "set-q", Pre: clause.Clause{0}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
	sched := newSched(model, Config{PhaseLimit: -1})

	res := sched.Run(context.Background())

	require.Equal(t, OutcomeSAT, res.Outcome)
	require.Len(t, res.Plan, 1)
	assert.Equal(t, "set-q", res.Plan[0].Name)
}

func TestRunPhaseCapYieldsUnresolved(t *testing.T) {
	model := problem.New(problem.Config{
		NumAtoms: 2,
		Actions: []problem.RawAction{
			{Name: "set-q", Pre: clause.Clause{0}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
	sched := newSched(model, Config{PhaseLimit: 0})

	res := sched.Run(context.Background())

	assert.Equal(t, OutcomeUnresolved, res.Outcome)
	assert.Equal(t, "UNRESOLVED: Phase limit reached!", res.Marker)
}

func TestRunUnreachableGoalIsUNSAT(t *testing.T) {
	// Two atoms, one action that only re-adds its own precondition; that
	// action is dropped by normalization (its add set empties), so no action
	// remains and the goal atom is unreachable. Repetition is detected by
	// pushing between phases, which runs only with cla_subsumption == 2.
	model := problem.New(problem.Config{
		NumAtoms: 2,
		Actions: []problem.RawAction{
			{Name: "noop-on-1", Pre: clause.Clause{1}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
	sched := newSched(model, Config{PhaseLimit: -1, ClaSubsumption: 2})

	res := sched.Run(context.Background())

	assert.NotEqual(t, OutcomeSAT, res.Outcome)
}

func TestRunIncompleteObliSurviveIsSurfacedAsUnresolved(t *testing.T) {
	model := problem.New(problem.Config{
		NumAtoms: 2,
		Actions: []problem.RawAction{
			{Name: "noop-on-1", Pre: clause.Clause{1}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
	sched := newSched(model, Config{PhaseLimit: -1, OblSurvive: 2, ClaSubsumption: 2})

	res := sched.Run(context.Background())

	if res.Outcome == OutcomeUnresolved {
		assert.Equal(t, "UNRESOLVED: repetition detected under incomplete setup!", res.Marker)
	}
}
