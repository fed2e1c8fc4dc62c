package cnf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invariantFor(m *problem.Model) *invariant.Result {
	acts := m.Actions()
	sources := make([]invariant.ActionSource, len(acts))
	for i := range acts {
		sources[i] = &acts[i]
	}
	return invariant.Compute(m.TargetCondition(), m.N(), sources)
}

func oneStepModel() *problem.Model {
	return problem.New(problem.Config{
		NumAtoms:  2,
		FactNames: []string{"p", "q"},
		Actions: []problem.RawAction{
			{Name: "set-q", Pre: clause.Clause{0}, Add: clause.Clause{1}},
		},
		Init: clause.Clause{0},
		Goal: clause.Clause{1},
	})
}

func TestTranslateEmitsAllSections(t *testing.T) {
	m := oneStepModel()
	var buf bytes.Buffer

	err := Translate(m, Options{Horizon: 1, Encoding: Sequential}, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "c FACT 1 p")
	assert.Contains(t, out, "c ACTION 1 set-q")
	assert.True(t, strings.Contains(out, "i cnf "))
	assert.True(t, strings.Contains(out, "g cnf "))
	assert.True(t, strings.Contains(out, "t cnf "))
	assert.False(t, strings.Contains(out, "u cnf "))
}

func TestTranslateWithInvariantEmitsUSection(t *testing.T) {
	m := oneStepModel()
	inv := invariantFor(m)
	var buf bytes.Buffer

	err := Translate(m, Options{Horizon: 1, Encoding: Parallel, Inv: inv}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "u cnf ")
}
