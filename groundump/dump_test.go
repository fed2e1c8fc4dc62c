package groundump

import (
	"bytes"
	"testing"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModel() *problem.Model {
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

func TestDumpOperatorsNamesFactsByModelTable(t *testing.T) {
	m := sampleModel()
	var buf bytes.Buffer
	require.NoError(t, DumpOperators(m, Options{Index: 3}, &buf))

	out := buf.String()
	assert.Contains(t, out, "(:action set-q")
	assert.Contains(t, out, ":precondition (and p)")
	assert.Contains(t, out, ":effect (and q)")
}

func TestDumpFactsWithoutDummy(t *testing.T) {
	m := sampleModel()
	var buf bytes.Buffer
	require.NoError(t, DumpFacts(m, Options{Index: 3}, &buf))

	out := buf.String()
	assert.NotContains(t, out, "(dummy)")
	assert.Contains(t, out, "(:init p)")
}

func TestDumpFactsWithDummy(t *testing.T) {
	m := sampleModel()
	var buf bytes.Buffer
	require.NoError(t, DumpFacts(m, Options{Index: 3, EmitDummyFact: true}, &buf))

	assert.Contains(t, buf.String(), "(dummy)")
}
