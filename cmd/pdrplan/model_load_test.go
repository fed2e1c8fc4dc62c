package main

import (
	"os"
	"strings"
	"testing"

	"github.com/msuda/pdrplan/clause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOperatorsReadsBlocks(t *testing.T) {
	index := map[string]int{"p": 0, "q": 1}
	src := strings.NewReader(
		"ACTION set-q\nPRE p\nADD q\n\nACTION clear-p\nDEL p\n")

	actions, err := parseOperators(src, index)
	require.NoError(t, err)
	require.Len(t, actions, 2)

	assert.Equal(t, "set-q", actions[0].Name)
	assert.Equal(t, atomInts(0), atomInts(actions[0].Pre...))
	assert.Equal(t, atomInts(1), atomInts(actions[0].Add...))

	assert.Equal(t, "clear-p", actions[1].Name)
	assert.Equal(t, atomInts(0), atomInts(actions[1].Del...))
}

func TestReadFactsAssignsIndicesInDeclarationOrder(t *testing.T) {
	path := writeTemp(t, "FACT p\nFACT q\nINIT p\nGOAL q\n")

	names, init, goal, err := readFacts(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"p", "q"}, names)
	assert.Equal(t, clause.Clause{0}, init)
	assert.Equal(t, clause.Clause{1}, goal)
}

func atomInts(atoms ...clause.Atom) []int {
	out := make([]int, len(atoms))
	for i, a := range atoms {
		out[i] = int(a)
	}
	return out
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "facts-*.txt")
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(content)
	require.NoError(t, err)
	return f.Name()
}
