package clause

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEffects(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for i := 0; i < 100; i++ {
		n := 6
		s := randomState(rng, n)
		add := randomClause(rng, n)
		del := Diff(randomClause(rng, n), add)

		out := Apply(add, del, s)

		for a := 0; a < n; a++ {
			want := add.Contains(Atom(a)) || (s[a] && !del.Contains(Atom(a)))
			assert.Equal(t, want, out[a], "atom %d", a)
		}
	}
}

func TestNegation(t *testing.T) {
	n := Negation(Clause{1, 3}, 4)

	assert.Equal(t, State{true, false, true, false}, n)
}

func TestAsClauseRoundTrip(t *testing.T) {
	s := State{false, true, false, true, true}
	assert.Equal(t, Clause{1, 3, 4}, s.AsClause())
}

func randomState(rng *rand.Rand, n int) State {
	s := make(State, n)
	for i := range s {
		s[i] = rng.IntN(2) == 1
	}
	return s
}
