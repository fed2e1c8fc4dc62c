package extend

import (
	"math/rand/v2"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
)

// minimize runs the reason-clause minimization of spec §4.5 against a
// candidate blocking clause r. Level 1 is greedy deletion; level 2 adds the
// inductive fallback once an action's reason has been removed; level 3
// iterates level 1/2 to a fixpoint.
func minimize(r clause.Clause, reasonsByAction map[int]clause.Clause, model *problem.Model, level int, rng *rand.Rand) clause.Clause {
	cur := append(clause.Clause{}, r...)
	iterate := level >= 3

	for {
		before := len(cur)
		cur = minimizePass(cur, reasonsByAction, model, level, rng)
		if !iterate || len(cur) == before {
			break
		}
	}
	return cur
}

// minimizePass tries removing each literal of r, in a random order, keeping
// the removal only if every action's reason set still has a representative
// in what remains.
func minimizePass(r clause.Clause, reasonsByAction map[int]clause.Clause, model *problem.Model, level int, rng *rand.Rand) clause.Clause {
	atoms := append(clause.Clause{}, r...)
	rng.Shuffle(len(atoms), func(i, j int) { atoms[i], atoms[j] = atoms[j], atoms[i] })

	cur := append(clause.Clause{}, r...)
	for _, l := range atoms {
		candidate := clause.Diff(cur, clause.Clause{l})
		if representedByEvery(candidate, reasonsByAction, model, level) {
			cur = candidate
		}
	}
	return clause.New(cur)
}

// representedByEvery reports whether every action that contributed a
// reason still has a witness in candidate. At level >= 2, an action whose
// add set cannot touch candidate at all is also accepted (the "inductive
// reason": the action cannot add any literal of r, so it can't threaten the
// clause's induction regardless of which reason atom survives). An empty
// candidate is never accepted.
func representedByEvery(candidate clause.Clause, reasonsByAction map[int]clause.Clause, model *problem.Model, level int) bool {
	if len(candidate) == 0 {
		return false
	}
	for key, reasons := range reasonsByAction {
		if len(clause.Intersect(reasons, candidate)) > 0 {
			continue
		}
		if level >= 2 && key >= 0 {
			a := &model.Actions()[key]
			if len(clause.Intersect(a.Add, candidate)) == 0 {
				continue
			}
		}
		return false
	}
	return true
}
