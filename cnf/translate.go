// Package cnf emits the bounded-horizon SAT encoding of spec §6: a
// DIMACS-like wire format with tagged sections (c/i/g/t/u), written the
// way the teacher's encoding package reads DIMACS, just in reverse.
package cnf

import (
	"bufio"
	"fmt"
	"io"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/problem"
)

// Encoding selects the transition encoding used per horizon step.
type Encoding int

const (
	Sequential Encoding = iota
	Parallel
)

// blockClause is one output clause: a disjunction of signed DIMACS
// literals, written positive-atom-number-or-its-negation.
type blockClause []int

// Options configures a single Translate call.
type Options struct {
	Horizon  int
	Encoding Encoding
	Inv      *invariant.Result // nil disables the "u" section
}

// Translate writes model's bounded-horizon encoding to w, per spec §6's
// wire format. Variable numbering is per-step-local: within step t, atoms
// are 1..N, actions are N+1..N+A, and next-state atoms N+A+1..N+A+N; the
// global variable for an atom at time t is t*(N+A) + atom + 1, chaining
// each step's next-state atoms onto the following step's state atoms.
func Translate(m *problem.Model, opts Options, w io.Writer) error {
	bw := bufio.NewWriter(w)

	n := m.N()
	a := len(m.Actions())
	step := n + a
	h := opts.Horizon
	totalVars := (h+1)*n + h*a

	stateVar := func(t, atom int) int { return t*step + atom + 1 }
	actionVar := func(t, act int) int { return t*step + n + act + 1 }

	writeComments(bw, m)

	writeSection(bw, "i", totalVars, initialClauses(m, stateVar))
	writeSection(bw, "g", totalVars, goalClauses(m, h, stateVar))

	var transClauses []blockClause
	for t := 0; t < h; t++ {
		switch opts.Encoding {
		case Parallel:
			transClauses = append(transClauses, parallelStep(m, t, stateVar, actionVar)...)
		default:
			transClauses = append(transClauses, sequentialStep(m, t, stateVar, actionVar)...)
		}
	}
	writeSection(bw, "t", totalVars, transClauses)

	if opts.Inv != nil {
		var invClauses []blockClause
		for t := 0; t <= h; t++ {
			it := opts.Inv.Iterator()
			for it.Next(); !it.Done(); it.Next() {
				bc := it.Current()
				if bc.L1 == bc.L2 {
					invClauses = append(invClauses, blockClause{stateVar(t, int(bc.L1))})
					continue
				}
				invClauses = append(invClauses, blockClause{stateVar(t, int(bc.L1)), stateVar(t, int(bc.L2))})
			}
		}
		writeSection(bw, "u", totalVars, invClauses)
	}

	return bw.Flush()
}

func writeComments(bw *bufio.Writer, m *problem.Model) {
	fmt.Fprintf(bw, "c pdrplan CNF export, %d atoms, %d actions\n", m.N(), len(m.Actions()))
	for i := 0; i < m.N(); i++ {
		if name := m.FactName(clause.Atom(i)); name != "" {
			fmt.Fprintf(bw, "c FACT %d %s\n", i+1, name)
		}
	}
	for j, act := range m.Actions() {
		fmt.Fprintf(bw, "c ACTION %d %s\n", j+1, act.Name)
	}
}

func writeSection(bw *bufio.Writer, tag string, v int, clauses []blockClause) {
	fmt.Fprintf(bw, "%s cnf %d %d\n", tag, v, len(clauses))
	for _, c := range clauses {
		for _, lit := range c {
			fmt.Fprintf(bw, "%d ", lit)
		}
		fmt.Fprint(bw, "0\n")
	}
}

func initialClauses(m *problem.Model, stateVar func(t, atom int) int) []blockClause {
	s := m.StartState()
	out := make([]blockClause, 0, m.N())
	for i, v := range s {
		lit := stateVar(0, i)
		if !v {
			lit = -lit
		}
		out = append(out, blockClause{lit})
	}
	return out
}

func goalClauses(m *problem.Model, h int, stateVar func(t, atom int) int) []blockClause {
	out := make([]blockClause, 0, len(m.TargetCondition()))
	for _, atom := range m.TargetCondition() {
		out = append(out, blockClause{stateVar(h, int(atom))})
	}
	return out
}

// sequentialStep emits the sequential encoding: an at-least-one clause over
// the step's action variables, plus, for each action, its
// precondition/effect implications, plus, for each atom, frame clauses
// allowing it to change only through an action that adds or deletes it. No
// at-most-one clause is emitted, so several actions may be true in one step.
func sequentialStep(m *problem.Model, t int, stateVar, actionVar func(t, i int) int) []blockClause {
	var out []blockClause

	atLeastOne := make(blockClause, 0, len(m.Actions()))
	for j := range m.Actions() {
		atLeastOne = append(atLeastOne, actionVar(t, j))
	}
	out = append(out, atLeastOne)

	for j, act := range m.Actions() {
		av := actionVar(t, j)
		for _, p := range act.Pre {
			out = append(out, blockClause{-av, stateVar(t, int(p))})
		}
		for _, add := range act.Add {
			out = append(out, blockClause{-av, stateVar(t+1, int(add))})
		}
		for _, del := range act.Del {
			out = append(out, blockClause{-av, -stateVar(t+1, int(del))})
		}
	}

	for i := 0; i < m.N(); i++ {
		var supporters, deleters blockClause
		for j, act := range m.Actions() {
			if act.Add.Contains(clause.Atom(i)) {
				supporters = append(supporters, actionVar(t, j))
			}
			if act.Del.Contains(clause.Atom(i)) {
				deleters = append(deleters, actionVar(t, j))
			}
		}
		// classical frame axiom: an atom flips false->true only via a
		// supporting action, true->false only via a deleting action.
		becomeTrue := append(blockClause{-stateVar(t+1, i), stateVar(t, i)}, supporters...)
		becomeFalse := append(blockClause{stateVar(t+1, i), -stateVar(t, i)}, deleters...)
		out = append(out, becomeTrue, becomeFalse)
	}

	return out
}

// parallelStep emits sequentialStep's clauses, including the same frame
// clauses, and additionally forbids interfering action pairs from firing
// together (one deletes the other's precondition or add).
func parallelStep(m *problem.Model, t int, stateVar, actionVar func(t, i int) int) []blockClause {
	out := sequentialStep(m, t, stateVar, actionVar)

	acts := m.Actions()
	for j := range acts {
		for k := j + 1; k < len(acts); k++ {
			if interferes(&acts[j], &acts[k]) {
				out = append(out, blockClause{-actionVar(t, j), -actionVar(t, k)})
			}
		}
	}
	return out
}

func interferes(a, b *problem.Action) bool {
	touches := func(x, y *problem.Action) bool {
		for _, d := range x.Del {
			if y.Pre.Contains(d) || y.Add.Contains(d) {
				return true
			}
		}
		return false
	}
	return touches(a, b) || touches(b, a)
}
