// Package invariant computes a binary (unit/2-literal) invariant over a
// grounded planning problem: a set of positive clauses true in every
// reachable state, used to strengthen the extension oracle's tests.
package invariant

import "github.com/msuda/pdrplan/clause"

// BinClause is a unit-or-binary clause. L1 == L2 denotes a unit.
type BinClause struct {
	L1, L2 clause.Atom
}

// AsClause returns bc as a sorted Clause (length 1 for a unit).
func (bc BinClause) AsClause() clause.Clause {
	if bc.L1 == bc.L2 {
		return clause.Clause{bc.L1}
	}
	return clause.New([]clause.Atom{bc.L1, bc.L2})
}

// ActionSource adapts a caller's action representation into what Compute
// needs. problem.Action satisfies this via its Preconditions/Additions/
// Deletions accessors, avoiding an import cycle between problem and
// invariant.
type ActionSource interface {
	Preconditions() clause.Clause
	Additions() clause.Clause
	Deletions() clause.Clause
}

// clBox is one arena-allocated record: one side of a live unit or binary
// clause, linked into its atom's list. This replaces the intrusive
// pointer-linked ClBox list of the original engine with a bump arena
// addressed by integer index, so links are unlink-in-place without pointer
// aliasing.
type clBox struct {
	atom     clause.Atom
	otherLit clause.Atom
	otherBox int // index of the peer box for a binary; -1 for a unit
	prev     int // -1 for list head
	next     int // -1 for list tail
	alive    bool
}

// engine holds the arena and per-atom list heads during fixpoint
// computation.
type engine struct {
	n        int
	arena    []clBox
	heads    []int
	liveUnit []bool
	liveN    int // live box count, for termination diagnostics
}

func newEngine(n int) *engine {
	heads := make([]int, n)
	for i := range heads {
		heads[i] = -1
	}
	return &engine{
		n:        n,
		heads:    heads,
		liveUnit: make([]bool, n),
	}
}

func (e *engine) integrate(atom, otherLit clause.Atom, otherBox int) int {
	idx := len(e.arena)
	e.arena = append(e.arena, clBox{
		atom:     atom,
		otherLit: otherLit,
		otherBox: otherBox,
		prev:     -1,
		next:     e.heads[atom],
		alive:    true,
	})
	if e.heads[atom] != -1 {
		e.arena[e.heads[atom]].prev = idx
	}
	e.heads[atom] = idx
	e.liveN++
	return idx
}

func (e *engine) disintegrate(idx int) {
	b := &e.arena[idx]
	if !b.alive {
		return
	}
	b.alive = false
	if b.prev != -1 {
		e.arena[b.prev].next = b.next
	} else {
		e.heads[b.atom] = b.next
	}
	if b.next != -1 {
		e.arena[b.next].prev = b.prev
	}
	e.liveN--
}

func (e *engine) addUnit(x clause.Atom) int {
	idx := e.integrate(x, x, -1)
	e.liveUnit[x] = true
	return idx
}

func (e *engine) addBinary(x, y clause.Atom) {
	idx1 := e.integrate(x, y, -1)
	idx2 := e.integrate(y, x, idx1)
	e.arena[idx1].otherBox = idx2
}

// weakenUnit replaces the unit clause {x} with one binary clause {x, y} for
// every atom y that is not already a live unit.
func (e *engine) weakenUnit(idx int, x clause.Atom) {
	e.disintegrate(idx)
	e.liveUnit[x] = false
	for y := 0; y < e.n; y++ {
		ay := clause.Atom(y)
		if ay == x || e.liveUnit[ay] {
			continue
		}
		e.addBinary(x, ay)
	}
}

// weakenBinary removes a live binary clause entirely.
func (e *engine) weakenBinary(idx int) {
	b := e.arena[idx]
	e.disintegrate(b.otherBox)
	e.disintegrate(idx)
}

// existsSubset reports whether some live clause's atoms are a subset of
// target, scanning each target atom's list.
func (e *engine) existsSubset(target []clause.Atom, inTarget []bool) bool {
	for _, t := range target {
		if e.liveUnit[t] {
			return true
		}
		for idx := e.heads[t]; idx != -1; idx = e.arena[idx].next {
			b := e.arena[idx]
			if b.otherBox != -1 && inTarget[b.otherLit] {
				return true
			}
		}
	}
	return false
}

func clauseNeedsCheck(atoms []clause.Atom, pre clause.Clause) bool {
	for _, a := range atoms {
		if pre.Contains(a) {
			return false
		}
	}
	return true
}

func buildTarget(atoms []clause.Atom, add, del clause.Clause) []clause.Atom {
	t := make([]clause.Atom, 0, len(atoms)+len(del))
	for _, a := range atoms {
		if !add.Contains(a) {
			t = append(t, a)
		}
	}
	t = append(t, del...)
	return t
}

// Compute runs the watched-literal fixpoint of spec §4.3: seed one unit
// clause per distinct goal atom, then repeatedly scan, for every action,
// every live clause watching one of its added atoms, weakening any clause
// the action's regression invalidates, until a full pass removes nothing.
func Compute(goal clause.Clause, n int, actions []ActionSource) *Result {
	e := newEngine(n)
	for _, g := range goal {
		if !e.liveUnit[g] {
			e.addUnit(g)
		}
	}

	inTarget := make([]bool, n)
	passes := 0
	changed := true
	for changed {
		changed = false
		passes++
		for _, a := range actions {
			add := a.Additions()
			del := a.Deletions()
			pre := a.Preconditions()

			for _, x := range add {
				var boxes []int
				for idx := e.heads[x]; idx != -1; idx = e.arena[idx].next {
					boxes = append(boxes, idx)
				}
				for _, idx := range boxes {
					b := e.arena[idx]
					if !b.alive {
						continue
					}
					var atoms []clause.Atom
					if b.otherBox == -1 {
						atoms = []clause.Atom{x}
					} else {
						atoms = []clause.Atom{x, b.otherLit}
					}
					if !clauseNeedsCheck(atoms, pre) {
						continue
					}
					target := buildTarget(atoms, add, del)
					for _, t := range target {
						inTarget[t] = true
					}
					ok := e.existsSubset(target, inTarget)
					for _, t := range target {
						inTarget[t] = false
					}
					if !ok {
						if b.otherBox == -1 {
							e.weakenUnit(idx, x)
						} else {
							e.weakenBinary(idx)
						}
						changed = true
					}
				}
			}
		}
	}

	return &Result{clauses: e.extract(), passes: passes}
}

func (e *engine) extract() []BinClause {
	var out []BinClause
	for x := 0; x < e.n; x++ {
		for idx := e.heads[x]; idx != -1; idx = e.arena[idx].next {
			b := e.arena[idx]
			if b.otherBox == -1 {
				out = append(out, BinClause{clause.Atom(x), clause.Atom(x)})
			} else if b.otherLit > clause.Atom(x) {
				out = append(out, BinClause{clause.Atom(x), b.otherLit})
			}
		}
	}
	return out
}

// Result is the immutable outcome of Compute: the final invariant clause
// set, packed for iteration.
type Result struct {
	clauses []BinClause
	passes  int
}

// Passes reports how many full fixpoint passes Compute ran, for diagnostics.
func (r *Result) Passes() int { return r.passes }

// Size returns the number of clauses in the invariant.
func (r *Result) Size() int { return len(r.clauses) }

// Valid reports whether s satisfies every clause of the invariant; used as
// the pre-check against the start state before search begins.
func (r *Result) Valid(s clause.State) bool {
	for _, bc := range r.clauses {
		if !bc.AsClause().Satisfies(s) {
			return false
		}
	}
	return true
}

// Iterator returns a fresh iterator object over the invariant's clauses, per
// spec §9's elimination of a module-level cursor.
func (r *Result) Iterator() *Iterator {
	return &Iterator{result: r, idx: -1}
}
