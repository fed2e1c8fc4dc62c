// Package extend implements the PDR extension oracle (C5): given a layer
// index and a state, it decides EXTEND, SIDESTEP, or BLOCK, and on BLOCK
// constructs a generalized blocking clause.
package extend

import (
	"math/rand/v2"
	"sort"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/layer"
	"github.com/msuda/pdrplan/problem"
)

// Kind is the three-way outcome of Extend.
type Kind int

const (
	// EXTEND: some action's successor satisfies layer k.
	EXTEND Kind = iota
	// SIDESTEP: no full extension exists, but some action reduces the
	// number of violated clauses at layer k while staying within k+1.
	SIDESTEP
	// BLOCK: no extension possible; Reason carries the blocking clause.
	BLOCK
)

// Result is the outcome of a single Extend call.
type Result struct {
	Kind      Kind
	Action    *problem.Action
	Successor clause.State
	Reason    clause.Clause
}

// Options configures an Oracle per the §6 configuration flags that govern
// C5's behavior.
type Options struct {
	Sidestep      bool
	MinimizeLevel int // 0-3, see minimize.go
	QuickReason   int // 0, 1 or 2
	Seed          uint64
}

// Oracle is the extension oracle for one solver run, owning the per-layer
// action orderings the teacher's order.Order generalizes into.
type Oracle struct {
	model *problem.Model
	inv   *invariant.Result
	store *layer.Store
	opts  Options
	rng   *rand.Rand
	heaps map[int]*actionHeap
}

// New returns an Oracle bound to model, the computed invariant, and the
// live layer store.
func New(model *problem.Model, inv *invariant.Result, store *layer.Store, opts Options) *Oracle {
	return &Oracle{
		model: model,
		inv:   inv,
		store: store,
		opts:  opts,
		rng:   rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		heaps: map[int]*actionHeap{},
	}
}

func (o *Oracle) orderFor(k int) *actionHeap {
	h, ok := o.heaps[k]
	if !ok {
		h = newActionHeap(len(o.model.Actions()))
		o.heaps[k] = h
	}
	return h
}

// actionOutcome is the three-way per-action verdict used to replace the
// original engine's goto-based early exit, directly modeled on the teacher
// Clause.propagate's single bool outcome generalized to a three-way result.
type actionOutcome int

const (
	outcomePlausible actionOutcome = iota
	outcomeBlocked
	outcomeSkip
)

// tryAction tests one action against (k, s) and reports its outcome. On
// outcomeBlocked it also returns the reasons contributed (atoms that must
// stay false in s for the action to remain disqualified).
func (o *Oracle) tryAction(k int, s clause.State, a *problem.Action) (actionOutcome, clause.State, clause.Clause) {
	if addsNothingNew(a, s) {
		return outcomeSkip, nil, nil
	}
	if !a.Applicable(s) {
		reasons := clause.Clause{}
		for _, p := range a.Pre {
			if !s[p] {
				reasons = append(reasons, p)
			}
		}
		return outcomeBlocked, nil, clause.New(reasons)
	}

	succ := a.Apply(s)
	if o.store.IsLayerState(k, succ) && o.inv.Valid(succ) {
		return outcomePlausible, succ, nil
	}

	reasons := clause.Clause{}
	for _, c := range o.store.ClausesAt(k) {
		if !c.Satisfies(succ) {
			reasons = append(reasons, firstFalse(c, s))
			if o.opts.QuickReason > 0 {
				break
			}
		}
	}
	return outcomeBlocked, succ, clause.New(reasons)
}

func addsNothingNew(a *problem.Action, s clause.State) bool {
	for _, x := range a.Add {
		if !s[x] {
			return false
		}
	}
	return true
}

func firstFalse(c clause.Clause, s clause.State) clause.Atom {
	for _, a := range c {
		if !s[a] {
			return a
		}
	}
	return c[0]
}

func falseClauseCount(store *layer.Store, k int, s clause.State) int {
	n := 0
	for _, c := range store.ClausesAt(k) {
		if !c.Satisfies(s) {
			n++
		}
	}
	return n
}

// Extend decides EXTEND/SIDESTEP/BLOCK for (k, s), per spec §4.5.
func (o *Oracle) Extend(k int, s clause.State) Result {
	order := o.orderFor(k)
	reasonsByAction := map[int]clause.Clause{}

	var sidestepIdx = -1
	var sidestepSucc clause.State

	for _, idx := range order.Order() {
		a := &o.model.Actions()[idx]
		outcome, succ, reasons := o.tryAction(k, s, a)

		switch outcome {
		case outcomeSkip:
			continue
		case outcomePlausible:
			order.PromoteToFront(idx)
			return Result{Kind: EXTEND, Action: a, Successor: succ}
		case outcomeBlocked:
			reasonsByAction[idx] = reasons
			if o.opts.Sidestep && sidestepIdx == -1 && succ != nil &&
				falseClauseCount(o.store, k, succ) < falseClauseCount(o.store, k, s) &&
				o.store.IsLayerState(k+1, succ) {
				sidestepIdx = idx
				sidestepSucc = succ
			}
		}
	}

	if sidestepIdx != -1 {
		a := &o.model.Actions()[sidestepIdx]
		return Result{Kind: SIDESTEP, Action: a, Successor: sidestepSucc}
	}

	noop := clause.Clause{}
	for _, c := range o.store.ClausesAt(k) {
		if !c.Satisfies(s) {
			noop = append(noop, firstFalse(c, s))
		}
	}
	reasonsByAction[-1] = clause.New(noop)

	r := buildBlockClause(reasonsByAction)
	if o.opts.MinimizeLevel > 0 {
		r = minimize(r, reasonsByAction, o.model, o.opts.MinimizeLevel, o.rng)
	}
	order.RecordBlockScores(reasonsByAction)

	return Result{Kind: BLOCK, Reason: r}
}

// Inductive implements layer.Pusher: c is inductive relative to k when no
// action, applied to the negation-as-state of c, has a successor that
// satisfies delta[k] ∪ derived[k] ∪ invariant; per the literal wording of
// spec §4.4's push contract.
func (o *Oracle) Inductive(k int, c clause.Clause) bool {
	s := clause.Negation(c, o.model.N())

	for i := range o.model.Actions() {
		a := &o.model.Actions()[i]
		if !a.Applicable(s) {
			continue
		}
		succ := a.Apply(s)
		if o.store.IsLayerState(k, succ) && o.inv.Valid(succ) {
			return false
		}
	}
	return true
}

// buildBlockClause implements the union-of-one-reason-per-action
// construction of spec §4.5: actions are visited smallest-reason-set first,
// and at each step the reason already present in u (if any) is chosen over
// a fresh one, to keep the resulting clause as small as possible.
func buildBlockClause(reasonsByAction map[int]clause.Clause) clause.Clause {
	type entry struct {
		key     int
		reasons clause.Clause
	}
	entries := make([]entry, 0, len(reasonsByAction))
	for k, r := range reasonsByAction {
		entries = append(entries, entry{k, r})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].reasons) != len(entries[j].reasons) {
			return len(entries[i].reasons) < len(entries[j].reasons)
		}
		return entries[i].key < entries[j].key
	})

	u := map[clause.Atom]bool{}
	for _, e := range entries {
		if len(e.reasons) == 0 {
			continue
		}
		picked := e.reasons[0]
		for _, r := range e.reasons {
			if u[r] {
				picked = r
				break
			}
		}
		u[picked] = true
	}

	atoms := make([]clause.Atom, 0, len(u))
	for a := range u {
		atoms = append(atoms, a)
	}
	return clause.New(atoms)
}
