// Package schedule implements the obligation scheduler (C6): the
// phase-based main loop that drives the extension oracle and layer store
// to either a plan or a proof of unreachability, generalizing the
// teacher's solver.search CDCL loop to PDR's layered obligation queues.
package schedule

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/extend"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/layer"
	"github.com/msuda/pdrplan/postprocess"
	"github.com/msuda/pdrplan/problem"
)

// Outcome classifies a finished or abandoned run.
type Outcome int

const (
	OutcomeUnresolved Outcome = iota
	OutcomeSAT
	OutcomeUNSAT
)

// RunResult is what Run returns: the verdict, the textual termination
// marker from spec §7, and the plan if one was found.
type RunResult struct {
	Outcome Outcome
	Plan    []*problem.Action
	Marker  string
}

// Config collects the §6 flags governing scheduler behavior.
type Config struct {
	StackPriority  bool // oblig_prior_stack
	OblSurvive     int  // 0, 1, or 2 (2 is the documented incomplete setting)
	OblSubsumption int  // 0, 1, or 2
	ClaSubsumption int  // 0, 1, or 2 (2 additionally runs pushing between phases)
	Resched        int // 0, 1, or 2
	PhaseLimit     int // < 0 means unlimited; 0 forbids even phase 0
	Postprocess    bool
}

// Counters accumulates the run statistics named in spec §4.6.
type Counters struct {
	Processed    int
	Extended     int
	Sidestepped  int
	Blocked      int
	Subsumed     int
	Killed       int
	ClausesKept  int
	ClausesMoved int
	MinimizeRuns int
}

// Scheduler owns a single PDR run: the layer store, the extension oracle,
// per-layer obligation queues, and the phase counter.
type Scheduler struct {
	model  *problem.Model
	store  *layer.Store
	oracle *extend.Oracle
	inv    *invariant.Result
	cfg    Config
	log    *logrus.Entry

	queues   map[int]*obligationQueue
	grave    []*Obligation
	phase    int
	counters Counters
}

// New returns a Scheduler ready to Run. Layer 0 of store must already hold
// the goal clauses the oracle and store agree on; phase starts at 1, since
// the first phase drives obligations rooted at layer 0. The store is grown
// by one layer up front so layer 1 exists before phase 1's BLOCK calls can
// target it.
func New(model *problem.Model, store *layer.Store, oracle *extend.Oracle, inv *invariant.Result, cfg Config, log *logrus.Entry) *Scheduler {
	store.Grow()
	return &Scheduler{
		model:  model,
		store:  store,
		oracle: oracle,
		inv:    inv,
		cfg:    cfg,
		log:    log,
		queues: map[int]*obligationQueue{},
		phase:  1,
	}
}

func (sch *Scheduler) queueAt(k int) *obligationQueue {
	q, ok := sch.queues[k]
	if !ok {
		q = newObligationQueue()
		sch.queues[k] = q
	}
	return q
}

// smallestNonEmptyQueue returns the lowest layer index with a pending
// obligation, scanning up to the current phase.
func (sch *Scheduler) smallestNonEmptyQueue() (int, *obligationQueue) {
	for k := 0; k < sch.phase; k++ {
		if q, ok := sch.queues[k]; ok && q.Len() > 0 {
			return k, q
		}
	}
	return -1, nil
}

// Run drives the full phase loop until SAT, UNSAT, or the phase limit (or
// ctx) cuts it off.
func (sch *Scheduler) Run(ctx context.Context) RunResult {
	if sch.model.SatisfiesTarget(sch.model.StartState()) {
		return RunResult{Outcome: OutcomeSAT, Marker: "Initial state satisfies the goal.\nPlan is trivial!"}
	}
	if !sch.inv.Valid(sch.model.StartState()) {
		return RunResult{Outcome: OutcomeUNSAT, Marker: "UNSAT: initial state doesn't satisfy the backward invariant!"}
	}

	for {
		select {
		case <-ctx.Done():
			return RunResult{Outcome: OutcomeUnresolved, Marker: "UNRESOLVED: Phase limit reached!"}
		default:
		}
		if sch.cfg.PhaseLimit >= 0 && sch.phase > sch.cfg.PhaseLimit {
			return RunResult{Outcome: OutcomeUnresolved, Marker: "UNRESOLVED: Phase limit reached!"}
		}

		res, done := sch.runPhase(ctx)
		if done {
			return res
		}
	}
}

func (sch *Scheduler) incompleteSetup() bool {
	return sch.cfg.OblSurvive == 2
}

// runPhase runs one phase to exhaustion: seed the root obligation, process
// the queues layer by layer, then push (when cla_subsumption == 2) and grow
// the store. Returns
// done == true only with a final SAT/UNSAT/UNRESOLVED RunResult.
func (sch *Scheduler) runPhase(ctx context.Context) (RunResult, bool) {
	sch.counters = Counters{}
	sch.seedRoot()

	for {
		select {
		case <-ctx.Done():
			return RunResult{Outcome: OutcomeUnresolved, Marker: "UNRESOLVED: Phase limit reached!"}, true
		default:
		}

		k, q := sch.smallestNonEmptyQueue()
		if q == nil {
			break
		}

		var o *Obligation
		if sch.cfg.StackPriority {
			o = q.PopBack()
		} else {
			o = q.PopFront()
		}
		sch.counters.Processed++

		res, done := sch.process(k, o)
		if done {
			return res, true
		}
	}

	if sch.cfg.OblSurvive == 0 {
		for k := range sch.queues {
			sch.queues[k].Clear()
		}
	}
	if sch.cfg.ClaSubsumption == 2 && sch.push() {
		return sch.repetitionResult(), true
	}

	sch.phase++
	sch.store.Grow()

	return RunResult{}, false
}

// process handles one obligation's EXTEND/SIDESTEP/BLOCK outcome, per
// spec §4.6. The bool is true only when the run is over.
func (sch *Scheduler) process(k int, o *Obligation) (RunResult, bool) {
	res := sch.oracle.Extend(k, o.State)

	switch res.Kind {
	case extend.EXTEND:
		sch.counters.Extended++
		child := &Obligation{State: res.Successor, Depth: o.Depth + 1, Parent: o, Action: res.Action}
		if k == 0 {
			plan := sch.unwind(child)
			if sch.cfg.Postprocess {
				plan = postprocess.Eliminate(plan, sch.model)
			}
			return RunResult{Outcome: OutcomeSAT, Plan: plan, Marker: fmt.Sprintf("SAT: plan of length %d found", len(plan))}, true
		}
		sch.queueAt(k - 1).Push(child)
		return RunResult{}, false

	case extend.SIDESTEP:
		sch.counters.Sidestepped++
		child := &Obligation{State: res.Successor, Depth: o.Depth + 1, Parent: o, Action: res.Action}
		sch.queueAt(k).Push(child)
		return RunResult{}, false

	default: // extend.BLOCK
		sch.counters.Blocked++
		ir := sch.store.Insert(res.Reason, k+1, sch.cfg.OblSubsumption != 0, sch.cfg.ClaSubsumption != 0)
		if ir.EmptyLayer {
			return sch.repetitionResult(), true
		}

		if sch.cfg.OblSubsumption >= 1 {
			sch.migrateSubsumed(k, res.Reason)
		}
		if sch.cfg.Resched != 0 {
			sch.queueAt(k + 1).Push(o)
		}
		return RunResult{}, false
	}
}

// seedRoot (re)inserts the start-state obligation at the phase's target
// layer. With obl_survive == 2 the scheduler is carrying obligations
// across phases it has no completeness argument for; flagged loudly.
func (sch *Scheduler) seedRoot() {
	if sch.incompleteSetup() {
		sch.log.WithField("phase", sch.phase).Warn("obl_survive=2: obligations are surviving across phases without a completeness argument")
	}
	k := sch.phase - 1
	sch.queueAt(k).Push(&Obligation{State: sch.model.StartState(), Depth: 0})
}

// migrateSubsumed moves or kills obligations at layer k whose state the
// newly inserted reason clause now excludes, per obl_subsumption.
func (sch *Scheduler) migrateSubsumed(k int, r clause.Clause) {
	q := sch.queueAt(k)
	kept := q.items[:0]
	for _, o := range q.items {
		if r.Satisfies(o.State) {
			kept = append(kept, o)
			continue
		}
		sch.counters.Subsumed++
		if sch.cfg.OblSubsumption == 2 {
			sch.counters.Killed++
			sch.grave = append(sch.grave, o)
			continue
		}
		sch.queueAt(k + 1).Push(o)
	}
	q.items = kept
}

// push advances every layer's delta clauses that have become inductive
// since the last phase boundary, per spec §4.4. Each promoted clause can
// exclude the state of an obligation still sitting at that layer, so
// pushing migrates those obligations forward exactly as Insert-time
// subsumption does, when obl_subsumption is enabled. A layer emptying out
// is the stabilization signal; repetitionResult decides what marker that
// produces.
func (sch *Scheduler) push() bool {
	for k := sch.store.LeastAffected(); k < sch.store.NumLayers()-1; k++ {
		res := sch.store.Push(k, sch.oracle)
		sch.counters.ClausesMoved += res.Moved
		if sch.cfg.OblSubsumption != 0 {
			for _, c := range res.Pushed {
				sch.migrateSubsumed(k, c)
			}
		}
		if res.EmptyLayer {
			return true
		}
	}
	sch.store.ResetLeastAffected(sch.phase)
	return false
}

// repetitionResult builds the termination result for an empty-layer event,
// whether it came from Store.Insert's subsumption cascade or Store.Push's
// promotion-empties-delta case. obl_survive==2 carries obligations across
// phases without a completeness argument, so a repetition there can't be
// trusted as UNSAT.
func (sch *Scheduler) repetitionResult() RunResult {
	if sch.incompleteSetup() {
		return RunResult{Outcome: OutcomeUnresolved, Marker: "UNRESOLVED: repetition detected under incomplete setup!"}
	}
	return RunResult{Outcome: OutcomeUNSAT, Marker: "UNSAT: repetition detected!"}
}

// unwind walks an obligation's parent chain back to the root, producing
// the action sequence in forward order.
func (sch *Scheduler) unwind(o *Obligation) []*problem.Action {
	var plan []*problem.Action
	for cur := o; cur != nil && cur.Action != nil; cur = cur.Parent {
		plan = append(plan, cur.Action)
	}
	for i, j := 0, len(plan)-1; i < j; i, j = i+1, j-1 {
		plan[i], plan[j] = plan[j], plan[i]
	}
	return plan
}

// Counters exposes the run's accumulated statistics for the last completed
// phase.
func (sch *Scheduler) Counters() Counters { return sch.counters }
