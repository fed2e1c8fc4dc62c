// Package problem adapts a grounded planning problem into the
// direction-neutral view the rest of the planner consumes. It is the only
// package aware of reverse-mode's precondition/delete polarity flip.
package problem

import "github.com/msuda/pdrplan/clause"

// Action is a grounded (pre, add, del) triple, already normalized: del and
// add never overlap, add and pre never overlap, and add is never empty.
type Action struct {
	Name string
	Pre  clause.Clause
	Add  clause.Clause
	Del  clause.Clause
}

// Applicable returns true iff every precondition of a holds in s.
func (a *Action) Applicable(s clause.State) bool {
	for _, p := range a.Pre {
		if !s[p] {
			return false
		}
	}
	return true
}

// Apply returns the successor state of applying a to s. Callers must check
// Applicable first; Apply does not itself validate preconditions.
func (a *Action) Apply(s clause.State) clause.State {
	return clause.Apply(a.Add, a.Del, s)
}

// Preconditions, Additions and Deletions satisfy invariant.ActionSource.
func (a *Action) Preconditions() clause.Clause { return a.Pre }
func (a *Action) Additions() clause.Clause     { return a.Add }
func (a *Action) Deletions() clause.Clause     { return a.Del }

// Model is an immutable grounded planning problem, built once by New and
// never mutated afterward. Model.Actions and Model.StartState already
// reflect the Reverse flag, so C2-C7 never test Reverse themselves.
type Model struct {
	numAtoms  int
	actions   []Action
	start     clause.State
	target    clause.Clause
	reverse   bool
	factNames []string
}

// Config carries the raw, direction-unaware problem as produced by the
// (out of scope) grounder collaborator.
type Config struct {
	NumAtoms  int
	FactNames []string
	Actions   []RawAction
	Init      clause.Clause
	Goal      clause.Clause
	Reverse   bool
}

// RawAction is a grounded action as read from the grounder, before
// normalization or any direction flip.
type RawAction struct {
	Name string
	Pre  clause.Clause
	Add  clause.Clause
	Del  clause.Clause
}

// New builds an immutable Model from cfg, normalizing every action and, in
// reverse mode, swapping pre/del and start/target per spec.
func New(cfg Config) *Model {
	m := &Model{
		numAtoms:  cfg.NumAtoms,
		reverse:   cfg.Reverse,
		factNames: cfg.FactNames,
	}

	start := clause.NewState(cfg.NumAtoms)
	for _, a := range cfg.Init {
		start[a] = true
	}
	target := cfg.Goal

	if cfg.Reverse {
		// Regression semantics: search backward from the goal, so the
		// roles of initial state and goal condition trade places.
		goalState := clause.NewState(cfg.NumAtoms)
		for _, a := range cfg.Goal {
			goalState[a] = true
		}
		start = goalState
		target = cfg.Init
	}
	m.start = start
	m.target = target

	for _, ra := range cfg.Actions {
		pre, add, del := ra.Pre, ra.Add, ra.Del
		if cfg.Reverse {
			pre, del = del, pre
		}
		if act, ok := normalize(ra.Name, pre, add, del); ok {
			m.actions = append(m.actions, act)
		}
	}
	return m
}

// N returns the number of atoms in the grounded universe.
func (m *Model) N() int { return m.numAtoms }

// Actions returns the model's normalized actions, already direction-adjusted.
func (m *Model) Actions() []Action { return m.actions }

// StartState returns the canonical start state (initial state, or the goal
// state under reverse mode).
func (m *Model) StartState() clause.State { return m.start.Clone() }

// TargetCondition returns the goal condition as a conjunction of atoms
// (initial state's true atoms, under reverse mode).
func (m *Model) TargetCondition() clause.Clause { return m.target }

// Reverse reports whether the model was built in reverse (regression) mode.
func (m *Model) Reverse() bool { return m.reverse }

// FactName returns the printable name of atom a, or "" if the name table
// supplied to New has no entry for a.
func (m *Model) FactName(a clause.Atom) string {
	if int(a) < len(m.factNames) {
		return m.factNames[a]
	}
	return ""
}

// SatisfiesTarget returns true iff s already satisfies the target condition,
// i.e. this is the "trivial plan" case of spec.md's end-to-end scenarios.
func (m *Model) SatisfiesTarget(s clause.State) bool {
	for _, a := range m.target {
		if !s[a] {
			return false
		}
	}
	return true
}
