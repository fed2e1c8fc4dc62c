// Package postprocess implements the Nakhost & Müller (2010) action
// elimination pass (C7): drop plan steps that turn out to be unnecessary
// once the whole sequence is known, without ever executing the plan
// itself. Grounded on the teacher's solver.simplifyDB/reduceDB two-pointer
// in-place compaction, adapted from "compact live clauses" to "compact
// live plan steps."
package postprocess

import "github.com/msuda/pdrplan/problem"

// Eliminate returns a shorter plan equivalent to plan. For each remaining
// step a_i, it speculatively drops a_i and replays everything after it,
// additionally dropping any later step whose precondition a_i's removal
// broke (rather than rejecting the whole candidate the moment one later
// step stops applying): if the goal still holds after that cascade, every
// step marked along the way is dropped for good. A single left-to-right
// pass, since later removals can only be enabled, never disabled, by
// earlier ones.
func Eliminate(plan []*problem.Action, model *problem.Model) []*problem.Action {
	kept := append([]*problem.Action{}, plan...)
	s := model.StartState()

	i := 0
	for i < len(kept) {
		t := s
		marked := make([]bool, len(kept))
		marked[i] = true
		for j := i + 1; j < len(kept); j++ {
			if kept[j].Applicable(t) {
				t = kept[j].Apply(t)
			} else {
				marked[j] = true
			}
		}

		if model.SatisfiesTarget(t) {
			survivors := kept[:0]
			for j, a := range kept {
				if !marked[j] {
					survivors = append(survivors, a)
				}
			}
			kept = survivors
			continue // re-examine index i, now holding the next surviving step
		}

		s = kept[i].Apply(s)
		i++
	}
	return kept
}
