package problem

import "github.com/msuda/pdrplan/clause"

// normalize applies the action-normalization rule of spec.md §3: del ∩ add
// is eliminated (a delete that the same action re-adds is a no-op), add ∩
// pre is eliminated (adding something already guaranteed true is a no-op),
// and an action whose add set becomes empty afterward is dropped entirely.
// Reports ok=false for the dropped case.
func normalize(name string, pre, add, del clause.Clause) (Action, bool) {
	// An atom in both del and add ends up true under delete-then-add
	// application, so the conflict is resolved in add's favor.
	del = clause.Diff(del, add)
	add = clause.Diff(add, pre)

	if len(add) == 0 {
		return Action{}, false
	}
	return Action{Name: name, Pre: pre, Add: add, Del: del}, true
}
