package schedule

import (
	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
)

// Obligation is a proof obligation (state s, depth d, parent, action): "s
// cannot reach goal in <= k steps", refuted by BLOCK or refined by EXTEND.
// The root obligation has Parent == nil, Depth == 0, State == start_state.
type Obligation struct {
	State  clause.State
	Depth  int
	Parent *Obligation
	Action *problem.Action
}
