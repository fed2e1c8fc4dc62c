// Package layer implements the PDR frontier: an ordered sequence of layers,
// each holding refcounted clause boxes shared across a contiguous range of
// layers, with subsumption pruning on insertion and clause pushing.
package layer

import "github.com/msuda/pdrplan/clause"

// Box is a shared clause carrier. A clause derived at layer `from` and
// pushed down to `to` is alive for every layer k with to <= k <= from, and
// is referenced exactly once from every delta/derived list that currently
// holds it, grounded on the teacher solver's shared *Clause pointers across
// s.constrs/s.learnts/watch lists, generalized with an explicit refcount
// because a box's lifetime spans a range of layers rather than one list.
type Box struct {
	Data clause.Clause
	From int
	To   int
	refs int
}

func newBox(data clause.Clause, at int) *Box {
	return &Box{Data: data, From: at, To: at}
}

func (b *Box) retain() { b.refs++ }

// release decrements the refcount and reports whether it reached zero.
func (b *Box) release() bool {
	b.refs--
	return b.refs <= 0
}

// liveAt reports whether b is alive at layer k.
func (b *Box) liveAt(k int) bool {
	return b.To <= k && k <= b.From
}
