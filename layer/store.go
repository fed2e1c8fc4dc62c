package layer

import "github.com/msuda/pdrplan/clause"

// Layer is the pair of clause lists spec §3 attaches to every frontier
// index k: delta[k] holds clauses whose strongest layer is k, derived[k]
// holds clauses inherited from some stronger layer k' > k.
type Layer struct {
	Delta   []*Box
	Derived []*Box
}

// Store is the ordered sequence of layers. Layer 0 is the goal frontier.
type Store struct {
	layers []Layer
	// leastAffected tracks the lowest layer index touched by an insertion
	// since the last push; pushing only needs to revisit from here up.
	leastAffected int
}

// New returns a Store with a single empty layer 0.
func New() *Store {
	return &Store{layers: []Layer{{}}, leastAffected: 1}
}

// Grow appends a new empty layer, extending the store by one, per the
// phase-termination step of spec §4.6.
func (s *Store) Grow() {
	s.layers = append(s.layers, Layer{})
}

// NumLayers returns the current layer count.
func (s *Store) NumLayers() int { return len(s.layers) }

// LeastAffected returns the lowest layer index touched since the last reset.
func (s *Store) LeastAffected() int { return s.leastAffected }

// ResetLeastAffected resets the bookkeeping at a phase boundary, per
// spec §5: "reset to phase+1 at each phase boundary."
func (s *Store) ResetLeastAffected(phase int) {
	s.leastAffected = phase + 1
}

func (s *Store) touch(k int) {
	if k < s.leastAffected {
		s.leastAffected = k
	}
}

// ClausesAt returns the conjunction (delta[k] union derived[k]) of clauses
// known at layer k.
func (s *Store) ClausesAt(k int) []clause.Clause {
	l := s.layers[k]
	out := make([]clause.Clause, 0, len(l.Delta)+len(l.Derived))
	for _, b := range l.Delta {
		out = append(out, b.Data)
	}
	for _, b := range l.Derived {
		out = append(out, b.Data)
	}
	return out
}

// IsLayerState reports whether st satisfies every clause known at layer k.
func (s *Store) IsLayerState(k int, st clause.State) bool {
	for _, c := range s.ClausesAt(k) {
		if !c.Satisfies(st) {
			return false
		}
	}
	return true
}

// pruneLayer drops boxes from delta[k]/derived[k] whose liveness interval no
// longer includes k, releasing their refcounts; a lazy GC step run before
// every insertion at that layer.
func (s *Store) pruneLayer(k int) {
	l := &s.layers[k]
	l.Delta = filterLive(l.Delta, k)
	l.Derived = filterLive(l.Derived, k)
}

func filterLive(boxes []*Box, k int) []*Box {
	j := 0
	for _, b := range boxes {
		if b.liveAt(k) {
			boxes[j] = b
			j++
		} else {
			b.release()
		}
	}
	return boxes[:j]
}

func findEqual(boxes []*Box, cl clause.Clause) *Box {
	for _, b := range boxes {
		if b.Data.Equal(cl) {
			return b
		}
	}
	return nil
}

func isSubsumedByAny(boxes []*Box, cl clause.Clause) bool {
	for _, b := range boxes {
		if clause.Subsumes(b.Data, cl) {
			return true
		}
	}
	return false
}

// dropSubsumed removes, in place, every box in boxes that cl subsumes (cl is
// at least as strong): such a box is now implied by cl and is discarded from
// this layer, its From/To interval closed off to k+1 and released.
func dropSubsumed(boxes *[]*Box, cl clause.Clause, at int) {
	kept := (*boxes)[:0]
	for _, b := range *boxes {
		if clause.Subsumes(cl, b.Data) {
			b.To = at + 1
			b.release()
			continue
		}
		kept = append(kept, b)
	}
	*boxes = kept
}

// InsertResult reports the outcome of Insert: whether a layer below k became
// empty as a side effect (the UNSAT "repetition detected" signal).
type InsertResult struct {
	EmptyLayer      bool
	EmptyLayerIndex int
}

// Insert inserts blocking clause cl as a new frontier for layer k, per the
// three steps of spec §4.4: prune and subsume at k, cascade the subsumption
// down through lower delta layers while cla_subsumption is enabled, then
// create a box spanning from the lowest surviving layer up to k.
func (s *Store) Insert(cl clause.Clause, k int, oblSubsumption, claSubsumption bool) InsertResult {
	s.pruneLayer(k)
	layer := &s.layers[k]

	if findEqual(layer.Delta, cl) != nil {
		return InsertResult{}
	}
	dropSubsumed(&layer.Delta, cl, k)

	if !oblSubsumption && (isSubsumedByAny(layer.Delta, cl) || isSubsumedByAny(layer.Derived, cl)) {
		return InsertResult{}
	}

	to := k
	for claSubsumption && to > 1 {
		i := to - 1
		s.pruneLayer(i)
		lower := &s.layers[i]

		if eq := findEqual(lower.Delta, cl); eq != nil {
			s.extendUp(eq, i, k)
			return InsertResult{}
		}

		before := len(lower.Delta)
		dropSubsumed(&lower.Delta, cl, i)
		shrank := len(lower.Delta) < before

		if shrank && len(lower.Delta) == 0 && len(lower.Derived) == 0 {
			s.touch(i)
			return InsertResult{EmptyLayer: true, EmptyLayerIndex: i}
		}
		if !shrank {
			break
		}
		to = i
	}

	box := newBox(cl, k)
	box.To = to
	box.retain()
	layer.Delta = append(layer.Delta, box)
	for m := to; m < k; m++ {
		s.layers[m].Derived = append(s.layers[m].Derived, box)
		box.retain()
	}
	s.touch(to)

	return InsertResult{}
}

// extendUp extends an existing box (already equal to the inserted clause)
// so it additionally covers derived[i+1..k-1] and delta[k]: it now reigns
// over [i, k], moving out of delta[i] into delta[k].
func (s *Store) extendUp(box *Box, i, k int) {
	lower := &s.layers[i]
	j := 0
	for _, b := range lower.Delta {
		if b == box {
			continue
		}
		lower.Delta[j] = b
		j++
	}
	lower.Delta = lower.Delta[:j]
	lower.Derived = append(lower.Derived, box) // the delta[i] reference moves here

	box.From = k
	for m := i + 1; m < k; m++ {
		s.layers[m].Derived = append(s.layers[m].Derived, box)
		box.retain()
	}
	s.layers[k].Delta = append(s.layers[k].Delta, box)
	box.retain()
	s.touch(i)
}

// Pusher decides whether a clause known at layer k is inductive relative to
// k, i.e. whether no action can escape it from the negation-as-state of
// that clause. Implemented by the extension oracle; kept as a narrow
// interface here so layer and extend do not import one another.
type Pusher interface {
	Inductive(k int, c clause.Clause) bool
}

// PushResult reports the outcome of pushing delta[k] into delta[k+1].
// Pushed carries the data of every clause that moved, in case the caller
// needs to migrate obligations that the newly-strengthened layer excludes.
type PushResult struct {
	Moved      int
	EmptyLayer bool
	Pushed     []clause.Clause
}

// Push moves every clause of delta[k] found inductive relative to k into
// derived[k] and delta[k+1]. If delta[k] empties out as a result, the
// sequence has stabilized: this is the UNSAT termination signal.
func (s *Store) Push(k int, pusher Pusher) PushResult {
	layer := &s.layers[k]
	kept := layer.Delta[:0]
	var pushed []clause.Clause

	for _, b := range layer.Delta {
		if pusher.Inductive(k, b.Data) {
			layer.Derived = append(layer.Derived, b)
			b.retain()
			s.layers[k+1].Delta = append(s.layers[k+1].Delta, b)
			b.retain()
			b.From = k + 1
			pushed = append(pushed, b.Data)
			b.release() // delta[k] slot it used to occupy
			continue
		}
		kept = append(kept, b)
	}
	layer.Delta = kept

	return PushResult{Moved: len(pushed), EmptyLayer: len(layer.Delta) == 0, Pushed: pushed}
}
