package extend

import (
	"sort"

	"github.com/msuda/pdrplan/clause"
)

// actionHeap orders action indices by BLOCK-reason-count score, using the
// same binary-heap mechanics as the teacher's order.Order (up/down percolate
// straight from Go's container/heap), with the comparator changed from
// VSIDS activity to ascending BLOCK score, plus a recency-promotion
// operation for EXTEND's move-to-front heuristic.
type actionHeap struct {
	items   []int // action indices, heap-ordered by ascending score
	indices []int // position of action i within items
	score   []int
}

func newActionHeap(n int) *actionHeap {
	h := &actionHeap{
		items:   make([]int, n),
		indices: make([]int, n),
		score:   make([]int, n),
	}
	for i := 0; i < n; i++ {
		h.items[i] = i
		h.indices[i] = i
	}
	return h
}

func (h *actionHeap) less(i, j int) bool {
	return h.score[h.items[i]] < h.score[h.items[j]]
}

func (h *actionHeap) swap(i, j int) {
	a, b := h.items[i], h.items[j]
	h.items[i], h.items[j] = b, a
	h.indices[a], h.indices[b] = j, i
}

func (h *actionHeap) up(j int) {
	for {
		i := (j - 1) / 2
		if i == j || !h.less(j, i) {
			break
		}
		h.swap(i, j)
		j = i
	}
}

func (h *actionHeap) down(i0, n int) {
	i := i0
	for {
		j1 := 2*i + 1
		if j1 >= n || j1 < 0 {
			break
		}
		j := j1
		if j2 := j1 + 1; j2 < n && h.less(j2, j1) {
			j = j2
		}
		if !h.less(j, i) {
			break
		}
		h.swap(i, j)
		i = j
	}
}

func (h *actionHeap) fix(actionIdx int) {
	pos := h.indices[actionIdx]
	h.down(pos, len(h.items))
	h.up(pos)
}

// Order returns a snapshot of the current ordering, stable-sorted by score
// ascending, without disturbing the heap. The heap array itself only
// guarantees the root is minimal, not that the whole array is sorted, so
// Extend's full scan (and its lowest-scoring-first tie-breaking) needs an
// actual sort rather than the raw array.
func (h *actionHeap) Order() []int {
	out := make([]int, len(h.items))
	copy(out, h.items)
	sort.SliceStable(out, func(i, j int) bool {
		return h.score[out[i]] < h.score[out[j]]
	})
	return out
}

// PromoteToFront implements EXTEND's recency heuristic.
func (h *actionHeap) PromoteToFront(actionIdx int) {
	h.score[actionIdx] = -1
	h.fix(actionIdx)
}

// RecordBlockScores sets each action's score to the number of reasons it
// contributed to the most recent BLOCK call.
func (h *actionHeap) RecordBlockScores(reasonsByAction map[int]clause.Clause) {
	for idx, reasons := range reasonsByAction {
		if idx < 0 {
			continue // the virtual NOOP action has no heap entry
		}
		h.score[idx] = len(reasons)
		h.fix(idx)
	}
}
