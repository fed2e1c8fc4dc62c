// Package clause implements the sorted-atom clause representation shared by
// the problem model, the invariant engine, and the layer store.
package clause

import "sort"

// Atom is a fact index in the grounded problem, 0..N-1.
type Atom int

// Clause is a positive disjunction of atoms, always kept sorted ascending
// with no duplicates.
type Clause []Atom

// New returns a Clause built from atoms, sorted and deduplicated.
func New(atoms []Atom) Clause {
	c := append(Clause{}, atoms...)
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })

	j := 0
	for i := 0; i < len(c); i++ {
		if i > 0 && c[i] == c[i-1] {
			continue
		}
		c[j] = c[i]
		j++
	}
	return c[:j]
}

// Satisfies returns true iff some atom of c is true in s.
func (c Clause) Satisfies(s State) bool {
	for _, a := range c {
		if int(a) < len(s) && s[a] {
			return true
		}
	}
	return false
}

// Contains returns true iff a appears in c, via binary search.
func (c Clause) Contains(a Atom) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i] >= a })
	return i < len(c) && c[i] == a
}

// Equal returns true iff c and other hold the same atoms.
func (c Clause) Equal(other Clause) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// Subsumes returns true iff atoms(c1) is a subset of atoms(c2), via a linear
// merge of the two sorted slices.
func Subsumes(c1, c2 Clause) bool {
	i, j := 0, 0
	for i < len(c1) {
		if j >= len(c2) {
			return false
		}
		switch {
		case c1[i] == c2[j]:
			i++
			j++
		case c1[i] > c2[j]:
			j++
		default:
			return false
		}
	}
	return true
}

// Union returns the sorted union of a and b.
func Union(a, b Clause) Clause {
	out := make(Clause, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return New(out)
}

// Intersect returns the sorted intersection of a and b.
func Intersect(a, b Clause) Clause {
	out := Clause{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Diff returns a \ b, sorted.
func Diff(a, b Clause) Clause {
	out := Clause{}
	i, j := 0, 0
	for i < len(a) {
		for j < len(b) && b[j] < a[i] {
			j++
		}
		if j < len(b) && b[j] == a[i] {
			i++
			continue
		}
		out = append(out, a[i])
		i++
	}
	return out
}

// Len, Swap and Less implement sort.Interface, mirroring the teacher
// solver's Clause so a Clause's atoms can be sorted with sort.Sort directly.
func (c Clause) Len() int           { return len(c) }
func (c Clause) Swap(i, j int)      { c[i], c[j] = c[j], c[i] }
func (c Clause) Less(i, j int) bool { return c[i] < c[j] }
