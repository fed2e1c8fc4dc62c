package clause

// State is a total Boolean assignment over the problem's atoms.
type State []bool

// NewState returns a state of n atoms, all false.
func NewState(n int) State {
	return make(State, n)
}

// Clone returns a copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	copy(out, s)
	return out
}

// Equal returns true iff s and other agree on every atom.
func (s State) Equal(other State) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Apply performs standard STRIPS effect application on s: first delete, then
// add. Actions are normalized so del and add never overlap, but the
// delete-then-add order is honored regardless.
func Apply(add, del Clause, s State) State {
	out := s.Clone()
	for _, a := range del {
		out[a] = false
	}
	for _, a := range add {
		out[a] = true
	}
	return out
}

// AsClause packs the true atoms of s into a sorted Clause.
func (s State) AsClause() Clause {
	c := Clause{}
	for a, v := range s {
		if v {
			c = append(c, Atom(a))
		}
	}
	return c
}

// Negation returns the state in which exactly the atoms of c are false and
// every other atom (up to n) is true — the "negation-as-state" construction
// used by layer pushing.
func Negation(c Clause, n int) State {
	s := make(State, n)
	for i := range s {
		s[i] = true
	}
	for _, a := range c {
		s[a] = false
	}
	return s
}
