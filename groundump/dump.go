// Package groundump writes the grounded operatorN.pddl/factsN.pddl pair
// for the just_dumpgrounded flag (spec §6). Grounding a PDDL domain into
// this repo's Model is out of scope (spec §1); this package only consumes
// an already-grounded problem.Model through the narrow interface below.
package groundump

import (
	"bufio"
	"fmt"
	"io"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
)

// Options configures a dump. EmitDummyFact preserves the original engine's
// "dummy" predicate injected into the facts file to avoid an empty initial
// state in downstream consumers (spec §9, open question (b)); its
// necessity depends on the grounder reading the dump, so it stays a
// configurable quirk rather than always-on or always-off.
type Options struct {
	Index         int
	EmitDummyFact bool
}

// DumpOperators writes operatorN.pddl: one (:action ...) block per model
// action, naming its preconditions, add effects, and delete effects by
// fact name.
func DumpOperators(m *problem.Model, opts Options, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "; operator%d.pddl\n", opts.Index)
	for _, a := range m.Actions() {
		fmt.Fprintf(bw, "(:action %s\n", a.Name)
		fmt.Fprintf(bw, "  :precondition (and%s)\n", factList(m, a.Pre))
		fmt.Fprintf(bw, "  :effect (and%s%s)\n", addList(m, a.Add), delList(m, a.Del))
		fmt.Fprintln(bw, ")")
	}
	return bw.Flush()
}

// DumpFacts writes factsN.pddl: the initial state's true atoms (the rest of
// the atom universe is not listed), optionally prefixed with a dummy fact so
// the file is never empty.
func DumpFacts(m *problem.Model, opts Options, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "; facts%d.pddl\n", opts.Index)
	if opts.EmitDummyFact {
		fmt.Fprintln(bw, "(:init (dummy))")
	}
	s := m.StartState()
	fmt.Fprint(bw, "(:init")
	for i, v := range s {
		if v {
			fmt.Fprintf(bw, " %s", factName(m, i))
		}
	}
	fmt.Fprintln(bw, ")")
	return bw.Flush()
}

func factList(m *problem.Model, c clause.Clause) string {
	var s string
	for _, a := range c {
		s += " " + factName(m, int(a))
	}
	return s
}

func addList(m *problem.Model, c clause.Clause) string {
	return factList(m, c)
}

func delList(m *problem.Model, c clause.Clause) string {
	var s string
	for _, a := range c {
		s += fmt.Sprintf(" (not %s)", factName(m, int(a)))
	}
	return s
}

func factName(m *problem.Model, atom int) string {
	if name := m.FactName(clause.Atom(atom)); name != "" {
		return name
	}
	return fmt.Sprintf("fact%d", atom)
}
