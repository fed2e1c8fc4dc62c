package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/problem"
)

// loadGroundedModel reads an already-grounded problem off disk and builds
// a problem.Model. Grounding a PDDL domain/facts pair into this shape is
// out of scope (spec §1: "consumed only through narrow interfaces") — this
// is that narrow interface, a flat line-oriented format standing in for
// whatever the external grounder collaborator actually emits, read the
// way the teacher's encoding.ParseDimacs reads a CNF file.
//
// factsPath declares the atom universe and initial/goal conditions:
//
//	FACT <name>
//	INIT <name>
//	GOAL <name>
//
// domainPath declares grounded actions, one block per action:
//
//	ACTION <name>
//	PRE <name>
//	ADD <name>
//	DEL <name>
//	(blank line ends the block)
func loadGroundedModel(domainPath, factsPath string, reverse bool) (*problem.Model, error) {
	names, init, goal, err := readFacts(factsPath)
	if err != nil {
		return nil, fmt.Errorf("reading facts file: %w", err)
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	actions, err := readOperators(domainPath, index)
	if err != nil {
		return nil, fmt.Errorf("reading operators file: %w", err)
	}

	return problem.New(problem.Config{
		NumAtoms:  len(names),
		FactNames: names,
		Actions:   actions,
		Init:      init,
		Goal:      goal,
		Reverse:   reverse,
	}), nil
}

func readFacts(path string) (names []string, init, goal clause.Clause, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	index := map[string]int{}
	atom := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		i := len(names)
		index[name] = i
		names = append(names, name)
		return i
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "FACT":
			atom(fields[1])
		case "INIT":
			init = append(init, clause.Atom(atom(fields[1])))
		case "GOAL":
			goal = append(goal, clause.Atom(atom(fields[1])))
		}
	}
	return names, clause.New(init), clause.New(goal), scanner.Err()
}

func readOperators(path string, index map[string]int) ([]problem.RawAction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseOperators(f, index)
}

func parseOperators(r io.Reader, index map[string]int) ([]problem.RawAction, error) {
	var actions []problem.RawAction
	var cur *problem.RawAction

	flush := func() {
		if cur != nil {
			actions = append(actions, *cur)
			cur = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			flush()
			continue
		}
		switch fields[0] {
		case "ACTION":
			flush()
			cur = &problem.RawAction{Name: fields[1]}
		case "PRE":
			cur.Pre = append(cur.Pre, clause.Atom(index[fields[1]]))
		case "ADD":
			cur.Add = append(cur.Add, clause.Atom(index[fields[1]]))
		case "DEL":
			cur.Del = append(cur.Del, clause.Atom(index[fields[1]]))
		}
	}
	flush()
	return actions, scanner.Err()
}
