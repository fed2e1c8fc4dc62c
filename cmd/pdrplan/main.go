// Command pdrplan decides reachability of a goal condition in a grounded
// STRIPS planning problem via PDR/IC3, replacing the teacher's raw `flag`
// CLI (cmd/saturday) with a cobra command tree.
package main

import (
	"os"

	"github.com/msuda/pdrplan/internal/logging"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*logging.InvariantViolation)
			if !ok {
				iv = &logging.InvariantViolation{Where: "main", Msg: "unrecoverable panic"}
			}
			logging.Fatal(logging.New(cfg.RunID), iv)
		}
	}()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
