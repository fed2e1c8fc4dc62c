package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	appconfig "github.com/msuda/pdrplan/internal/config"
	"github.com/msuda/pdrplan/internal/logging"

	"github.com/msuda/pdrplan/clause"
	"github.com/msuda/pdrplan/cnf"
	"github.com/msuda/pdrplan/extend"
	"github.com/msuda/pdrplan/groundump"
	"github.com/msuda/pdrplan/invariant"
	"github.com/msuda/pdrplan/layer"
	"github.com/msuda/pdrplan/problem"
	"github.com/msuda/pdrplan/schedule"
)

var cfg = appconfig.New()
var configPath string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdrplan <domain.grounded> <facts.grounded> <path-prefix>",
		Short: "Decide reachability of a grounded STRIPS goal via PDR/IC3",
		Args:  cobra.ExactArgs(3),
		RunE:  runPlan,
	}

	flags := cmd.Flags()
	flags.BoolVar(&cfg.Reverse, "reverse", false, "swap pre/del and search by regression from the goal")
	flags.IntVar(&cfg.JustTranslate, "translate", 0, "emit a bounded-horizon SAT encoding and exit (1=sequential, 2=parallel)")
	flags.IntVar(&cfg.JustDumpGrounded, "dump-grounded", 0, "emit grounded operatorN.pddl/factsN.pddl and exit")
	flags.BoolVar(&cfg.GenInvariant, "gen-invariant", false, "run the invariant engine before PDR")
	flags.IntVar(&cfg.Minimize, "minimize", 0, "reason-clause minimization level (0-3)")
	flags.IntVar(&cfg.Resched, "resched", 0, "0=drop discharged obligations, 1=reschedule forward, 2=sidestep")
	flags.IntVar(&cfg.OblSurvive, "obl-survive", 0, "retain obligations across phases (2 is incomplete)")
	flags.IntVar(&cfg.OblSubsumption, "obl-subsumption", 0, "cross-obligation subsumption policy (2 kills via grave)")
	flags.IntVar(&cfg.ClaSubsumption, "cla-subsumption", 0, "clause subsumption depth (2 also runs pushing between phases)")
	flags.IntVar(&cfg.QuickReason, "quick-reason", 0, "short-circuit in BLOCK scanning")
	flags.BoolVar(&cfg.StackObligations, "stack-obligations", false, "stack (LIFO) obligation queues instead of FIFO")
	flags.IntVar(&cfg.PhaseLimit, "phase-limit", -1, "phase cap; -1 for unlimited")
	flags.IntVar(&cfg.PrintPhase, "print-phase", 0, "progress-print mode")
	flags.BoolVar(&cfg.Postprocess, "postprocess", false, "run action-elimination postprocessing on the plan")
	flags.Uint64Var(&cfg.Seed, "seed", 1, "seed for the extension oracle's RNG")
	flags.StringVar(&configPath, "config", "", "YAML file overriding these flags")

	return cmd
}

func runPlan(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		if err := appconfig.LoadFile(cfg, configPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
	}

	log := logging.New(cfg.RunID)
	domainPath, factsPath, pathPrefix := args[0], args[1], args[2]

	model, err := loadGroundedModel(domainPath, factsPath, cfg.Reverse)
	if err != nil {
		return err
	}

	if cfg.JustDumpGrounded > 0 {
		return runDumpGrounded(model, pathPrefix)
	}
	if cfg.JustTranslate > 0 {
		return runTranslate(model)
	}

	inv := computeInvariant(model, cfg.GenInvariant)
	store := layer.New()
	store.Insert(model.TargetCondition(), 0, true, cfg.ClaSubsumption != 0)

	oracle := extend.New(model, inv, store, extend.Options{
		Sidestep:      cfg.Resched == 2,
		MinimizeLevel: cfg.Minimize,
		QuickReason:   cfg.QuickReason,
		Seed:          cfg.Seed,
	})

	sched := schedule.New(model, store, oracle, inv, schedule.Config{
		StackPriority:  cfg.StackObligations,
		OblSurvive:     cfg.OblSurvive,
		OblSubsumption: cfg.OblSubsumption,
		ClaSubsumption: cfg.ClaSubsumption,
		Resched:        cfg.Resched,
		PhaseLimit:     cfg.PhaseLimit,
		Postprocess:    cfg.Postprocess,
	}, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := sched.Run(ctx)
	fmt.Fprintln(os.Stdout, res.Marker)

	if res.Outcome == schedule.OutcomeSAT && len(res.Plan) > 0 {
		if err := writePlan(res.Plan, pathPrefix); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if ctx.Err() != nil {
		os.Exit(1) // external interrupt, per spec §6
	}
	if res.Outcome == schedule.OutcomeSAT {
		os.Exit(0)
	}
	return nil
}

func computeInvariant(model *problem.Model, enabled bool) *invariant.Result {
	if !enabled {
		return invariant.Compute(clause.Clause{}, model.N(), nil)
	}
	acts := model.Actions()
	sources := make([]invariant.ActionSource, len(acts))
	for i := range acts {
		sources[i] = &acts[i]
	}
	return invariant.Compute(model.TargetCondition(), model.N(), sources)
}

func writePlan(plan []*problem.Action, pathPrefix string) error {
	f, err := os.Create(pathPrefix + ".soln")
	if err != nil {
		return fmt.Errorf("opening solution file: %w", err)
	}
	defer f.Close()

	for i, a := range plan {
		if _, err := fmt.Fprintf(f, "%d:   (%s)\n", i, a.Name); err != nil {
			return fmt.Errorf("writing solution file: %w", err)
		}
	}
	return nil
}

func runTranslate(model *problem.Model) error {
	enc := cnf.Sequential
	if cfg.JustTranslate == 2 {
		enc = cnf.Parallel
	}
	horizon := cfg.PhaseLimit
	if horizon <= 0 {
		horizon = 10
	}
	return cnf.Translate(model, cnf.Options{Horizon: horizon, Encoding: enc}, os.Stdout)
}

func runDumpGrounded(model *problem.Model, pathPrefix string) error {
	opts := groundump.Options{Index: cfg.JustDumpGrounded, EmitDummyFact: cfg.GroundDump.EmitDummyFact}

	opFile, err := os.Create(fmt.Sprintf("%soperator%d.pddl", pathPrefix, opts.Index))
	if err != nil {
		return err
	}
	defer opFile.Close()
	if err := groundump.DumpOperators(model, opts, opFile); err != nil {
		return err
	}

	factsFile, err := os.Create(fmt.Sprintf("%sfacts%d.pddl", pathPrefix, opts.Index))
	if err != nil {
		return err
	}
	defer factsFile.Close()
	return groundump.DumpFacts(model, opts, factsFile)
}
