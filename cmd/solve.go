package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hornkernel/chck/apiserver"
	"github.com/hornkernel/chck/config"
	"github.com/hornkernel/chck/engine"
	"github.com/hornkernel/chck/engine/core"
	"github.com/hornkernel/chck/log"
	"github.com/hornkernel/chck/smt"
	"github.com/hornkernel/chck/smt/native"
	"github.com/hornkernel/chck/timemachine"
	"github.com/hornkernel/chck/util"
)

// SolveCmd returns the `solve` subcommand: it reads a transition-system
// description and the CLI's verification options, builds the selected
// Engine, and prints the resulting VerificationResult.
func SolveCmd() *cobra.Command {
	var (
		engineName    string
		computeWitness bool
		useQE         bool
		serverAddr    string
	)

	cmd := &cobra.Command{
		Use:   "solve <transition-system.json>",
		Short: "Decide SAFE/UNSAFE/UNKNOWN for a transition system and optionally print a witness",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.ParseConfig(config.ConfigPath)
			if err != nil {
				return fmt.Errorf("failed to parse config: %w", err)
			}
			log.Init(conf.LogConfig)
			defer log.Destroy()

			if cmd.Flags().Changed("engine") {
				conf.Engine = engineName
			}
			if cmd.Flags().Changed("compute-witness") {
				conf.ComputeWitness = computeWitness
			}
			if cmd.Flags().Changed("use-qe") {
				conf.UseQE = useQE
			}
			if cmd.Flags().Changed("server-addr") {
				conf.APIServerAddr = serverAddr
			}

			opts := core.Options{
				Engine:                 conf.Engine,
				ComputeWitness:         conf.ComputeWitness,
				Verbose:                conf.Verbose,
				UseQE:                  conf.UseQE,
				SolverVariant:          smt.Variant(conf.SolverVariant),
				RestartLimit:           conf.RestartLimit,
				InterpolationStrength:  parseStrength(conf.InterpolationStrength),
				SimplifyLevel:          conf.SimplifyLevel,
				Progress:               core.NewProgress(conf.Engine),
			}

			var status *apiserver.APIServer
			if conf.APIServerAddr != "" {
				status = apiserver.NewAPIServer(conf.APIServerAddr, opts.Progress, log.DefaultLogger)
				status.Start()
				termCh := util.Term()
				go func() {
					<-termCh
					status.Stop()
				}()
				defer status.Stop()
			}

			ctx := native.NewContext(native.NewConfig(opts.SimplifyLevel, opts.InterpolationStrength))
			defer ctx.Close()
			tm := timemachine.New(ctx)

			ts, err := loadTransitionSystem(ctx, tm, args[0])
			if err != nil {
				return fmt.Errorf("loading transition system: %w", err)
			}

			eng, err := engine.Select(ctx, opts)
			if err != nil {
				return err
			}

			result, err := eng.Solve(ts)
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}
			if status != nil {
				status.SetResult(result)
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&engineName, "engine", config.EnginePDKind, "engine: kind|pdkind|tpa|tpa-split")
	cmd.Flags().BoolVar(&computeWitness, "compute-witness", false, "emit an invariant or counterexample depth alongside the verdict")
	cmd.Flags().BoolVar(&useQE, "use-qe", false, "replace model-based projection with exact quantifier elimination")
	cmd.Flags().StringVar(&serverAddr, "server-addr", "", "address for the optional status server, empty disables it")
	return cmd
}

func parseStrength(s string) native.InterpolationStrength {
	if s == "strong" {
		return native.Strong
	}
	return native.Weak
}

func printResult(r *core.VerificationResult) {
	fmt.Printf("%s\n", r.Verdict.String())
	if r.Depth >= 0 {
		fmt.Printf("depth: %d\n", r.Depth)
	}
	if r.Invariant != nil {
		fmt.Printf("invariant: %s\n", r.Invariant.String())
	}
}
