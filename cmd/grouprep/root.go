package main

import (
	"fmt"

	"github.com/aristath/grouprep/internal/config"
	"github.com/aristath/grouprep/internal/evaluation"
	"github.com/aristath/grouprep/internal/experiment"
	"github.com/aristath/grouprep/internal/optimization"
	"github.com/aristath/grouprep/internal/report"
	"github.com/aristath/grouprep/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// cli holds state shared by every command of one invocation.
type cli struct {
	// Persistent flag values. They override the environment only when set.
	seed         uint64
	format       string
	logLevel     string
	samples      int
	trainSamples int

	cfg    *config.Config
	log    zerolog.Logger
	writer *report.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "grouprep",
		Short: "Search for a faithful two-qubit representation of a finite group",
		Long: `grouprep trains a 12-angle two-qubit representation of the group
<a, b, c | a², b², c⁴, (bc)², (ab)², ac³ac> with CMA-ES, then checks the trained,
recorded and analytic parameter sets for the identity relations and for
faithfulness, and prints the representation matrices at θ = 0.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE:              c.runExperiment,
	}

	pf := root.PersistentFlags()
	pf.Uint64Var(&c.seed, "seed", 0, "Random seed (0 = clock based; env GROUPREP_SEED)")
	pf.StringVar(&c.format, "format", "", "Output format: text, json or msgpack (env GROUPREP_FORMAT)")
	pf.StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.IntVar(&c.samples, "samples", 0, "Disturbances per check (env GROUPREP_CHECK_SAMPLES)")
	pf.IntVar(&c.trainSamples, "train-samples", 0, "Disturbances per loss evaluation (env GROUPREP_TRAIN_SAMPLES)")

	root.AddCommand(
		&cobra.Command{
			Use:   "run",
			Short: "Run the full experiment (same as the root command)",
			Args:  cobra.NoArgs,
			RunE:  c.runExperiment,
		},
		c.trainCmd(),
		c.checkCmd(),
		c.matricesCmd(),
	)

	return root
}

// setup loads the config, applies flag overrides, and builds the logger
// and report writer.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = c.seed
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("samples") {
		cfg.CheckSamples = c.samples
	}
	if flags.Changed("train-samples") {
		cfg.TrainSamples = c.trainSamples
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ResolveSeed()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	writer, err := report.NewWriter(cmd.OutOrStdout(), format)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.writer = writer
	c.log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(c.log)

	return nil
}

func (c *cli) newRunner() (*experiment.Runner, error) {
	return experiment.NewRunner(experiment.Config{
		Seed: c.cfg.Seed,
		Evaluation: evaluation.Config{
			TrainSamples: c.cfg.TrainSamples,
			CheckSamples: c.cfg.CheckSamples,
		},
		Optimizer: optimization.Config{
			StepSize:       c.cfg.Optimizer.StepSize,
			Population:     c.cfg.Optimizer.Population,
			MaxEvaluations: c.cfg.Optimizer.MaxEvaluations,
			MaxIterations:  c.cfg.Optimizer.MaxIterations,
		},
	}, c.log)
}

func (c *cli) runExperiment(cmd *cobra.Command, _ []string) error {
	runner, err := c.newRunner()
	if err != nil {
		return err
	}
	res, err := runner.Run(cmd.Context())
	if err != nil {
		return err
	}
	return c.writer.Write(res)
}
