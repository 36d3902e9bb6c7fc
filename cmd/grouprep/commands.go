package main

import (
	"fmt"

	"github.com/aristath/grouprep/internal/experiment"
	"github.com/aristath/grouprep/internal/group"
	"github.com/aristath/grouprep/internal/paramsets"
	"github.com/aristath/grouprep/internal/utils"
	"github.com/spf13/cobra"
)

func (c *cli) trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train parameters with CMA-ES and print the best loss",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			if _, err := runner.Train(cmd.Context()); err != nil {
				return err
			}
			return c.writer.Write(runner.Result())
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	var (
		set    string
		theta  float64
		params string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the identity and faithfulness checks on one parameter set",
		Example: `  grouprep check --set recorded
  grouprep check --set analytic --theta 1.2
  grouprep check --params 0,0,0,0,0,0,0,0,0,0,0,0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, p, thetaPtr, err := resolveSet(set, theta, params, cmd.Flags().Changed("params"))
			if err != nil {
				return err
			}

			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			if _, err := runner.CheckSet(cmd.Context(), kind, thetaPtr, p); err != nil {
				return err
			}
			return c.writer.Write(runner.Result())
		},
	}

	cmd.Flags().StringVar(&set, "set", paramsets.RecordedName, "Parameter set: a catalog name (e.g. recorded) or analytic")
	cmd.Flags().Float64Var(&theta, "theta", 0, "Theta for --set analytic")
	cmd.Flags().StringVar(&params, "params", "", "Twelve comma-separated angles; overrides --set")

	return cmd
}

// resolveSet turns the check flags into a parameter set.
func resolveSet(set string, theta float64, params string, useParams bool) (experiment.SetKind, group.Params, *float64, error) {
	if useParams {
		values, err := utils.ParseFloatCSV(params)
		if err != nil {
			return "", group.Params{}, nil, fmt.Errorf("invalid --params: %w", err)
		}
		p, err := group.ParamsFromSlice(values)
		if err != nil {
			return "", group.Params{}, nil, fmt.Errorf("invalid --params: %w", err)
		}
		return experiment.SetCustom, p, nil, nil
	}

	if set == string(experiment.SetAnalytic) {
		return experiment.SetAnalytic, paramsets.Analytic(theta), &theta, nil
	}

	catalog, err := paramsets.Load()
	if err != nil {
		return "", group.Params{}, nil, err
	}
	s, err := catalog.Get(set)
	if err != nil {
		return "", group.Params{}, nil, fmt.Errorf("%w (known: %v, analytic)", err, catalog.Names())
	}
	kind := experiment.SetCustom
	if s.Name == paramsets.RecordedName {
		kind = experiment.SetRecorded
	}
	return kind, s.Params, nil, nil
}

func (c *cli) matricesCmd() *cobra.Command {
	var theta float64

	cmd := &cobra.Command{
		Use:   "matrices",
		Short: "Print the analytic representation matrices and their products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner, err := c.newRunner()
			if err != nil {
				return err
			}
			runner.Matrices(theta)
			return c.writer.Write(runner.Result())
		},
	}

	cmd.Flags().Float64Var(&theta, "theta", 0, "Theta of the analytic family")

	return cmd
}
