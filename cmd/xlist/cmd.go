package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/benz9527/xlist/timing"
)

type cliFlags struct {
	config string
}

func newRootCmd() *cobra.Command {
	flags := new(cliFlags)
	rootCmd := &cobra.Command{
		Use:   "xlist",
		Short: "A linked list playground.",
	}
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "config file, defaults to ./xlist.yaml")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:                   "repl [-c config_file]",
			Short:                 "Drive a linked list interactively.",
			DisableFlagsInUseLine: true,
			SilenceUsage:          true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runREPL(cmd.Context(), flags, cmd.InOrStdin(), cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:                   "bench [-c config_file]",
			Short:                 "Compare the operation cost of the linked list variants.",
			DisableFlagsInUseLine: true,
			SilenceUsage:          true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runBench(cmd.Context(), flags, cmd)
			},
		},
	)
	return rootCmd
}

func startApp(ctx context.Context, opts ...fx.Option) (stop func() error, err error) {
	app := fx.New(opts...)
	if err = app.Start(ctx); err != nil {
		return nil, err
	}
	return func() error {
		stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
		defer cancel()
		return app.Stop(stopCtx)
	}, nil
}

func runBench(ctx context.Context, flags *cliFlags, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var demo *timing.Demo
	stop, err := startApp(ctx, benchModule(flags), fx.Populate(&demo))
	if err != nil {
		return err
	}
	defer func() { _ = stop() }()

	reports, err := demo.Run(ctx)
	if err != nil {
		return err
	}
	return timing.WriteTable(cmd.OutOrStdout(), reports)
}
