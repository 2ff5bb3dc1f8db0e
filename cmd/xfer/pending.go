package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bamsammich/xfer/internal/deferred"
)

func newPendingCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List operations queued with --delay-until-reboot",
		Long: `List the moves and deletions queued with --delay-until-reboot.

On systems without native support the queue lives in a TOML file
($XDG_STATE_HOME/xfer/pending.toml unless [deferred] queue is configured).
Run "xfer pending apply" from a boot script to carry the operations out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := deferred.NewFileQueue(opts.cfg.QueuePath())
			ops, err := q.Pending()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ops) == 0 {
				fmt.Fprintln(out, "no pending operations")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tQUEUED\tOPERATION")
			for _, op := range ops {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(op.ID), op.Queued.Format("2006-01-02 15:04:05"), op)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(newPendingApplyCmd(opts))
	return cmd
}

func newPendingApplyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Run every queued operation now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := deferred.NewFileQueue(opts.cfg.QueuePath())
			report, err := q.Apply(cmd.Context())
			for _, op := range report.Applied {
				slog.Info("applied pending operation", "op", op.String())
			}
			if !opts.quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d, failed %d\n", len(report.Applied), len(report.Failed))
			}
			if err != nil {
				slog.Error("pending operations failed", "error", err)
				if len(report.Applied) > 0 {
					return &exitError{code: 1}
				}
				return &exitError{code: 2}
			}
			return nil
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
