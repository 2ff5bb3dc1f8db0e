package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/bamsammich/xfer/internal/engine"
)

type moveFlags struct {
	transferFlags
	replace     bool
	copyAllowed bool
	delay       bool
}

func newMoveCmd(opts *globalOptions) *cobra.Command {
	f := &moveFlags{}
	cmd := &cobra.Command{
		Use:   "move [flags] <source>... <destination>",
		Short: "Move or rename files and directories",
		Long: `Move a file or directory to destination.

A move within one volume is a rename. Across volumes it fails unless
--copy-allowed is given, in which case the source is copied and then removed.

With --delay-until-reboot the move is queued and runs at the next system
start (natively on Windows, through "xfer pending apply" elsewhere). Give a
single source and no destination to queue its deletion instead.`,
		Aliases: []string{"mv"},
		Args: func(cmd *cobra.Command, args []string) error {
			if f.delay {
				return cobra.RangeArgs(1, 2)(cmd, args)
			}
			return cobra.MinimumNArgs(2)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			f.transferFlags.applyConfigDefaults(cmd, opts.cfg.Defaults)
			if !cmd.Flags().Changed("replace") && opts.cfg.Defaults.Overwrite != nil {
				f.replace = *opts.cfg.Defaults.Overwrite
			}
			if f.delay && f.copyAllowed {
				return errors.New("--delay-until-reboot cannot be combined with --copy-allowed")
			}

			var (
				jobs []job
				dst  string
				err  error
			)
			if len(args) == 1 {
				jobs = []job{{src: args[0]}}
			} else {
				dst = args[len(args)-1]
				if jobs, err = resolveJobs(args[:len(args)-1], dst); err != nil {
					return err
				}
			}
			r := &runner{
				opts:  opts,
				flags: &f.transferFlags,
				dst:   dst,
				request: func(j job) engine.RawRequest {
					return engine.RawRequest{
						Source:      j.src,
						Destination: j.dst,
						Move: &engine.MoveOptions{
							ReplaceExisting:  f.replace,
							CopyAllowed:      f.copyAllowed,
							DelayUntilReboot: f.delay,
						},
					}
				},
			}
			return r.run(cmd.Context(), jobs)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().BoolVarP(&f.replace, "replace", "f", false, "replace an existing destination")
	cmd.Flags().BoolVar(&f.copyAllowed, "copy-allowed", false, "fall back to copy + delete across volumes")
	cmd.Flags().BoolVar(&f.delay, "delay-until-reboot", false, "queue the move for the next system start")
	return cmd
}
