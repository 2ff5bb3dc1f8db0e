package main

import (
	"github.com/spf13/cobra"

	"github.com/bamsammich/xfer/internal/config"
	"github.com/bamsammich/xfer/internal/engine"
)

type copyFlags struct {
	transferFlags
	overwrite     bool
	preserveTimes bool
	verify        bool
	noScan        bool
}

func newCopyCmd(opts *globalOptions) *cobra.Command {
	f := &copyFlags{}
	cmd := &cobra.Command{
		Use:   "copy [flags] <source>... <destination>",
		Short: "Copy files or directory trees",
		Long: `Copy a file or directory tree to destination.

With several sources, destination must be an existing directory and each
source is copied into it under its own name. Directories are copied
recursively; symlinks inside them are recreated, not followed.`,
		Aliases: []string{"cp"},
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.applyConfigDefaults(cmd, opts.cfg.Defaults)

			dst := args[len(args)-1]
			jobs, err := resolveJobs(args[:len(args)-1], dst)
			if err != nil {
				return err
			}
			r := &runner{
				opts:  opts,
				flags: &f.transferFlags,
				dst:   dst,
				request: func(j job) engine.RawRequest {
					return engine.RawRequest{
						Source:      j.src,
						Destination: j.dst,
						Copy: &engine.CopyOptions{
							Overwrite:          f.overwrite,
							PreserveTimestamps: f.preserveTimes,
							ComputeSize:        !f.noScan,
							Verify:             f.verify,
						},
					}
				},
			}
			return r.run(cmd.Context(), jobs)
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().BoolVarP(&f.overwrite, "overwrite", "f", false, "replace existing destination files")
	cmd.Flags().BoolVarP(&f.preserveTimes, "preserve-times", "p", false, "carry access and modification times")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "verify checksums after copy (BLAKE3)")
	cmd.Flags().BoolVar(&f.noScan, "no-scan", false, "skip the size scan of directory sources")
	return cmd
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func (f *copyFlags) applyConfigDefaults(cmd *cobra.Command, d config.DefaultsConfig) {
	f.transferFlags.applyConfigDefaults(cmd, d)
	if !cmd.Flags().Changed("overwrite") && d.Overwrite != nil {
		f.overwrite = *d.Overwrite
	}
	if !cmd.Flags().Changed("preserve-times") && d.PreserveTimes != nil {
		f.preserveTimes = *d.PreserveTimes
	}
	if !cmd.Flags().Changed("verify") && d.Verify != nil {
		f.verify = *d.Verify
	}
}
