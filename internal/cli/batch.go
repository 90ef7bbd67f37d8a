package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solarphys/pfsstrace/internal/batch"
)

// BatchOptions holds flags for the batch command.
type BatchOptions struct {
	*RootOptions
	ShowParams bool
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "batch <parameter-file>",
		Short: "Process a range of Carrington rotations",
		Long: `Process every Carrington rotation in the range given by a JSON5
parameter file. Each rotation's coefficient file alm_<cr>.csv is resolved in
alm_folder; missing inputs and already-written outputs are skipped, and a
failure on one rotation never aborts the rest.

Parameter file example:
  {
    start_cr: 2096,
    end_cr: 2285,
    alm_folder: "alm_coefficients",
    output_folder: "coronal_data",
    n_lines: 100,       // optional, default 100
    r_source: 2.5,      // optional, default 2.5
  }`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.ShowParams, "show-params", false, "print the parameter file before running")

	return cmd
}

func runBatch(opts *BatchOptions, paramPath string) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := os.ReadFile(paramPath)
	if err != nil {
		return fmt.Errorf("read parameter file %q: %w", paramPath, err)
	}
	if opts.ShowParams {
		fmt.Println(string(data))
	}
	cfg, err := parseBatchParams(data)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := batch.Run(ctx, cfg, log)
	if err != nil {
		return err
	}
	fmt.Printf("processed %d, skipped %d, failed %d\n",
		summary.Processed, summary.Skipped, summary.Failed)
	return nil
}
