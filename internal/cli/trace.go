package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarphys/pfsstrace/coronal"
	"github.com/solarphys/pfsstrace/fieldline"
	"github.com/solarphys/pfsstrace/harmonics"
	"github.com/solarphys/pfsstrace/pfss"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Output   string
	NLines   int
	RSource  float64
	StepSize float64
	MaxSteps int
	Workers  int
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <alm.csv>",
		Short: "Trace field lines from precomputed coefficients",
		Long: `Build a PFSS model from a precomputed coefficient file, trace a set of
field lines from a photospheric seed lattice, and export them as the JSON
document consumed by the visualization tooling.

Example:
  pfsstrace trace alm_2096.csv -o cr2096_coronal.json --n-lines 100`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output JSON path (required)")
	cmd.Flags().IntVar(&opts.NLines, "n-lines", 100, "number of field lines to trace")
	cmd.Flags().Float64Var(&opts.RSource, "r-source", 2.5, "source surface radius in solar radii")
	cmd.Flags().Float64Var(&opts.StepSize, "step-size", 0.01, "Euler step size in solar radii")
	cmd.Flags().IntVar(&opts.MaxSteps, "max-steps", 1000, "maximum Euler steps per trace direction")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "tracing workers (0 = all CPUs)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runTrace(opts *TraceOptions, almPath string) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	coeffs, err := harmonics.LoadCSV(almPath)
	if err != nil {
		return err
	}
	model, err := pfss.New(coeffs, opts.RSource)
	if err != nil {
		return err
	}
	log.Info("model ready",
		zap.Int("lmax", model.Lmax()),
		zap.Float64("r_source", model.RSource()),
		zap.Int("coefficients", len(coeffs)))

	set, err := fieldline.Generate(model, opts.RSource, fieldline.Options{
		NLines:   opts.NLines,
		MaxSteps: opts.MaxSteps,
		StepSize: opts.StepSize,
		Lmax:     model.Lmax(),
		Workers:  opts.Workers,
	})
	if err != nil {
		return err
	}

	open := 0
	for _, line := range set.Lines {
		if line.Polarity == fieldline.Open {
			open++
		}
	}
	log.Info("traced field lines",
		zap.Int("lines", len(set.Lines)),
		zap.Int("open", open),
		zap.Int("closed", len(set.Lines)-open))

	if err := coronal.WriteFile(opts.Output, coronal.Export(set)); err != nil {
		return err
	}
	log.Info("exported line set", zap.String("output", opts.Output))
	return nil
}
