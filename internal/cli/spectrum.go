package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solarphys/pfsstrace/analysis"
	"github.com/solarphys/pfsstrace/harmonics"
)

// SpectrumOptions holds flags for the spectrum command.
type SpectrumOptions struct {
	*RootOptions
	Plot   string
	Target float64
}

// NewSpectrumCommand creates the spectrum command.
func NewSpectrumCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SpectrumOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "spectrum <alm.csv>",
		Short: "Analyze the power spectrum of a coefficient set",
		Long: `Print the per-degree power spectrum of a precomputed coefficient set,
the cumulative power fraction against truncation degree, and the smallest
lmax that retains the target power fraction. Optionally render a convergence
plot as PNG.

Example:
  pfsstrace spectrum alm_2096.csv --target 0.99 --plot convergence.png`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpectrum(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Plot, "plot", "", "write a convergence plot PNG to this path")
	cmd.Flags().Float64Var(&opts.Target, "target", 0.99, "target retained power fraction")

	return cmd
}

func runSpectrum(opts *SpectrumOptions, almPath string, cmd *cobra.Command) error {
	coeffs, err := harmonics.LoadCSV(almPath)
	if err != nil {
		return err
	}
	spectrum, err := analysis.NewSpectrum(coeffs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%4s  %14s  %10s\n", "l", "power", "cumulative")
	for l, power := range spectrum.Power {
		fmt.Fprintf(out, "%4d  %14.6e  %10.6f\n", l, power, spectrum.Cumulative[l])
	}
	fmt.Fprintf(out, "\ntotal power: %.6e\n", spectrum.Total)
	fmt.Fprintf(out, "recommended lmax for %.2f%% power: %d\n",
		100*opts.Target, spectrum.RecommendLmax(opts.Target))

	if opts.Plot != "" {
		if err := analysis.SaveConvergencePlot(opts.Plot, spectrum, opts.Target); err != nil {
			return err
		}
		fmt.Fprintf(out, "convergence plot written to %s\n", opts.Plot)
	}
	return nil
}
