package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solarphys/pfsstrace/harmonics"
)

// DecomposeOptions holds flags for the decompose command.
type DecomposeOptions struct {
	*RootOptions
	Lmax      int
	Output    string
	Rule      string
	Optimized bool
	Resume    bool
	Smooth    float64
}

// NewDecomposeCommand creates the decompose command.
func NewDecomposeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecomposeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decompose <magnetogram.csv>",
		Short: "Compute spherical harmonic coefficients from a magnetogram grid",
		Long: `Decompose a photospheric magnetogram into spherical harmonic
coefficients. The input is a CSV grid of radial field samples, rows running
over colatitude and columns over longitude. Coefficients are written after
every completed degree, so an interrupted run resumes with --resume.

Example:
  pfsstrace decompose mag_2096.csv --lmax 40 -o alm_2096.csv
  pfsstrace decompose mag_2096.csv --lmax 40 -o alm_2096.csv --optimized --rule simpson --resume`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(opts, args[0])
		},
	}

	cmd.Flags().IntVar(&opts.Lmax, "lmax", 40, "maximum spherical harmonic degree")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output coefficient CSV path (required)")
	cmd.Flags().StringVar(&opts.Rule, "rule", "riemann", "integration rule (riemann|simpson)")
	cmd.Flags().BoolVar(&opts.Optimized, "optimized", false, "derive m<0 coefficients from conjugate symmetry")
	cmd.Flags().BoolVar(&opts.Resume, "resume", false, "resume from an existing partial output file")
	cmd.Flags().Float64Var(&opts.Smooth, "smooth", 0, "Gaussian smoothing sigma in samples (0 disables)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runDecompose(opts *DecomposeOptions, gridPath string) error {
	log, err := newLogger(opts.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	rule, err := parseRule(opts.Rule)
	if err != nil {
		return err
	}

	samples, err := readGridCSV(gridPath)
	if err != nil {
		return err
	}
	if replaced := harmonics.Clean(samples); replaced > 0 {
		log.Warn("replaced non-finite samples with 0", zap.Int("count", replaced))
	}
	grid, err := harmonics.NewGrid(samples)
	if err != nil {
		return err
	}
	if opts.Smooth > 0 {
		grid = grid.Smooth(opts.Smooth)
		log.Info("applied Gaussian smoothing", zap.Float64("sigma", opts.Smooth))
	}
	log.Info("loaded magnetogram",
		zap.Int("n_theta", grid.NTheta()),
		zap.Int("n_phi", grid.NPhi()),
		zap.Int("lmax", opts.Lmax))

	decompOpts := harmonics.Options{Rule: rule}
	if opts.Resume {
		if partial, err := harmonics.LoadCSV(opts.Output); err == nil {
			decompOpts.Resume = partial
			log.Info("resuming from partial coefficient file",
				zap.Int("coefficients", len(partial)))
		}
	}

	saver := harmonics.DegreeSaver(opts.Output)
	decompOpts.Progress = func(l int, coeffs harmonics.CoefficientSet) error {
		log.Debug("completed degree", zap.Int("l", l), zap.Int("coefficients", len(coeffs)))
		return saver(l, coeffs)
	}

	var coeffs harmonics.CoefficientSet
	if opts.Optimized {
		coeffs, err = harmonics.DecomposeSymmetric(grid, opts.Lmax, decompOpts)
	} else {
		coeffs, err = harmonics.Decompose(grid, opts.Lmax, decompOpts)
	}
	if err != nil {
		return err
	}

	// The saver already ran per degree; write once more in case every degree
	// was satisfied from the resume set.
	if err := harmonics.SaveCSV(opts.Output, coeffs); err != nil {
		return err
	}
	log.Info("decomposition complete",
		zap.Int("coefficients", len(coeffs)),
		zap.String("output", opts.Output))
	return nil
}

func parseRule(name string) (harmonics.Rule, error) {
	switch name {
	case "riemann":
		return harmonics.RuleRiemann, nil
	case "simpson":
		return harmonics.RuleSimpson, nil
	default:
		return 0, fmt.Errorf("invalid rule %q: must be riemann or simpson", name)
	}
}

// readGridCSV reads a magnetogram grid: one CSV row per colatitude, one
// column per longitude.
func readGridCSV(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open magnetogram %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read magnetogram %s: %w", path, err)
	}
	samples := make([][]float64, len(records))
	for i, rec := range records {
		samples[i] = make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("magnetogram %s row %d col %d: %w", path, i+1, j+1, err)
			}
			samples[i][j] = v
		}
	}
	return samples, nil
}
