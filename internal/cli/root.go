// Package cli implements the pfsstrace command-line interface: magnetogram
// decomposition, field-line tracing, spectrum analysis, and batch processing
// over Carrington rotation ranges.
package cli

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the pfsstrace CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pfsstrace",
		Short: "PFSS coronal field reconstruction and field-line tracing",
		Long: `pfsstrace reconstructs the coronal magnetic field from a photospheric
magnetogram with a Potential Field Source Surface model and traces field
lines through the reconstructed volume.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewDecomposeCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewSpectrumCommand(opts))
	cmd.AddCommand(NewBatchCommand(opts))

	return cmd
}

// newLogger builds the CLI logger; verbose drops the level to debug.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}
