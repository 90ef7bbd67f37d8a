package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solarphys/pfsstrace/coronal"
	"github.com/solarphys/pfsstrace/harmonics"
)

func writeCoefficients(t *testing.T, dir string, cr int) {
	t.Helper()
	coeffs := harmonics.CoefficientSet{
		{L: 1, M: 0}:  complex(1.0, 0),
		{L: 1, M: 1}:  complex(0.2, 0.1),
		{L: 1, M: -1}: complex(-0.2, 0.1),
	}
	name := fmt.Sprintf("alm_%d.csv", cr)
	require.NoError(t, harmonics.SaveCSV(filepath.Join(dir, name), coeffs))
}

func testConfig(almDir, outDir string) Config {
	return Config{
		StartCR:   2096,
		EndCR:     2099,
		AlmDir:    almDir,
		OutputDir: outDir,
		RSource:   2.5,
		NLines:    4,
		MaxSteps:  200,
		StepSize:  0.01,
		Workers:   2,
	}
}

func TestRunConfigErrors(t *testing.T) {
	log := zap.NewNop()

	_, err := Run(context.Background(), Config{StartCR: 5, EndCR: 4, AlmDir: "a", OutputDir: "b"}, log)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = Run(context.Background(), Config{StartCR: 1, EndCR: 2}, log)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRunSkipsMissingInputs(t *testing.T) {
	almDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeCoefficients(t, almDir, 2096)
	writeCoefficients(t, almDir, 2098)

	summary, err := Run(context.Background(), testConfig(almDir, outDir), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Skipped) // 2097 and 2099 have no input
	assert.Equal(t, 0, summary.Failed)

	// Outputs exist and parse as interchange documents.
	for _, cr := range []string{"2096", "2098"} {
		data, err := os.ReadFile(filepath.Join(outDir, "cr"+cr+"_coronal.json"))
		require.NoError(t, err)
		doc, err := coronal.Parse(data)
		require.NoError(t, err)
		assert.Equal(t, 4, doc.Metadata.NFieldLines)
		assert.Equal(t, 2.5, doc.Metadata.RSource)
	}
	_, err = os.Stat(filepath.Join(outDir, "cr2097_coronal.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSkipsExistingOutputs(t *testing.T) {
	almDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeCoefficients(t, almDir, 2096)
	writeCoefficients(t, almDir, 2098)

	cfg := testConfig(almDir, outDir)
	_, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	// Second run finds every output already written.
	summary, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 4, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

// A malformed input fails its own rotation and nothing else.
func TestRunContinuesPastFailures(t *testing.T) {
	almDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeCoefficients(t, almDir, 2096)
	require.NoError(t, os.WriteFile(filepath.Join(almDir, "alm_2097.csv"), []byte("not,a,coefficient,file\n"), 0o644))
	writeCoefficients(t, almDir, 2098)

	summary, err := Run(context.Background(), testConfig(almDir, outDir), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunHonorsCancellation(t *testing.T) {
	almDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeCoefficients(t, almDir, 2096)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, testConfig(almDir, outDir), zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}

// An item whose context has expired must stop without writing its output;
// otherwise a rerun would skip a rotation that was counted as failed.
func TestProcessRotationStopsWhenAbandoned(t *testing.T) {
	almDir := t.TempDir()
	outDir := t.TempDir()
	writeCoefficients(t, almDir, 2096)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outPath := filepath.Join(outDir, "cr2096_coronal.json")
	err := processRotation(ctx, testConfig(almDir, outDir), filepath.Join(almDir, "alm_2096.csv"), outPath)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(outPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunItemTimeout(t *testing.T) {
	almDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeCoefficients(t, almDir, 2096)

	cfg := testConfig(almDir, outDir)
	cfg.EndCR = 2096
	cfg.ItemTimeout = time.Nanosecond // nothing finishes this fast

	summary, err := Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
}
