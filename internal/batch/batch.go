// Package batch drives PFSS processing over a range of Carrington
// rotations. Each rotation resolves to a precomputed coefficient file;
// missing inputs are skipped, failures are logged and never abort the rest
// of the batch, and every item runs under its own timeout.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solarphys/pfsstrace/coronal"
	"github.com/solarphys/pfsstrace/fieldline"
	"github.com/solarphys/pfsstrace/harmonics"
	"github.com/solarphys/pfsstrace/pfss"
)

// ErrConfig indicates an invalid batch configuration.
var ErrConfig = errors.New("batch: invalid configuration")

// Config is the explicit batch configuration. Nothing here is read from
// process-wide state; the CLI builds it from a parameter file and flags.
type Config struct {
	// StartCR and EndCR bound the Carrington rotation range, inclusive.
	StartCR int
	EndCR   int
	// AlmDir holds coefficient files named alm_<cr>.csv.
	AlmDir string
	// OutputDir receives one cr<cr>_coronal.json document per rotation.
	OutputDir string
	// RSource is the source surface radius in solar radii.
	RSource float64
	// NLines, MaxSteps and StepSize configure line-set generation.
	NLines   int
	MaxSteps int
	StepSize float64
	// ItemTimeout bounds one rotation's processing. Zero disables it.
	ItemTimeout time.Duration
	// Workers bounds how many rotations process concurrently. Zero means 1.
	Workers int
}

// Summary counts per-item outcomes of a batch run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Run processes every rotation in the configured range. A missing input or
// an already-written output skips the item; a processing failure is logged
// with its cause and counted, and the batch moves on. Run only returns an
// error for an invalid configuration or a canceled context.
func Run(ctx context.Context, cfg Config, log *zap.Logger) (Summary, error) {
	if cfg.StartCR > cfg.EndCR {
		return Summary{}, fmt.Errorf("%w: start rotation %d after end rotation %d", ErrConfig, cfg.StartCR, cfg.EndCR)
	}
	if cfg.AlmDir == "" || cfg.OutputDir == "" {
		return Summary{}, fmt.Errorf("%w: coefficient and output folders are required", ErrConfig)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("batch: create output folder: %w", err)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	// The derived context exists only to stop dispatching once a worker
	// fails; completion checks run against the caller's context, which
	// outlives eg.Wait.
	eg, workCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for cr := cfg.StartCR; cr <= cfg.EndCR; cr++ {
		if workCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			itemLog := log.With(zap.Int("cr", cr))
			outcome := runItem(workCtx, cfg, cr, itemLog)
			mu.Lock()
			switch outcome {
			case itemProcessed:
				summary.Processed++
			case itemSkipped:
				summary.Skipped++
			default:
				summary.Failed++
			}
			mu.Unlock()
			return nil // one bad rotation never aborts the batch
		})
	}
	if err := eg.Wait(); err != nil {
		return summary, err
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	log.Info("batch complete",
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

type itemOutcome int

const (
	itemProcessed itemOutcome = iota
	itemSkipped
	itemFailed
)

func runItem(ctx context.Context, cfg Config, cr int, log *zap.Logger) itemOutcome {
	almPath := filepath.Join(cfg.AlmDir, fmt.Sprintf("alm_%d.csv", cr))
	if _, err := os.Stat(almPath); err != nil {
		log.Info("skipping rotation: no coefficient file", zap.String("path", almPath))
		return itemSkipped
	}
	outPath := filepath.Join(cfg.OutputDir, fmt.Sprintf("cr%d_coronal.json", cr))
	if _, err := os.Stat(outPath); err == nil {
		log.Info("skipping rotation: output already exists", zap.String("path", outPath))
		return itemSkipped
	}

	itemCtx := ctx
	if cfg.ItemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, cfg.ItemTimeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- processRotation(itemCtx, cfg, almPath, outPath)
	}()
	select {
	case err := <-done:
		if err != nil {
			log.Error("rotation failed", zap.Error(err))
			return itemFailed
		}
		log.Info("rotation processed",
			zap.String("output", outPath),
			zap.Duration("elapsed", time.Since(start)))
		return itemProcessed
	case <-itemCtx.Done():
		log.Error("rotation abandoned", zap.Error(itemCtx.Err()))
		return itemFailed
	}
}

// processRotation runs the full per-rotation pipeline: load coefficients,
// build the model, trace the line set, export the document. The context is
// checked between stages so an abandoned item stops instead of writing its
// output after it was already counted as failed.
func processRotation(ctx context.Context, cfg Config, almPath, outPath string) error {
	coeffs, err := harmonics.LoadCSV(almPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	model, err := pfss.New(coeffs, cfg.RSource)
	if err != nil {
		return err
	}
	opts := fieldline.DefaultOptions(model.Lmax())
	if cfg.NLines > 0 {
		opts.NLines = cfg.NLines
	}
	if cfg.MaxSteps > 0 {
		opts.MaxSteps = cfg.MaxSteps
	}
	if cfg.StepSize > 0 {
		opts.StepSize = cfg.StepSize
	}
	set, err := fieldline.Generate(model, cfg.RSource, opts)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return coronal.WriteFile(outPath, coronal.Export(set))
}
