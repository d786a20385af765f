// tuner/train.go
package tuner

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"goose-tuner/engine"
)

// Train fits a parameter table for layout l to ds. On cancellation of ctx it
// stops between epochs and returns the finalized table so far together with
// ctx.Err().
func Train(ctx context.Context, ds *Dataset, l *engine.Layout, cfg TrainConfig) (Result, error) {
	if ds.Len() == 0 {
		return Result{}, ErrEmptyDataset
	}
	params, loadedK, err := InitParams(cfg, l)
	if err != nil {
		return Result{}, err
	}
	if err := ds.Validate(l.Size()); err != nil {
		panic(fmt.Sprintf("tuner: corrupt dataset: %v", err))
	}

	if loadedK > 0 {
		log.Debug().Float64("k", loadedK).Str("path", cfg.InitPath).Msg("initial model k")
	}

	pool := NewPool(cfg.Threads)
	defer pool.Close()
	exec := NewExecutor(pool, ds, l.Size())

	k, mse := cfg.FixedK, 0.0
	switch {
	case k > 0:
		mse = exec.Error(params, k)
	default:
		k, mse = CalibrateK(exec, params, cfg.KMin, cfg.KMax, cfg.KTolerance)
	}
	log.Info().Float64("k", k).Float64("mse", mse).Int("threads", pool.Size()).Msg("initial fit")

	opt := newOptimizer(cfg.Optimizer, l.Size(), cfg.LR)
	grad := make([]Pair, l.Size())
	n := float64(ds.Len())
	// prev is the previous gradient pass's MSE at the current k; measured is
	// false until there is one to compare against.
	prev, measured := 0.0, false
	stale := 0
	epoch := 0

	for epoch < cfg.Epochs {
		if err := ctx.Err(); err != nil {
			return finalize(exec, params, k, epoch, cfg), err
		}
		t0 := time.Now()
		epoch++

		mse = exec.Gradient(params, k, grad)
		for i := range grad {
			grad[i].MG /= n
			grad[i].EG /= n
		}
		opt.Step(params, grad)

		if cfg.LRDecayEvery > 0 && epoch%cfg.LRDecayEvery == 0 {
			opt.SetLR(opt.GetLR() * cfg.LRDecay)
		}
		recal := cfg.FixedK == 0 && cfg.KRecalEvery > 0 && epoch%cfg.KRecalEvery == 0
		if recal {
			k, _ = CalibrateK(exec, params, cfg.KMin, cfg.KMax, cfg.KTolerance)
			log.Debug().Int("epoch", epoch).Float64("k", k).Msg("recalibrated k")
		}

		log.Info().
			Int("epoch", epoch).
			Float64("mse", mse).
			Float64("k", k).
			Float64("lr", opt.GetLR()).
			Dur("took", time.Since(t0)).
			Msg("epoch")

		if cfg.ReportEvery > 0 && epoch%cfg.ReportEvery == 0 {
			if err := checkpoint(l, params, k, mse, cfg); err != nil {
				return finalize(exec, params, k, epoch, cfg), err
			}
		}

		if cfg.ConvergeDelta > 0 && measured {
			if math.Abs(prev-mse) < cfg.ConvergeDelta {
				stale++
			} else {
				stale = 0
			}
			if stale >= max(cfg.Patience, 1) {
				log.Info().Int("epoch", epoch).Float64("delta", math.Abs(prev-mse)).Msg("converged")
				break
			}
		}
		// After a recalibration mse belongs to the old k, so the next pass
		// starts a new baseline.
		if recal {
			stale = 0
		}
		prev, measured = mse, !recal
	}
	return finalize(exec, params, k, epoch, cfg), nil
}

// checkpoint writes the periodic report and state snapshot.
func checkpoint(l *engine.Layout, params []Pair, k, mse float64, cfg TrainConfig) error {
	if cfg.Report != nil {
		if err := WriteReport(cfg.Report, l, params, k, mse); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	if cfg.StatePath != "" {
		snap := append([]Pair(nil), params...)
		if err := SaveModelJSON(cfg.StatePath, l, Model{Params: snap, K: k, MSE: mse}); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}
	return nil
}

func finalize(exec *Executor, params []Pair, k float64, epochs int, cfg TrainConfig) Result {
	roundParams(params, cfg.Precision)
	return Result{
		Params: params,
		K:      k,
		MSE:    exec.Error(params, k),
		Epochs: epochs,
	}
}
