package tuner

import (
	"flag"
	"fmt"
	"io"
	"runtime"
)

type TrainConfig struct {
	Threads   int
	Epochs    int
	LR        float64
	Optimizer string // "adagrad" or "adam"

	// k calibration. FixedK > 0 skips the search.
	FixedK      float64
	KMin, KMax  float64
	KTolerance  float64
	KRecalEvery int // recalibrate every n epochs (0 = never)

	// Step decay: LR *= LRDecay every LRDecayEvery epochs.
	LRDecay      float64
	LRDecayEvery int

	// Stop once |ΔMSE| < ConvergeDelta for Patience epochs in a row.
	ConvergeDelta float64
	Patience      int

	// Exactly one initialization source.
	ZeroInit     bool
	MaterialInit bool
	InitPath     string

	Precision   int // decimals kept in the final table
	ReportEvery int // epochs between progress reports (0 = never)
	StatePath   string
	Report      io.Writer // receives the text report every ReportEvery epochs
}

func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Threads:    runtime.NumCPU(),
		Epochs:     1000,
		LR:         1.0,
		Optimizer:  "adagrad",
		KMin:       0,
		KMax:       0.05,
		KTolerance: 1e-6,
		LRDecay:    1.0,
		Patience:   10,
		Precision:  2,
	}
}

// AddFlags registers the config fields on flags, using the current values as
// defaults.
func (c *TrainConfig) AddFlags(flags *flag.FlagSet) {
	flags.IntVar(&c.Threads, "threads", c.Threads, "Worker goroutines")
	flags.IntVar(&c.Epochs, "epochs", c.Epochs, "Maximum training epochs")
	flags.Float64Var(&c.LR, "lr", c.LR, "Base learning rate")
	flags.StringVar(&c.Optimizer, "opt", c.Optimizer, `Optimizer: "adagrad" or "adam"`)
	flags.Float64Var(&c.FixedK, "k", c.FixedK, "Fixed sigmoid scale (0 = calibrate)")
	flags.Float64Var(&c.KMin, "kmin", c.KMin, "Lower bound of the k search")
	flags.Float64Var(&c.KMax, "kmax", c.KMax, "Upper bound of the k search")
	flags.Float64Var(&c.KTolerance, "ktol", c.KTolerance, "Bracket width that ends the k search")
	flags.IntVar(&c.KRecalEvery, "krecal", c.KRecalEvery, "Recalibrate k every n epochs (0 = never)")
	flags.Float64Var(&c.LRDecay, "lr_decay", c.LRDecay, "Learning rate multiplier applied every -lr_decay_every epochs")
	flags.IntVar(&c.LRDecayEvery, "lr_decay_every", c.LRDecayEvery, "Epochs between learning rate decays (0 = never)")
	flags.Float64Var(&c.ConvergeDelta, "converge", c.ConvergeDelta, "Stop when the MSE change stays below this (0 = never)")
	flags.IntVar(&c.Patience, "patience", c.Patience, "Consecutive epochs below -converge before stopping")
	flags.BoolVar(&c.ZeroInit, "zero", c.ZeroInit, "Start from an all-zero table")
	flags.BoolVar(&c.MaterialInit, "material", c.MaterialInit, "Start from material values only")
	flags.StringVar(&c.InitPath, "init", c.InitPath, "Start from a saved JSON model")
	flags.IntVar(&c.Precision, "precision", c.Precision, "Decimal places kept in the final table")
	flags.IntVar(&c.ReportEvery, "report_every", c.ReportEvery, "Epochs between parameter reports (0 = never)")
	flags.StringVar(&c.StatePath, "state", c.StatePath, "Where to snapshot the table at each report")
}

// Validate rejects inconsistent settings.
func (c *TrainConfig) Validate() error {
	n := 0
	for _, set := range []bool{c.ZeroInit, c.MaterialInit, c.InitPath != ""} {
		if set {
			n++
		}
	}
	switch {
	case n > 1:
		return ErrConflictingInit
	case n == 0:
		return ErrNoInit
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.Epochs < 0 {
		return fmt.Errorf("epochs must not be negative, got %d", c.Epochs)
	}
	if c.LR <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v", c.LR)
	}
	if c.Optimizer != "adagrad" && c.Optimizer != "adam" {
		return fmt.Errorf("unknown optimizer %q", c.Optimizer)
	}
	if c.FixedK < 0 {
		return fmt.Errorf("k must not be negative, got %v", c.FixedK)
	}
	if c.FixedK == 0 && (c.KMin < 0 || c.KMax <= c.KMin || c.KTolerance <= 0) {
		return fmt.Errorf("bad k search range [%v,%v] tolerance %v", c.KMin, c.KMax, c.KTolerance)
	}
	if c.LRDecay <= 0 {
		return fmt.Errorf("lr decay must be positive, got %v", c.LRDecay)
	}
	if c.Precision < 0 {
		return fmt.Errorf("precision must not be negative, got %d", c.Precision)
	}
	return nil
}
