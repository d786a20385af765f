package tuner

import (
	"fmt"

	"goose-tuner/engine"
)

// MaterialParams returns a table that is zero except for the material
// features, which get engine.MaterialValues in both phases.
func MaterialParams(l *engine.Layout) []Pair {
	params := make([]Pair, l.Size())
	if !l.Standard() {
		return params
	}
	for i, v := range engine.MaterialValues {
		params[l.Material+i] = Pair{MG: v, EG: v}
	}
	return params
}

// InitParams builds the starting table selected by cfg. It also returns the
// k stored alongside a loaded model, or 0.
func InitParams(cfg TrainConfig, l *engine.Layout) ([]Pair, float64, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}
	switch {
	case cfg.ZeroInit:
		return make([]Pair, l.Size()), 0, nil
	case cfg.MaterialInit:
		if !l.Standard() {
			return nil, 0, fmt.Errorf("%w: material init needs the standard layout", ErrLayoutMismatch)
		}
		return MaterialParams(l), 0, nil
	}
	m, err := LoadModelJSON(cfg.InitPath, l)
	if err != nil {
		return nil, 0, fmt.Errorf("load initial model: %w", err)
	}
	return m.Params, m.K, nil
}
