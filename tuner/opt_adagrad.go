// tuner/opt_adagrad.go
package tuner

import "math"

// Optimizer applies one update to params from the mean gradient.
type Optimizer interface {
	Step(params, grads []Pair)
	SetLR(lr float64)
	GetLR() float64
}

// AdaGrad scales each component by the root of its accumulated squared
// gradient.
type AdaGrad struct {
	G       []Pair
	LR, Eps float64
}

func NewAdaGrad(numParams int, lr float64) *AdaGrad {
	return &AdaGrad{
		G:   make([]Pair, numParams),
		LR:  lr,
		Eps: 1e-8,
	}
}

// SetLR updates the base learning rate.
func (opt *AdaGrad) SetLR(lr float64) {
	opt.LR = lr
}

// GetLR returns the current base learning rate.
func (opt *AdaGrad) GetLR() float64 {
	return opt.LR
}

func (opt *AdaGrad) Step(params, grads []Pair) {
	for i := range params {
		opt.step(&params[i].MG, &opt.G[i].MG, grads[i].MG)
		opt.step(&params[i].EG, &opt.G[i].EG, grads[i].EG)
	}
}

func (opt *AdaGrad) step(param, acc *float64, g float64) {
	if g == 0 {
		return
	}
	*acc += g * g
	*param -= opt.LR / (math.Sqrt(*acc) + opt.Eps) * g
}
