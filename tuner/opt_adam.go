package tuner

import "math"

type Adam struct {
	M, V  []Pair // First and second moment estimates
	LR    float64
	Beta1 float64 // Typically 0.9
	Beta2 float64 // Typically 0.999
	Eps   float64
	T     int // Timestep (for bias correction)
}

func NewAdam(numParams int, lr float64) *Adam {
	return &Adam{
		M:     make([]Pair, numParams),
		V:     make([]Pair, numParams),
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
}

// SetLR updates the base learning rate.
func (opt *Adam) SetLR(lr float64) {
	opt.LR = lr
}

// GetLR returns the current base learning rate.
func (opt *Adam) GetLR() float64 {
	return opt.LR
}

func (opt *Adam) Step(params, grads []Pair) {
	opt.T++

	// Bias correction factors
	bc1 := 1.0 - math.Pow(opt.Beta1, float64(opt.T))
	bc2 := 1.0 - math.Pow(opt.Beta2, float64(opt.T))

	for i := range params {
		opt.step(&params[i].MG, &opt.M[i].MG, &opt.V[i].MG, grads[i].MG, bc1, bc2)
		opt.step(&params[i].EG, &opt.M[i].EG, &opt.V[i].EG, grads[i].EG, bc1, bc2)
	}
}

func (opt *Adam) step(param, m, v *float64, g, bc1, bc2 float64) {
	if g == 0 {
		return
	}
	*m = opt.Beta1**m + (1-opt.Beta1)*g
	*v = opt.Beta2**v + (1-opt.Beta2)*g*g

	mHat := *m / bc1
	vHat := *v / bc2
	*param -= opt.LR * mHat / (math.Sqrt(vHat) + opt.Eps)
}

// newOptimizer returns Adam for "adam" and AdaGrad otherwise.
func newOptimizer(name string, numParams int, lr float64) Optimizer {
	if name == "adam" {
		return NewAdam(numParams, lr)
	}
	return NewAdaGrad(numParams, lr)
}
