package tuner

import (
	"math"

	"github.com/rs/zerolog/log"
)

var invPhi = (math.Sqrt(5) - 1) / 2

// CalibrateK finds the sigmoid scale in [lo,hi] that minimizes the mean
// squared error of params, narrowing the bracket by golden-section search
// until it is narrower than tol. It returns k and the error at k.
func CalibrateK(e *Executor, params []Pair, lo, hi, tol float64) (float64, float64) {
	a, b := lo, hi
	c := b - invPhi*(b-a)
	d := a + invPhi*(b-a)
	fc, fd := e.Error(params, c), e.Error(params, d)

	for iter := 0; b-a > tol && iter < 200; iter++ {
		if fc < fd {
			b, d, fd = d, c, fc
			c = b - invPhi*(b-a)
			fc = e.Error(params, c)
		} else {
			a, c, fc = c, d, fd
			d = a + invPhi*(b-a)
			fd = e.Error(params, d)
		}
	}

	k := (a + b) / 2
	mse := e.Error(params, k)
	log.Debug().Float64("k", k).Float64("mse", mse).Float64("lo", lo).Float64("hi", hi).Msg("calibrated k")
	return k, mse
}
