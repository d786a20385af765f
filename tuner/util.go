// tuner/util.go
package tuner

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundTo rounds v to the given number of decimal places.
func roundTo[T constraints.Float](v T, decimals int) T {
	scale := math.Pow(10, float64(decimals))
	return T(math.Round(float64(v)*scale) / scale)
}

// roundParams rounds every weight in place.
func roundParams(params []Pair, decimals int) {
	for i := range params {
		params[i].MG = roundTo(params[i].MG, decimals)
		params[i].EG = roundTo(params[i].EG, decimals)
	}
}
