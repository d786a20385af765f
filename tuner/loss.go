package tuner

import "math"

// Sigmoid maps a centipawn score to an expected result with scale k.
func Sigmoid(x, k float64) float64 {
	z := k * x
	if z > 40 {
		return 1
	}
	if z < -40 {
		return 0
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// positionError is the squared error of one position.
func positionError(ds *Dataset, i int, params []Pair, k float64) float64 {
	pos := &ds.Positions[i]
	diff := Sigmoid(Evaluate(pos, ds.Coefficients(i), params), k) - pos.Label
	return diff * diff
}

// shardError sums the squared error of positions [begin,end).
func shardError(ds *Dataset, begin, end int, params []Pair, k float64) float64 {
	var sum float64
	for i := begin; i < end; i++ {
		sum += positionError(ds, i, params, k)
	}
	return sum
}

// shardGradient adds the error gradient of positions [begin,end) into grad
// and returns their summed squared error. Only stored coefficients touch grad.
func shardGradient(ds *Dataset, begin, end int, params []Pair, k float64, grad []Pair) float64 {
	var sum float64
	for i := begin; i < end; i++ {
		pos := &ds.Positions[i]
		coeffs := ds.Coefficients(i)
		p := Sigmoid(Evaluate(pos, coeffs, params), k)
		diff := p - pos.Label
		sum += diff * diff

		d := 2.0 * diff * p * (1.0 - p) * k
		mgScale, egScale := d*pos.Phase, d*(1-pos.Phase)
		for _, c := range coeffs {
			w := float64(c.White - c.Black)
			g := &grad[c.Index]
			g.MG += mgScale * w
			g.EG += egScale * w
		}
	}
	return sum
}
