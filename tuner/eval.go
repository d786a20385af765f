package tuner

// Evaluate returns the tapered score of pos in centipawns from white's point
// of view. An index outside params panics.
func Evaluate(pos *Position, coeffs []Coefficient, params []Pair) float64 {
	var mg, eg float64
	for _, c := range coeffs {
		d := float64(c.White - c.Black)
		p := params[c.Index]
		mg += p.MG * d
		eg += p.EG * d
	}
	return mg*pos.Phase + eg*(1-pos.Phase)
}
