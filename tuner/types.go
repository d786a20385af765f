// tuner/types.go
package tuner

// Pair is one tunable term: a midgame and an endgame weight.
type Pair struct {
	MG float64 `json:"mg"`
	EG float64 `json:"eg"`
}

// Coefficient is one active feature of a position. White and Black are the
// occurrence counts for each side; the feature contributes
// weight*(White-Black) to the score.
type Coefficient struct {
	Index int32
	White int16
	Black int16
}

// Position is a labelled training position. Its coefficients live in
// Dataset.Coeffs[Begin:End].
type Position struct {
	Begin, End uint32
	Label      float64 // expected score for white in [0,1]
	Phase      float64 // 1 = opening material, 0 = bare kings and pawns
}

// Dataset is the coefficient store: one shared arena of coefficients and a
// list of positions slicing into it. It is read-only once loaded.
type Dataset struct {
	Coeffs    []Coefficient
	Positions []Position
}

// Result is the outcome of a tuning run.
type Result struct {
	Params []Pair
	K      float64
	MSE    float64
	Epochs int
}
