package tuner

import (
	"fmt"

	"goose-tuner/engine"
)

// active decides whether a feature with the given counts is stored.
// Normal features only matter through white-black, so equal counts are
// dropped. Safety and complexity features keep any non-zero count.
func active(kind engine.ParamType, white, black int16) bool {
	if kind == engine.Normal {
		return white != black
	}
	return white != 0 || black != 0
}

// Append stores the active features of tr as a new position.
func (ds *Dataset) Append(tr *engine.Trace, label float64) {
	l := tr.Layout()
	begin := uint32(len(ds.Coeffs))
	for i := range tr.White {
		w, b := tr.White[i], tr.Black[i]
		if !active(l.Kind(i), w, b) {
			continue
		}
		ds.Coeffs = append(ds.Coeffs, Coefficient{Index: int32(i), White: w, Black: b})
	}
	ds.Positions = append(ds.Positions, Position{
		Begin: begin,
		End:   uint32(len(ds.Coeffs)),
		Label: label,
		Phase: tr.Phase,
	})
}

// Merge appends every position of other, rebasing its coefficient ranges.
func (ds *Dataset) Merge(other *Dataset) {
	base := uint32(len(ds.Coeffs))
	ds.Coeffs = append(ds.Coeffs, other.Coeffs...)
	for _, p := range other.Positions {
		p.Begin += base
		p.End += base
		ds.Positions = append(ds.Positions, p)
	}
}

func (ds *Dataset) Len() int { return len(ds.Positions) }

// Coefficients returns the stored features of position i.
func (ds *Dataset) Coefficients(i int) []Coefficient {
	p := &ds.Positions[i]
	return ds.Coeffs[p.Begin:p.End]
}

// Validate checks that position ranges tile the coefficient arena in order
// and that every index addresses one of numParams parameters.
func (ds *Dataset) Validate(numParams int) error {
	next := uint32(0)
	for i, p := range ds.Positions {
		if p.Begin != next || p.End < p.Begin {
			return fmt.Errorf("position %d: range [%d,%d) does not follow %d", i, p.Begin, p.End, next)
		}
		if p.Label < 0 || p.Label > 1 {
			return fmt.Errorf("position %d: label %v outside [0,1]", i, p.Label)
		}
		if p.Phase < 0 || p.Phase > 1 {
			return fmt.Errorf("position %d: phase %v outside [0,1]", i, p.Phase)
		}
		next = p.End
	}
	if int(next) != len(ds.Coeffs) {
		return fmt.Errorf("positions cover %d of %d coefficients", next, len(ds.Coeffs))
	}
	for i, c := range ds.Coeffs {
		if c.Index < 0 || int(c.Index) >= numParams {
			return fmt.Errorf("coefficient %d: index %d outside [0,%d)", i, c.Index, numParams)
		}
	}
	return nil
}
