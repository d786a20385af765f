package tuner

import (
	"fmt"
	"io"

	"goose-tuner/engine"
)

type reportWriter struct {
	w   io.Writer
	err error
}

func (r *reportWriter) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// WriteReport prints params grouped the way layout l names them.
func WriteReport(w io.Writer, l *engine.Layout, params []Pair, k, mse float64) error {
	r := &reportWriter{w: w}
	r.printf("==== Tuned Parameters ====\n")
	r.printf("k = %.6f  mse = %.8f\n", k, mse)

	for _, g := range l.Groups {
		r.printf("\n-- %s --\n", g.Name)
		vals := params[g.Start : g.Start+g.Size]
		switch {
		case g.Shape == engine.Scalar && len(g.Labels) >= g.Size:
			for i, p := range vals {
				r.printf("  %-20s: MG = %8.2f | EG = %8.2f\n", g.Labels[i], p.MG, p.EG)
			}
		case g.Shape == engine.Board && g.Size == 64:
			for rank := 7; rank >= 0; rank-- {
				for file := 0; file < 8; file++ {
					p := vals[rank*8+file]
					r.printf("%6.1f/%-6.1f ", p.MG, p.EG)
				}
				r.printf("\n")
			}
		default:
			for i, p := range vals {
				r.printf("  [%2d] MG = %8.2f | EG = %8.2f\n", i, p.MG, p.EG)
			}
		}
	}
	return r.err
}
