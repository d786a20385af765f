package engine

const (
	White = 0
	Black = 1
)

// Trace holds per-feature occurrence counts for both sides of one position.
// A Trace is reused across positions by a single goroutine; call Reset
// between positions.
type Trace struct {
	layout *Layout
	White  []int16
	Black  []int16
	Phase  float64
}

func NewTrace(l *Layout) *Trace {
	return &Trace{
		layout: l,
		White:  make([]int16, l.Size()),
		Black:  make([]int16, l.Size()),
	}
}

func (t *Trace) Layout() *Layout { return t.layout }

func (t *Trace) Reset() {
	clear(t.White)
	clear(t.Black)
	t.Phase = 0
}

// Add bumps feature i for side by n.
func (t *Trace) Add(side, i int, n int) {
	if side == White {
		t.White[i] += int16(n)
	} else {
		t.Black[i] += int16(n)
	}
}
