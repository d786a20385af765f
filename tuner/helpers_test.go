package tuner

import (
	"testing"

	"goose-tuner/engine"
)

var testFENs = []struct{ fen, lab string }{
	{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", "0.5"},
	{"r1bqkbnr/pppp1ppp/2n5/4p3/1b1P4/5NP1/PPPNPPBP/R1BQK2R w KQkq - 4 6", "0.6"},
	{"r2q1rk1/pp1nbppp/2p1bn2/3p2B1/3P4/2N1PN2/PPQ2PPP/R3KB1R w KQ - 2 10", "1-0"},
	{"r1bq1rk1/pp2bppp/2n1pn2/2pp4/3P1B2/2P1PN2/PP1NBPPP/R2Q1RK1 w - - 6 8", "1/2-1/2"},
	{"r4rk1/1bqnbppp/p1n1p3/1pppP3/3P1P2/2PBBN2/PP1QN1PP/2KR3R w - - 0 14", "0-1"},
	{"r1bq1rk1/ppp2ppp/2n2n2/3pp3/1b1P4/2P1PN2/PP1N1PPP/R1BQKB1R b KQ - 2 7", "0.48"},
	{"8/5pk1/6p1/8/3R4/6P1/5PK1/r7 b - - 3 41", "0.5"},
	{"6k1/5ppp/8/8/8/8/1Q3PPP/6K1 w - - 0 1", "1-0"},
	{"4k3/8/8/3p4/8/8/8/4K3 w - - 0 1", "0-1"},
	{"2r3k1/pp3ppp/8/8/8/8/PP3PPP/3R2K1 b - - 0 1", "0.5"},
}

// fenDataset extracts every test FEN copies times.
func fenDataset(t testing.TB, copies int) (*Dataset, *engine.Layout) {
	t.Helper()
	l := engine.NewLayout()
	tr := engine.NewTrace(l)
	ds := &Dataset{}
	for c := 0; c < copies; c++ {
		for _, it := range testFENs {
			b, err := engine.LoadFEN(it.fen)
			if err != nil {
				t.Fatalf("load %q: %v", it.fen, err)
			}
			y, _ := parseLabel(it.lab)
			engine.Extract(b, tr)
			ds.Append(tr, y)
		}
	}
	return ds, l
}

// scalarLayout is a layout of n independent normal features.
func scalarLayout(n int) *engine.Layout {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = "f"
	}
	return engine.BuildLayout(engine.Group{Name: "Test", Size: n, Kind: engine.Normal, Shape: engine.Scalar, Labels: labels})
}

// twoPositionDataset holds one won and one lost position that differ only
// in feature 0.
func twoPositionDataset() (*Dataset, *engine.Layout) {
	l := scalarLayout(1)
	tr := engine.NewTrace(l)
	ds := &Dataset{}

	tr.Reset()
	tr.Phase = 1
	tr.Add(engine.White, 0, 1)
	ds.Append(tr, 1.0)

	tr.Reset()
	tr.Phase = 1
	tr.Add(engine.Black, 0, 1)
	ds.Append(tr, 0.0)
	return ds, l
}
