package engine

import (
	"testing"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func mustTrace(t *testing.T, fen string) (*Layout, *Trace) {
	t.Helper()
	b, err := LoadFEN(fen)
	if err != nil {
		t.Fatalf("load %q: %v", fen, err)
	}
	l := NewLayout()
	tr := NewTrace(l)
	Extract(b, tr)
	return l, tr
}

func TestLayoutSize(t *testing.T) {
	l := NewLayout()
	if got := l.Size(); got != 490 {
		t.Fatalf("layout size = %d, want 490", got)
	}
	next := 0
	for _, g := range l.Groups {
		if g.Start != next {
			t.Fatalf("group %s starts at %d, want %d", g.Name, g.Start, next)
		}
		next += g.Size
	}
	for i := 0; i < 4; i++ {
		if k := l.Kind(l.KingAttack + i); k != Safety {
			t.Fatalf("king attack feature %d kind = %v, want safety", i, k)
		}
	}
	if k := l.Kind(l.Tempo); k != Normal {
		t.Fatalf("tempo kind = %v", k)
	}
}

func TestStartPositionIsSymmetric(t *testing.T) {
	l, tr := mustTrace(t, startFEN)
	if tr.Phase != 1 {
		t.Fatalf("phase = %v, want 1", tr.Phase)
	}
	if tr.White[l.Material] != 8 || tr.Black[l.Material] != 8 {
		t.Fatalf("pawn counts = %d/%d", tr.White[l.Material], tr.Black[l.Material])
	}
	for i := range tr.White {
		if i == l.Tempo {
			continue
		}
		if tr.White[i] != tr.Black[i] {
			t.Fatalf("feature %d: white %d black %d", i, tr.White[i], tr.Black[i])
		}
	}
	if tr.White[l.Tempo] != 1 || tr.Black[l.Tempo] != 0 {
		t.Fatalf("tempo = %d/%d", tr.White[l.Tempo], tr.Black[l.Tempo])
	}
	// Knights on b1/g1 reach two squares each.
	if tr.White[l.KnightMobility+2] != 2 {
		t.Fatalf("knight mobility[2] = %d, want 2", tr.White[l.KnightMobility+2])
	}
}

func TestPhase(t *testing.T) {
	tests := []struct {
		fen  string
		want float64
	}{
		{startFEN, 1},
		{"4k3/8/8/8/8/8/8/4K3 w - - 0 1", 0},
		{"4k3/8/8/8/8/8/8/3QK3 w - - 0 1", 4.0 / 24},
		{"r3k2r/8/8/8/8/8/8/R3K2R b - - 0 1", 8.0 / 24},
	}
	for _, tt := range tests {
		b, err := LoadFEN(tt.fen)
		if err != nil {
			t.Fatalf("load %q: %v", tt.fen, err)
		}
		if got := Phase(b); got != tt.want {
			t.Errorf("Phase(%q) = %v, want %v", tt.fen, got, tt.want)
		}
	}
}

func TestPassedIsolatedPawn(t *testing.T) {
	l, tr := mustTrace(t, "4k3/8/8/3P4/8/8/8/4K3 w - - 0 1")
	if got := tr.White[l.PassedPawn+4]; got != 1 {
		t.Fatalf("passed pawn on rank 5 = %d, want 1", got)
	}
	if got := tr.White[l.PawnStructure+PawnIsolated]; got != 1 {
		t.Fatalf("isolated = %d, want 1", got)
	}
	if tr.White[l.KingShelter+KingOpenFile] != 1 || tr.Black[l.KingShelter+KingOpenFile] != 1 {
		t.Fatalf("king open file not counted for both sides")
	}
	// d5 is a1-relative square 35.
	if got := tr.White[l.PSQT+35]; got != 1 {
		t.Fatalf("pawn psqt d5 = %d", got)
	}
}

func TestBlackSquaresAreMirrored(t *testing.T) {
	l, tr := mustTrace(t, "4k3/3p4/8/8/8/8/8/4K3 b - - 0 1")
	// d7 for black is d2 from white's point of view.
	if got := tr.Black[l.PSQT+11]; got != 1 {
		t.Fatalf("black pawn psqt d2 = %d, want 1", got)
	}
	if got := tr.Black[l.PassedPawn+1]; got != 1 {
		t.Fatalf("black passed pawn rank 2 = %d, want 1", got)
	}
	if tr.Black[l.Tempo] != 1 {
		t.Fatalf("black tempo not counted")
	}
}

func TestDoubledPawns(t *testing.T) {
	l, tr := mustTrace(t, "4k3/8/8/8/8/2P5/2P5/4K3 w - - 0 1")
	if got := tr.White[l.PawnStructure+PawnDoubled]; got != 1 {
		t.Fatalf("doubled = %d, want 1", got)
	}
	if got := tr.White[l.PawnStructure+PawnIsolated]; got != 2 {
		t.Fatalf("isolated = %d, want 2", got)
	}
	if got := tr.Black[l.PawnStructure+PawnDoubled]; got != 0 {
		t.Fatalf("black doubled = %d", got)
	}
}

func TestPiecesAndThreats(t *testing.T) {
	// White bishops on c1/f1, pawn on e4 attacks the knight on d5.
	l, tr := mustTrace(t, "4k3/8/8/3n4/4P3/8/8/2B1KB2 w - - 0 1")
	if got := tr.White[l.Pieces+BishopPair]; got != 1 {
		t.Fatalf("bishop pair = %d", got)
	}
	if got := tr.White[l.Threats+ThreatPawnMinor]; got != 1 {
		t.Fatalf("pawn attacks minor = %d", got)
	}
	if got := tr.Black[l.Pieces+BishopPair]; got != 0 {
		t.Fatalf("black bishop pair = %d", got)
	}
}

func TestRookFiles(t *testing.T) {
	l, tr := mustTrace(t, "4k3/1p6/8/8/8/8/6P1/R3K1R1 w - - 0 1")
	if got := tr.White[l.Pieces+RookOpenFile]; got != 1 {
		t.Fatalf("rook open file = %d, want 1", got)
	}
	if got := tr.White[l.Pieces+RookSemiOpenFile]; got != 0 {
		t.Fatalf("rook semi-open file = %d, want 0", got)
	}
}

func TestExtractResetsTrace(t *testing.T) {
	b1, _ := LoadFEN(startFEN)
	b2, _ := LoadFEN("4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	l := NewLayout()
	tr := NewTrace(l)
	Extract(b1, tr)
	Extract(b2, tr)
	for i := range tr.White {
		if i == l.PSQT+5*64+4 || i == l.KingShelter+KingOpenFile || i == l.KnightMobility || i == l.BishopMobility ||
			i == l.RookMobility || i == l.QueenMobility {
			continue
		}
		if tr.White[i] != 0 {
			t.Fatalf("feature %d not reset: %d", i, tr.White[i])
		}
	}
}

func BenchmarkExtract(b *testing.B) {
	board, _ := LoadFEN("r1bq1rk1/pp2bppp/2n1pn2/3p4/2PP4/2N1PN2/PP3PPP/R2QKB1R w KQ - 0 1")
	tr := NewTrace(NewLayout())
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Extract(board, tr)
	}
}
