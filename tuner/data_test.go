package tuner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"

	"goose-tuner/engine"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1-0", 1, true},
		{"0-1", 0, true},
		{"1/2-1/2", 0.5, true},
		{`"1/2-1/2"`, 0.5, true},
		{"0.75", 0.75, true},
		{" 1.0 ", 1, true},
		{"1.5", 0.5, false},
		{"*", 0.5, false},
		{"draw", 0.5, false},
	}
	for _, tt := range tests {
		got, ok := parseLabel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseLabel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestSplitLine(t *testing.T) {
	const fen = "4k3/8/8/8/8/8/8/4K3 w - - 0 1"
	tests := []struct {
		line, fen, label string
	}{
		{fen + " [1-0]", fen, "1-0"},
		{"4k3/8/8/8/8/8/8/4K3 w - - c9 \"0-1\";", "4k3/8/8/8/8/8/8/4K3 w - -", "0-1"},
		{fen + "\t0.5", fen, "0.5"},
		{fen + ",1-0", fen, "1-0"},
		{fen + ";0-1", fen, "0-1"},
		{fen + " 1/2-1/2", fen, "1/2-1/2"},
	}
	for _, tt := range tests {
		f, l, err := splitLine(tt.line)
		if err != nil || f != tt.fen || l != tt.label {
			t.Errorf("splitLine(%q) = %q, %q, %v", tt.line, f, l, err)
		}
	}
	if _, _, err := splitLine("4k3/8/8/8/8/8/8/4K3 w"); !errors.Is(err, errNoLabel) {
		t.Errorf("missing label: err = %v", err)
	}
}

func TestReadDatasetFormats(t *testing.T) {
	input := strings.Join([]string{
		"# comment",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1 [0.5]",
		"",
		"4k3/8/8/8/8/8/8/3QK3 w - - c9 \"1-0\";",
		"4k3/8/8/8/8/8/8/3qK3 b - - 0 1\t0-1",
		"4k3/8/8/8/8/8/P7/4K3 w - - 0 1,weird",
	}, "\n")
	l := engine.NewLayout()
	ds, err := ReadDataset(context.Background(), strings.NewReader(input), l, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.5, 1, 0, 0.5}
	if ds.Len() != len(want) {
		t.Fatalf("loaded %d positions, want %d", ds.Len(), len(want))
	}
	for i, w := range want {
		if ds.Positions[i].Label != w {
			t.Errorf("position %d label = %v, want %v", i, ds.Positions[i].Label, w)
		}
	}
	if err := ds.Validate(l.Size()); err != nil {
		t.Fatal(err)
	}
}

func TestReadDatasetLineError(t *testing.T) {
	input := "4k3/8/8/8/8/8/8/4K3 w - - 0 1 [1-0]\n" +
		"4k3/8/8/8/8/8/8/4K3 w - - 0 1 [0-1]\n" +
		"4k3/8/8/8/8/8/4K3 w - - 0 1 [0-1]\n"
	_, err := ReadDataset(context.Background(), strings.NewReader(input), engine.NewLayout(), 2)
	var le *LineError
	if !errors.As(err, &le) {
		t.Fatalf("err = %v, want *LineError", err)
	}
	if le.Line != 3 {
		t.Fatalf("error on line %d, want 3", le.Line)
	}

	_, err = ReadDataset(context.Background(), strings.NewReader("just some text\n"), engine.NewLayout(), 1)
	if !errors.As(err, &le) || !errors.Is(err, errNoLabel) {
		t.Fatalf("unsplittable line: err = %v", err)
	}
}

// Positions keep file order whatever the worker count.
func TestReadDatasetDeterministic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 3*loadBatchLines+17; i++ {
		it := testFENs[i%len(testFENs)]
		fmt.Fprintf(&sb, "%s [%s]\n", it.fen, it.lab)
	}
	l := engine.NewLayout()
	one, err := ReadDataset(context.Background(), strings.NewReader(sb.String()), l, 1)
	if err != nil {
		t.Fatal(err)
	}
	many, err := ReadDataset(context.Background(), strings.NewReader(sb.String()), l, 6)
	if err != nil {
		t.Fatal(err)
	}
	if one.Len() != many.Len() || len(one.Coeffs) != len(many.Coeffs) {
		t.Fatalf("sizes differ: %d/%d vs %d/%d", one.Len(), len(one.Coeffs), many.Len(), len(many.Coeffs))
	}
	for i := range one.Positions {
		if one.Positions[i] != many.Positions[i] {
			t.Fatalf("position %d differs", i)
		}
	}
	for i := range one.Coeffs {
		if one.Coeffs[i] != many.Coeffs[i] {
			t.Fatalf("coefficient %d differs", i)
		}
	}
}

// Stored coefficients are exactly the active features of a fresh extraction.
func TestCoefficientRoundTrip(t *testing.T) {
	ds, l := fenDataset(t, 1)
	tr := engine.NewTrace(l)
	for i, it := range testFENs {
		b, _ := engine.LoadFEN(it.fen)
		engine.Extract(b, tr)
		var want []Coefficient
		for f := range tr.White {
			if active(l.Kind(f), tr.White[f], tr.Black[f]) {
				want = append(want, Coefficient{Index: int32(f), White: tr.White[f], Black: tr.Black[f]})
			}
		}
		got := append([]Coefficient(nil), ds.Coefficients(i)...)
		sort.Slice(got, func(a, b int) bool { return got[a].Index < got[b].Index })
		if len(got) != len(want) {
			t.Fatalf("%s: %d coefficients, want %d", it.fen, len(got), len(want))
		}
		for j := range want {
			if got[j] != want[j] {
				t.Fatalf("%s: coefficient %d = %+v, want %+v", it.fen, j, got[j], want[j])
			}
		}
		if ds.Positions[i].Phase != tr.Phase {
			t.Fatalf("%s: phase %v, want %v", it.fen, ds.Positions[i].Phase, tr.Phase)
		}
	}
}

func TestLoadDatasetFiles(t *testing.T) {
	dir := t.TempDir()
	var sb strings.Builder
	for _, it := range testFENs {
		fmt.Fprintf(&sb, "%s\t%s\n", it.fen, it.lab)
	}

	plain := filepath.Join(dir, "data.txt")
	if err := os.WriteFile(plain, []byte(sb.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	packed := filepath.Join(dir, "data.txt.zst")
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(packed, enc.EncodeAll([]byte(sb.String()), nil), 0o644); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	l := engine.NewLayout()
	a, err := LoadDataset(context.Background(), plain, l, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, err := LoadDataset(context.Background(), packed, l, 2)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != len(testFENs) || b.Len() != a.Len() || len(a.Coeffs) != len(b.Coeffs) {
		t.Fatalf("plain %d, zstd %d positions", a.Len(), b.Len())
	}

	cache := filepath.Join(dir, "data"+CacheExt)
	if err := SaveBinary(cache, a, l.Size()); err != nil {
		t.Fatal(err)
	}
	c, err := LoadDataset(context.Background(), cache, l, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != a.Len() {
		t.Fatalf("cache %d positions", c.Len())
	}
}
