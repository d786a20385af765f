package tuner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBinaryRoundTrip(t *testing.T) {
	ds, l := fenDataset(t, 3)
	path := filepath.Join(t.TempDir(), "data"+CacheExt)
	if err := SaveBinary(path, ds, l.Size()); err != nil {
		t.Fatal(err)
	}
	got, err := LoadBinary(path, l.Size())
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != ds.Len() || len(got.Coeffs) != len(ds.Coeffs) {
		t.Fatalf("loaded %d positions / %d coeffs, want %d / %d", got.Len(), len(got.Coeffs), ds.Len(), len(ds.Coeffs))
	}
	for i := range ds.Positions {
		if got.Positions[i] != ds.Positions[i] {
			t.Fatalf("position %d = %+v, want %+v", i, got.Positions[i], ds.Positions[i])
		}
	}
	for i := range ds.Coeffs {
		if got.Coeffs[i] != ds.Coeffs[i] {
			t.Fatalf("coeff %d = %+v, want %+v", i, got.Coeffs[i], ds.Coeffs[i])
		}
	}
}

func TestBinaryDetectsDamage(t *testing.T) {
	ds, l := fenDataset(t, 3)
	path := filepath.Join(t.TempDir(), "data"+CacheExt)
	if err := SaveBinary(path, ds, l.Size()); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadBinary(path, l.Size()+1); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("feature count: err = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw[:len(raw)/2], 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBinary(path, l.Size()); !errors.Is(err, ErrBadCache) {
		t.Fatalf("truncated: err = %v", err)
	}

	if err := os.WriteFile(path, []byte("not a cache"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBinary(path, l.Size()); !errors.Is(err, ErrBadCache) {
		t.Fatalf("garbage: err = %v", err)
	}
}
