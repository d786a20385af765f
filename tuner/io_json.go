// tuner/io_json.go
package tuner

import (
	"encoding/json"
	"fmt"
	"os"

	"goose-tuner/engine"
)

const modelLayoutTag = "goose_tuner_v1"

// Model is a saved parameter table with the k and error it was fit at.
type Model struct {
	Params []Pair
	K      float64
	MSE    float64
}

// Grouped arrays keep the file readable; theta carries the full state.
type modelJSON struct {
	Layout   string            `json:"layout"`
	Features int               `json:"features"`
	K        float64           `json:"k"`
	MSE      float64           `json:"mse"`
	Groups   map[string][]Pair `json:"groups,omitempty"`
	Theta    []Pair            `json:"theta"`
}

// SaveModelJSON writes m atomically through a temporary file.
func SaveModelJSON(path string, l *engine.Layout, m Model) error {
	if len(m.Params) != l.Size() {
		return fmt.Errorf("%w: %d params for %d features", ErrLayoutMismatch, len(m.Params), l.Size())
	}
	payload := modelJSON{
		Layout:   modelLayoutTag,
		Features: l.Size(),
		K:        m.K,
		MSE:      m.MSE,
		Groups:   make(map[string][]Pair, len(l.Groups)),
		Theta:    m.Params,
	}
	for _, g := range l.Groups {
		payload.Groups[g.Name] = m.Params[g.Start : g.Start+g.Size]
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadModelJSON reads a model saved for layout l. When theta is missing the
// table is rebuilt from the named groups; groups l does not have are an
// error, groups the file lacks stay zero.
func LoadModelJSON(path string, l *engine.Layout) (Model, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Model{}, err
	}
	var p modelJSON
	if err := json.Unmarshal(b, &p); err != nil {
		return Model{}, fmt.Errorf("%s: %w", path, err)
	}
	if p.Layout != modelLayoutTag {
		return Model{}, fmt.Errorf("%w: %s has layout %q", ErrLayoutMismatch, path, p.Layout)
	}

	m := Model{K: p.K, MSE: p.MSE}
	if len(p.Theta) > 0 {
		if len(p.Theta) != l.Size() {
			return Model{}, fmt.Errorf("%w: %s has %d params, want %d", ErrLayoutMismatch, path, len(p.Theta), l.Size())
		}
		m.Params = p.Theta
		return m, nil
	}

	m.Params = make([]Pair, l.Size())
	for name, vals := range p.Groups {
		g, ok := l.Group(name)
		if !ok {
			return Model{}, fmt.Errorf("%w: %s has unknown group %q", ErrLayoutMismatch, path, name)
		}
		if len(vals) != g.Size {
			return Model{}, fmt.Errorf("%w: group %q has %d entries, want %d", ErrLayoutMismatch, g.Name, len(vals), g.Size)
		}
		copy(m.Params[g.Start:], vals)
	}
	return m, nil
}
