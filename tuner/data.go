// tuner/data.go
package tuner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"goose-tuner/engine"
)

// CacheExt marks files written by SaveBinary.
const CacheExt = ".gtc"

const loadBatchLines = 4096

var errNoLabel = errors.New("cannot separate FEN and label")

// parseLabel maps a result string to white's expected score.
func parseLabel(s string) (float64, bool) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	switch s {
	case "1-0":
		return 1.0, true
	case "0-1":
		return 0.0, true
	case "1/2-1/2", "1/2":
		return 0.5, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 1 {
		return f, true
	}
	return 0.5, false
}

// splitLine separates a dataset line into FEN and label text. Accepted forms:
//
//	<FEN> [<label>]
//	<FEN> c9 "<label>";
//	<FEN><TAB|,|;><label>
//	<6-field FEN> <label>
func splitLine(line string) (fen, label string, err error) {
	if li, rj := strings.LastIndexByte(line, '['), strings.LastIndexByte(line, ']'); li >= 0 && rj > li {
		return strings.TrimSpace(line[:li]), line[li+1 : rj], nil
	}
	if li := strings.IndexByte(line, '"'); li >= 0 {
		if rj := strings.LastIndexByte(line, '"'); rj > li {
			fen = strings.TrimSpace(line[:li])
			fen = strings.TrimSpace(strings.TrimSuffix(fen, "c9"))
			return fen, line[li+1 : rj], nil
		}
	}
	if i := strings.IndexAny(line, "\t,;"); i >= 0 {
		label = strings.TrimRight(strings.TrimSpace(line[i+1:]), ";")
		return strings.TrimSpace(line[:i]), label, nil
	}
	if parts := strings.Fields(line); len(parts) == 7 {
		return strings.Join(parts[:6], " "), parts[6], nil
	}
	return "", "", errNoLabel
}

type lineBatch struct {
	seq   int
	first int // 1-based line number of lines[0]
	lines []string
}

type batchResult struct {
	seq int
	ds  *Dataset
}

// LoadDataset reads a text dataset, optionally zstd compressed (.zst), or a
// coefficient cache (CacheExt), for layout l.
func LoadDataset(ctx context.Context, path string, l *engine.Layout, threads int) (*Dataset, error) {
	if strings.HasSuffix(path, CacheExt) {
		return LoadBinary(path, l.Size())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	return ReadDataset(ctx, r, l, threads)
}

// ReadDataset parses r line by line on threads workers. Positions keep file
// order. A malformed line aborts the load with a *LineError.
func ReadDataset(ctx context.Context, r io.Reader, l *engine.Layout, threads int) (*Dataset, error) {
	start := time.Now()
	threads = max(threads, 1)

	g, ctx := errgroup.WithContext(ctx)
	batches := make(chan lineBatch, threads*2)
	results := make(chan batchResult, threads*2)

	g.Go(func() error {
		defer close(batches)
		return readBatches(ctx, r, batches)
	})

	var wg sync.WaitGroup
	for i := 0; i < threads; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return extractBatches(ctx, l, batches, results)
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	ds := &Dataset{}
	g.Go(func() error {
		return mergeBatches(ctx, results, ds)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info().
		Str("positions", humanize.Comma(int64(ds.Len()))).
		Str("coefficients", humanize.Comma(int64(len(ds.Coeffs)))).
		Str("arena", humanize.Bytes(uint64(len(ds.Coeffs))*8)).
		Dur("took", time.Since(start)).
		Msg("loaded dataset")
	return ds, nil
}

func readBatches(ctx context.Context, r io.Reader, out chan<- lineBatch) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	b := lineBatch{first: 1}
	lineNo := 0
	flush := func() error {
		select {
		case out <- b:
		case <-ctx.Done():
			return ctx.Err()
		}
		b = lineBatch{seq: b.seq + 1, first: lineNo + 1}
		return nil
	}
	for sc.Scan() {
		lineNo++
		b.lines = append(b.lines, sc.Text())
		if len(b.lines) == loadBatchLines {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read line %d: %w", lineNo+1, err)
	}
	if len(b.lines) > 0 {
		return flush()
	}
	return nil
}

func extractBatches(ctx context.Context, l *engine.Layout, in <-chan lineBatch, out chan<- batchResult) error {
	tr := engine.NewTrace(l)
	for b := range in {
		ds := &Dataset{}
		for i, line := range b.lines {
			if err := addLine(ds, tr, b.first+i, line); err != nil {
				return err
			}
		}
		select {
		case out <- batchResult{seq: b.seq, ds: ds}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func addLine(ds *Dataset, tr *engine.Trace, lineNo int, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' {
		return nil
	}
	fen, lab, err := splitLine(line)
	if err != nil {
		return &LineError{Line: lineNo, Text: line, Err: err}
	}
	board, err := engine.LoadFEN(fen)
	if err != nil {
		return &LineError{Line: lineNo, Text: line, Err: err}
	}
	label, ok := parseLabel(lab)
	if !ok {
		log.Warn().Int("line", lineNo).Str("label", lab).Msg("unrecognized label, using 0.5")
	}
	engine.Extract(board, tr)
	ds.Append(tr, label)
	return nil
}

// mergeBatches appends batches to ds in sequence order.
func mergeBatches(ctx context.Context, in <-chan batchResult, ds *Dataset) error {
	pending := make(map[int]*Dataset)
	next := 0
	for res := range in {
		pending[res.seq] = res.ds
		for {
			part, ok := pending[next]
			if !ok {
				break
			}
			ds.Merge(part)
			delete(pending, next)
			next++
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
