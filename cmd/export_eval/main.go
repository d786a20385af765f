package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goose-tuner/engine"
	"goose-tuner/tuner"
)

func rd(x float64) int { return int(math.Round(x)) }

// goName turns a group name like "Knight Mobility" into KnightMobility.
func goName(s string) string {
	var b strings.Builder
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }) {
		b.WriteString(strings.ToUpper(f[:1]) + f[1:])
	}
	return b.String()
}

func formatArray(vals []int, perRow int) string {
	var b strings.Builder
	for i, v := range vals {
		if i%perRow == 0 {
			b.WriteString("\t")
		}
		b.WriteString(fmt.Sprintf("%d", v))
		if i%perRow == perRow-1 || i == len(vals)-1 {
			b.WriteString(",\n")
		} else {
			b.WriteString(", ")
		}
	}
	return b.String()
}

// writeGo renders every group as a pair of integer tables.
func writeGo(w io.Writer, pkg string, l *engine.Layout, m tuner.Model) error {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by export_eval; DO NOT EDIT.\n\npackage %s\n\n", pkg)
	fmt.Fprintf(&b, "// Fit at k = %.6f, mse = %.8f.\n", m.K, m.MSE)
	for _, g := range l.Groups {
		mg := make([]int, g.Size)
		eg := make([]int, g.Size)
		for i := 0; i < g.Size; i++ {
			p := m.Params[g.Start+i]
			mg[i], eg[i] = rd(p.MG), rd(p.EG)
		}
		perRow := 10
		if g.Shape == engine.Board {
			perRow = 8
		}
		name := goName(g.Name)
		fmt.Fprintf(&b, "\nvar %sMG = [%d]int{\n%s}\n", name, g.Size, formatArray(mg, perRow))
		fmt.Fprintf(&b, "\nvar %sEG = [%d]int{\n%s}\n", name, g.Size, formatArray(eg, perRow))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func main() {
	inPath := flag.String("in", "model.json", "input model JSON path")
	outPath := flag.String("out", "", "output path (default stdout)")
	format := flag.String("format", "text", `output format: "text" report or "go" source`)
	pkg := flag.String("pkg", "engine", "package name for -format go")
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	layout := engine.NewLayout()
	m, err := tuner.LoadModelJSON(*inPath, layout)
	if err != nil {
		log.Fatal().Err(err).Str("path", *inPath).Msg("load model")
	}

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("create output")
		}
		defer f.Close()
		w = f
	}

	switch *format {
	case "text":
		err = tuner.WriteReport(w, layout, m.Params, m.K, m.MSE)
	case "go":
		err = writeGo(w, *pkg, layout, m)
	default:
		log.Fatal().Str("format", *format).Msg("unknown format")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("export")
	}
}
