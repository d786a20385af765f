package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goose-tuner/engine"
	"goose-tuner/tuner"
)

func main() {
	input := flag.String("in", "", "Input dataset (text, optionally .zst)")
	output := flag.String("out", "", "Output coefficient cache (default: input with "+tuner.CacheExt+")")
	threads := flag.Int("threads", runtime.NumCPU(), "Extraction workers")

	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	if *input == "" {
		fmt.Println("Usage: convert -in <dataset.txt> [-out <dataset" + tuner.CacheExt + ">]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *output == "" {
		base := strings.TrimSuffix(*input, ".zst")
		*output = strings.TrimSuffix(base, filepath.Ext(base)) + tuner.CacheExt
	}
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	layout := engine.NewLayout()
	ds, err := tuner.LoadDataset(ctx, *input, layout, *threads)
	if err != nil {
		log.Fatal().Err(err).Str("path", *input).Msg("load dataset")
	}
	if err := tuner.SaveBinary(*output, ds, layout.Size()); err != nil {
		log.Fatal().Err(err).Msg("conversion failed")
	}
}
