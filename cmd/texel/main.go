// cmd/texel/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"goose-tuner/engine"
	"goose-tuner/tuner"
)

func main() {
	cfg := tuner.DefaultTrainConfig()
	cfg.AddFlags(flag.CommandLine)
	dataPath := flag.String("data", "", "Dataset: text (.zst ok) or coefficient cache ("+tuner.CacheExt+")")
	outJSON := flag.String("out", "model.json", "Where to write the tuned model as JSON")
	reportPath := flag.String("report", "", "Also write the parameter report to this file")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *dataPath == "" {
		fmt.Println("Usage:")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if !cfg.ZeroInit && !cfg.MaterialInit && cfg.InitPath == "" {
		cfg.MaterialInit = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	layout := engine.NewLayout()
	ds, err := tuner.LoadDataset(ctx, *dataPath, layout, cfg.Threads)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dataPath).Msg("load dataset")
	}

	var out io.Writer = os.Stdout
	if *reportPath != "" {
		f, err := os.Create(*reportPath)
		if err != nil {
			log.Fatal().Err(err).Msg("create report")
		}
		defer f.Close()
		out = io.MultiWriter(os.Stdout, f)
	}
	cfg.Report = out

	res, err := tuner.Train(ctx, ds, layout, cfg)
	switch {
	case errors.Is(err, context.Canceled):
		log.Warn().Int("epochs", res.Epochs).Msg("interrupted, saving current table")
	case err != nil:
		log.Fatal().Err(err).Msg("train")
	}

	if err := tuner.WriteReport(out, layout, res.Params, res.K, res.MSE); err != nil {
		log.Error().Err(err).Msg("write report")
	}
	if err := os.MkdirAll(filepath.Dir(*outJSON), 0o755); err != nil {
		log.Fatal().Err(err).Msg("create output directory")
	}
	if err := tuner.SaveModelJSON(*outJSON, layout, tuner.Model{Params: res.Params, K: res.K, MSE: res.MSE}); err != nil {
		log.Fatal().Err(err).Msg("save model")
	}
	log.Info().
		Str("path", *outJSON).
		Int("epochs", res.Epochs).
		Float64("k", res.K).
		Float64("mse", res.MSE).
		Msg("saved tuned model")
}
