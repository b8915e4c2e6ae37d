// Command clean runs the leakage-safe preparation pipeline: raw trip CSV in,
// model-ready numeric CSV out.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/wahdanz1/taxipred/internal/config"
	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/logger"
	"github.com/wahdanz1/taxipred/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	input := flag.String("input", "", "raw CSV path (overrides config)")
	output := flag.String("output", "", "cleaned CSV path (overrides config)")
	reportPath := flag.String("report", "", "optional path for the JSON cleaning report")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *input == "" {
		*input = cfg.Data.RawCSV
	}
	if *output == "" {
		*output = cfg.Data.CleanCSV
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	raw, err := dataset.ReadCSV(*input)
	if err != nil {
		zlog.Fatalw("failed to load raw dataset", "path", *input, "error", err)
	}
	zlog.Infow("loaded raw dataset", "rows", raw.Len(), "columns", len(raw.Columns()))

	clean, report, err := pipeline.NewCleaner(zlog).Clean(raw)
	if err != nil {
		zlog.Fatalw("cleaning failed", "error", err)
	}

	if err := clean.WriteCSV(*output); err != nil {
		zlog.Fatalw("failed to write cleaned dataset", "path", *output, "error", err)
	}
	zlog.Infow("cleaned dataset saved", "path", *output, "rows", clean.Len())

	if *reportPath != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			zlog.Fatalw("failed to encode report", "error", err)
		}
		if err := os.WriteFile(*reportPath, data, 0o644); err != nil {
			zlog.Fatalw("failed to write report", "path", *reportPath, "error", err)
		}
	}
}
