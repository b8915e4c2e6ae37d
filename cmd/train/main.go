// Command train fits the candidate regressors on the cleaned dataset and
// saves the best model, its metrics and its feature importances.
package main

import (
	"flag"
	"log"

	"github.com/wahdanz1/taxipred/internal/config"
	"github.com/wahdanz1/taxipred/internal/dataset"
	"github.com/wahdanz1/taxipred/internal/logger"
	"github.com/wahdanz1/taxipred/internal/ml"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	input := flag.String("input", "", "cleaned CSV path (overrides config)")
	outDir := flag.String("out", "", "artifact directory (overrides config)")
	seed := flag.Int64("seed", 42, "random seed for the train/test split")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *input == "" {
		*input = cfg.Data.CleanCSV
	}
	if *outDir == "" {
		*outDir = cfg.Data.ModelDir
	}

	zlog, err := logger.New(cfg.App.Env, cfg.App.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	table, err := dataset.ReadCSV(*input)
	if err != nil {
		zlog.Fatalw("failed to load cleaned dataset", "path", *input, "error", err)
	}
	zlog.Infow("loaded cleaned dataset", "rows", table.Len())

	trainer := ml.NewTrainer(zlog)
	trainer.Seed = *seed

	result, err := trainer.Train(table)
	if err != nil {
		zlog.Fatalw("training failed", "error", err)
	}

	if err := result.Save(*outDir); err != nil {
		zlog.Fatalw("failed to save artifacts", "dir", *outDir, "error", err)
	}
	zlog.Infow("artifacts saved", "dir", *outDir, "best_model", result.BestName)
}
