// Command train fits the intent classifier on labeled queries, prints a
// held-out evaluation and writes the model artifact.
//
// Usage:
//
//	train -data data/sample_queries.csv -out models/intent_clf.json
//
// Defaults come from the same environment variables the server reads
// (INTENT_DATA, MODEL_PATH, TEST_SIZE, RANDOM_STATE, TRAIN_C, MAX_FEATURES, TRAIN_ITERATIONS).
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"travella/internal/classifier"
	"travella/internal/config"
	logpkg "travella/internal/logger"
)

type options struct {
	dataPath    string
	modelPath   string
	testSize    float64
	seed        int64
	c           float64
	maxFeatures int
	iterations  int
	threshold   float64
	full        bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	opts := parseFlags(cfg)

	logger, err := logpkg.New(cfg.Logging.Level, "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(opts, logger); err != nil {
		logger.Fatal("Training failed", zap.Error(err))
	}
}

func parseFlags(cfg *config.Config) options {
	opts := options{}
	flag.StringVar(&opts.dataPath, "data", cfg.Data.IntentData, "labeled CSV with text,intent columns")
	flag.StringVar(&opts.modelPath, "out", cfg.Data.ModelPath, "where to write the model artifact")
	flag.Float64Var(&opts.testSize, "test-size", cfg.Classifier.TestSize, "held-out fraction per class")
	flag.Int64Var(&opts.seed, "seed", cfg.Classifier.RandomState, "split seed")
	flag.Float64Var(&opts.c, "c", cfg.Classifier.C, "inverse L2 regularization strength")
	flag.IntVar(&opts.maxFeatures, "max-features", cfg.Classifier.MaxFeatures, "vocabulary cap")
	flag.IntVar(&opts.iterations, "iterations", cfg.Classifier.Iterations, "gradient descent iterations")
	flag.Float64Var(&opts.threshold, "min-confidence", cfg.Classifier.MinConfidence, "confidence threshold stored in the artifact")
	flag.BoolVar(&opts.full, "full", false, "refit on the whole dataset after evaluation")
	flag.Parse()
	return opts
}

func run(opts options, logger *zap.Logger) error {
	ds, err := classifier.LoadDatasetFile(opts.dataPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded labeled queries", zap.String("path", opts.dataPath), zap.Int("examples", ds.Len()))

	train, test, err := classifier.StratifiedSplit(ds, opts.testSize, opts.seed)
	if err != nil {
		return err
	}
	logger.Info("Split dataset",
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
		zap.Float64("test_size", opts.testSize),
		zap.Int64("seed", opts.seed),
	)

	trainOpts := classifier.DefaultOptions()
	trainOpts.MaxFeatures = opts.maxFeatures
	trainOpts.C = opts.c
	trainOpts.Iterations = opts.iterations
	trainOpts.MinConfidence = opts.threshold

	m, err := classifier.Train(train, trainOpts)
	if err != nil {
		return err
	}

	if test.Len() > 0 {
		report, err := classifier.Evaluate(m, test)
		if err != nil {
			return err
		}
		fmt.Println(report.String())
	} else {
		logger.Warn("No held-out examples, skipping evaluation")
	}

	if opts.full {
		if m, err = classifier.Train(ds, trainOpts); err != nil {
			return err
		}
	}

	if err := m.Save(opts.modelPath); err != nil {
		return err
	}
	logger.Info("Model saved",
		zap.String("path", opts.modelPath),
		zap.Strings("labels", m.Labels()),
		zap.Int("vocabulary", m.VocabularySize()),
	)
	return nil
}
