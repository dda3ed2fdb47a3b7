// Command travella answers one travel query from the command line and prints
// the response payload as JSON.
//
// Usage:
//
//	travella -city pokhara "3 days budget trip with friends"
//	travella -stream "best momo in kathmandu"
//
// Providers, Redis and data locations are configured through the same
// environment variables as the server. The query log is never written.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"travella/internal/classifier"
	"travella/internal/config"
	"travella/internal/content"
	logpkg "travella/internal/logger"
	"travella/internal/repository"
	"travella/internal/service"
)

type options struct {
	city    string
	stream  bool
	offline bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.city, "city", "", "city to assume when the query names none")
	flag.BoolVar(&opts.stream, "stream", false, "print generated text as it arrives")
	flag.BoolVar(&opts.offline, "offline", false, "skip LLM providers and use templates only")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(os.Stderr, "usage: travella [-city name] [-stream] [-offline] <query>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays valid JSON
	logger, err := logpkg.New("warn", "console")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts, text, logger); err != nil {
		cancel()
		logger.Fatal("Query failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, opts options, text string, logger *zap.Logger) error {
	store, err := content.NewStore(cfg.Data.Dir, cfg.Data.DefaultCity)
	if err != nil {
		return err
	}

	trainOpts := classifier.DefaultOptions()
	trainOpts.MaxFeatures = cfg.Classifier.MaxFeatures
	trainOpts.C = cfg.Classifier.C
	trainOpts.Iterations = cfg.Classifier.Iterations
	clf, _, err := classifier.LoadOrTrain(cfg.Data.ModelPath, cfg.Data.IntentData, trainOpts)
	if clf == nil {
		return err
	}
	clf.SetThreshold(cfg.Classifier.MinConfidence)

	var generator service.Generator
	if !opts.offline {
		var cache service.Cache
		if cfg.Redis.Addr != "" {
			if client, err := repository.NewRedis(ctx, cfg.Redis); err == nil {
				defer client.Close()
				cache = client
			} else {
				logger.Warn("Redis unavailable, generation cache disabled", zap.Error(err))
			}
		}
		generator = service.NewGenerator(cfg, cache, logger)
	}

	composer := service.NewComposer(store, generator, cfg.LLM.Timeout, logger)
	svc := service.NewPredictService(clf, store, composer, nil, logger)

	var city *string
	if opts.city != "" {
		city = &opts.city
	}

	var resp any
	if opts.stream {
		streamed := false
		resp, err = svc.PredictStream(ctx, text, city, func(event string, data any) error {
			if event != "content" {
				return nil
			}
			if m, ok := data.(map[string]any); ok {
				if chunk, ok := m["content"].(string); ok {
					streamed = true
					fmt.Fprint(os.Stderr, chunk)
				}
			}
			return nil
		})
		if streamed {
			fmt.Fprintln(os.Stderr)
		}
	} else {
		resp, err = svc.Predict(ctx, text, city)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
