package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/config"
	"github.com/marcusziade/maykott/pkg/linkcheck"
	"github.com/marcusziade/maykott/pkg/logging"
)

func main() {
	// Define command line flags
	baseURL := flag.String("base-url", "http://localhost:8081", "Base URL of the running site")
	maxDepth := flag.Int("max-depth", 3, "How many links deep to crawl (0 for unlimited)")
	parallelism := flag.Int("parallelism", 4, "Pages fetched at once")
	configPath := flag.String("config", "", "Path to YAML config file (image host allow-list, logging)")
	jsonOutput := flag.Bool("json", false, "Output the report as JSON")
	quiet := flag.Bool("quiet", false, "Hide the progress spinner")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Level, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	options := []linkcheck.Option{
		linkcheck.WithMaxDepth(*maxDepth),
		linkcheck.WithParallelism(*parallelism),
		linkcheck.WithAllowedImageHosts(cfg.Images.AllowedHosts),
		linkcheck.WithLogger(logger),
	}
	if !*quiet && !*jsonOutput {
		options = append(options, linkcheck.WithProgress(os.Stderr))
	}

	report, err := linkcheck.NewChecker(*baseURL, options...).Run(ctx)
	if err != nil {
		if report == nil {
			logger.Fatal("Link check failed", zap.Error(err))
		}
		logger.Warn("Link check interrupted", zap.Error(err))
	}

	if *jsonOutput {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal("Failed to marshal report", zap.Error(err))
		}
		fmt.Println(string(data))
	} else {
		fmt.Printf("Checked %d pages under %s\n", len(report.Pages), *baseURL)
		for _, p := range report.Problems {
			fmt.Println("  " + p.String())
		}
	}

	if !report.OK() {
		os.Exit(1)
	}
}
