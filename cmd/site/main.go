package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/marcusziade/maykott/pkg/api"
	"github.com/marcusziade/maykott/pkg/config"
	"github.com/marcusziade/maykott/pkg/contact"
	"github.com/marcusziade/maykott/pkg/logging"
)

func main() {
	// Define command line flags
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "HTTP server address (overrides config)")
	contentDir := flag.String("content", "", "Directory of seed YAML files (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *contentDir != "" {
		cfg.Content.Dir = *contentDir
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Seed problems stop startup
	catalog, err := cfg.OpenCatalog()
	if err != nil {
		logger.Fatal("Failed to load content", zap.Error(err))
	}
	logger.Info("Content loaded",
		zap.Int("subsidiaries", catalog.Subsidiaries.Len()),
		zap.Int("leaders", len(catalog.Leadership.AllOrdered())),
		zap.Int("insights", len(catalog.Insights.All())))

	submitter := contact.NewSubmitter(catalog.Site.Intents,
		contact.WithDelay(cfg.Contact.SubmitDelay),
		contact.WithLogger(logger.Named("contact")))

	server := api.NewServer(catalog,
		api.WithLimits(api.Limits{
			FeaturedSubsidiaries: cfg.Limits.FeaturedSubsidiaries,
			FeaturedLeaders:      cfg.Limits.FeaturedLeaders,
		}),
		api.WithSubmitter(submitter),
		api.WithLogger(logger.Named("http")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		srv := server.HTTPServer(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
		return server.ListenAndServe(ctx, srv, cfg.Server.ShutdownTimeout)
	})
	// a second signal kills the process
	g.Go(func() error {
		<-ctx.Done()
		stop()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}
