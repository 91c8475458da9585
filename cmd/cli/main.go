package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/config"
	"github.com/marcusziade/maykott/pkg/content"
	"github.com/marcusziade/maykott/pkg/logging"
)

// exitErr carries a numeric exit code through the cobra error path
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// app holds the global flags and what they resolve to
type app struct {
	configPath string
	contentDir string
	jsonOut    bool
	noColor    bool
	verbose    bool

	out    io.Writer
	cfg    *config.Config
	logger *zap.Logger
	styles styles
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "maykott",
		Short:         "Browse and check the Maykott Group site content",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.logger.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "Path to YAML config file")
	f.StringVar(&a.contentDir, "content", "", "Directory of seed YAML files (default: embedded seed)")
	f.BoolVar(&a.jsonOut, "json", false, "Output in JSON format")
	f.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newSubsidiariesCmd(a),
		newSubsidiaryCmd(a),
		newLeadersCmd(a),
		newInsightsCmd(a),
		newValidateCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.contentDir != "" {
		cfg.Content.Dir = a.contentDir
	}
	a.cfg = cfg

	if a.verbose {
		logger, err := logging.New("debug", true)
		if err != nil {
			return err
		}
		a.logger = logger
	}

	a.styles = newStyles(lipgloss.NewRenderer(a.out), !a.noColor)
	return nil
}

func (a *app) catalog() (*content.Catalog, error) {
	catalog, err := a.cfg.OpenCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	a.logger.Debug("Content loaded", zap.String("dir", a.cfg.Content.Dir))
	return catalog, nil
}
