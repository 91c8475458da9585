package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marcusziade/maykott/pkg/content"
	"github.com/marcusziade/maykott/pkg/db"
	"github.com/marcusziade/maykott/pkg/directory"
	"github.com/marcusziade/maykott/pkg/models"
)

func newSubsidiariesCmd(a *app) *cobra.Command {
	var sector, query string
	var featured bool

	cmd := &cobra.Command{
		Use:   "subsidiaries",
		Short: "List portfolio holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}

			var records []models.Subsidiary
			if featured {
				records = catalog.Subsidiaries.Featured(a.cfg.Limits.FeaturedSubsidiaries)
			} else {
				f := directory.ParseSectorFilter[models.SubsidiarySector](sector)
				records = catalog.Subsidiaries.FilterBySector(f)
			}
			records = directory.SearchSubsidiaries(records, query)

			if a.jsonOut {
				return a.printJSON(records)
			}
			a.printSubsidiaries(records)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&sector, "sector", directory.AllKey, "Sector to list (all, infrastructure, technology, energy, logistics, finance, environmental)")
	f.StringVarP(&query, "query", "q", "", "Keep holdings whose name or sector label contains this text")
	f.BoolVar(&featured, "featured", false, "Only the featured holdings shown on the home page")
	return cmd
}

func newSubsidiaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subsidiary <id>",
		Short: "Show one portfolio holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			s, ok := catalog.Subsidiaries.FindByID(args[0])
			if !ok {
				return &exitErr{code: 2, msg: fmt.Sprintf("subsidiary not found: %s", args[0])}
			}
			if a.jsonOut {
				return a.printJSON(s)
			}
			a.printSubsidiary(s)
			return nil
		},
	}
}

func newLeadersCmd(a *app) *cobra.Command {
	var featured bool

	cmd := &cobra.Command{
		Use:   "leaders",
		Short: "List the leadership team in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			leaders := catalog.Leadership.AllOrdered()
			if featured {
				leaders = catalog.Leadership.Featured(a.cfg.Limits.FeaturedLeaders)
			}
			if a.jsonOut {
				return a.printJSON(leaders)
			}
			a.printLeaders(leaders)
			return nil
		},
	}

	cmd.Flags().BoolVar(&featured, "featured", false, "Only the leaders shown on the home page")
	return cmd
}

// insightsOutput is the JSON shape of the insights command
type insightsOutput struct {
	Hero *models.Insight  `json:"hero,omitempty"`
	Feed []models.Insight `json:"feed"`
}

func newInsightsCmd(a *app) *cobra.Command {
	var sector string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show the featured insight and the feed below it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			var out insightsOutput
			if hero, ok := catalog.Insights.FeaturedInsight(); ok {
				out.Hero = &hero
			}
			out.Feed = catalog.Insights.Feed(directory.ParseSectorFilter[models.InsightSector](sector))

			if a.jsonOut {
				return a.printJSON(out)
			}
			a.printInsights(out.Hero, out.Feed)
			return nil
		},
	}

	cmd.Flags().StringVar(&sector, "sector", directory.AllKey, "Sector to list (all, energy, logistics, finance, technology, infrastructure, decarbonization)")
	return cmd
}

// validateOutput is the --json shape of validate, the same whether or not problems were found
type validateOutput struct {
	Source   string   `json:"source"`
	Problems []string `json:"problems"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the seed files for integrity problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := content.EmbeddedFS()
			source := "embedded seed"
			if a.cfg.Content.Dir != "" {
				fsys = os.DirFS(a.cfg.Content.Dir)
				source = a.cfg.Content.Dir
			}

			seed, err := content.Load(fsys)
			if err != nil {
				return err
			}
			err = content.Validate(seed, a.cfg.ContentRules())
			var verr *content.ValidationError
			switch {
			case err == nil:
				if a.jsonOut {
					return a.printJSON(validateOutput{Source: source, Problems: []string{}})
				}
				a.printValid(source, seed)
				return nil
			case errors.As(err, &verr):
				if a.jsonOut {
					if err := a.printJSON(validateOutput{Source: source, Problems: verr.Problems}); err != nil {
						return err
					}
				} else {
					a.printProblems(source, verr.Problems)
				}
				return &exitErr{code: 1, msg: fmt.Sprintf("%d problems in %s", len(verr.Problems), source)}
			default:
				return err
			}
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a snapshot of the catalog to a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}

			store, err := db.New(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.InitSchema(); err != nil {
				return err
			}

			total := catalog.Subsidiaries.Len() + len(catalog.Leadership.AllOrdered()) + len(catalog.Insights.All())
			bar := progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(!a.noColor),
				progressbar.OptionSetDescription("[cyan]Exporting catalog[reset]"),
				progressbar.OptionSetWidth(30),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			counts, err := store.SaveCatalog(cmd.Context(), catalog, func() { bar.Add(1) })
			bar.Finish()
			if err != nil {
				return err
			}
			a.logger.Debug("Snapshot written", zap.String("db", dbPath), zap.Int("records", counts.Total()))

			if a.jsonOut {
				return a.printJSON(counts)
			}
			a.printExport(dbPath, counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "./maykott.db", "Path to the SQLite database to write")
	return cmd
}
