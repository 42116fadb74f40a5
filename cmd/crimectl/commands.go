package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/catalog"
	"github.com/crime-dashboard/internal/dataset"
	"github.com/crime-dashboard/internal/domain"
	"github.com/crime-dashboard/internal/repository/cache"
	"github.com/crime-dashboard/internal/usecase"
)

const defaultSource = "data/telangana-crime-data.csv"

// options - общие флаги всех подкоманд
type options struct {
	source         string
	allowSynthetic bool
	seed           int64
	timeout        time.Duration
	asJSON         bool
	verbose        bool
	filter         domain.FilterState
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "crimectl",
		Short: "Offline queries over the Telangana crime CSV",
		Long: `crimectl reads the crime statistics CSV (a file path or http(s) URL) and runs the same
queries as the dashboard API. Use it to check a dataset before deploying it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.source, "source", defaultSource, "CSV file path or http(s) URL")
	pf.BoolVar(&opts.allowSynthetic, "allow-synthetic", false, "fall back to generated data if the CSV cannot be loaded")
	pf.Int64Var(&opts.seed, "seed", 2021, "seed for generated data")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "download timeout for URL sources")
	pf.BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log loading details to stderr")
	pf.StringVar(&opts.filter.Year, "year", domain.FilterAll, "year filter")
	pf.StringVar(&opts.filter.District, "district", domain.FilterAll, "district filter")
	pf.StringVar(&opts.filter.Category, "category", domain.FilterAll, "category filter")
	pf.StringVar(&opts.filter.CrimeType, "type", domain.FilterAll, "crime type filter")

	root.AddCommand(
		newDistrictsCmd(opts),
		newCategoriesCmd(opts),
		newYearsCmd(opts),
		newSummaryCmd(opts),
		newTopCmd(opts),
		newCompareCmd(opts),
	)
	return root
}

// statsUseCase собирает тот же use case, что и API, но без Redis и Postgres
func (o *options) statsUseCase() (*usecase.CrimeStatsUseCase, error) {
	log := zap.NewNop()
	if o.verbose {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	var loaderOpts []dataset.LoaderOption
	if o.allowSynthetic {
		loaderOpts = append(loaderOpts, dataset.WithSyntheticFallback(o.seed))
	}
	loader := dataset.NewLoader(dataset.NewSource(o.source, o.timeout), log, loaderOpts...)

	cat, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return usecase.NewCrimeStatsUseCase(loader, cache.NewQueryCache(0), cat, log), nil
}

func newDistrictsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "districts",
		Short: "List districts present in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}
			res, _, err := uc.GetFilterOptions(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printList(cmd.OutOrStdout(), res.Districts)
		},
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories, or the crime types of --category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}

			category := domain.FilterState{Category: opts.filter.Category}.Normalize().Category
			if category != domain.FilterAll {
				res, _, err := uc.GetCrimeTypes(cmd.Context(), category)
				if err != nil {
					return err
				}
				return opts.printList(cmd.OutOrStdout(), res.Types)
			}

			res, _, err := uc.GetFilterOptions(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printList(cmd.OutOrStdout(), res.Categories)
		},
	}
}

func newYearsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List years present in the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}
			res, _, err := uc.GetFilterOptions(cmd.Context())
			if err != nil {
				return err
			}
			return opts.printList(cmd.OutOrStdout(), res.Years)
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Total incidents and estimated rates for the filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}
			res, info, err := uc.GetSummary(cmd.Context(), opts.filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, map[string]interface{}{
					"dataset":             info,
					"filter":              res.Filter,
					"total_incidents":     res.TotalIncidents,
					"detection_rate":      res.DetectionRate,
					"conviction_rate":     res.ConvictionRate,
					"pending_trial_cases": res.PendingTrialCases,
					"records":             len(res.Records),
				})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "source\t%s\n", info.Source)
			if info.Synthetic {
				fmt.Fprintln(tw, "synthetic\tyes")
			}
			fmt.Fprintf(tw, "records\t%d\n", len(res.Records))
			fmt.Fprintf(tw, "total incidents\t%d\n", res.TotalIncidents)
			fmt.Fprintf(tw, "detection rate\t%.1f%%\n", res.DetectionRate)
			fmt.Fprintf(tw, "conviction rate\t%.1f%%\n", res.ConvictionRate)
			fmt.Fprintf(tw, "pending trial\t%d\n", res.PendingTrialCases)
			return tw.Flush()
		},
	}
}

func newTopCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Districts ranked by incidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit < 1 || limit > 50 {
				return fmt.Errorf("--limit must be between 1 and 50, got %d", limit)
			}
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}
			res, _, err := uc.GetTopDistricts(cmd.Context(), opts.filter, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, res.Districts)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tDISTRICT\tCRIMES")
			for i, d := range res.Districts {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, d.District, d.Crimes)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", dataset.DefaultTopN, "number of districts (1-50)")
	return cmd
}

func newCompareCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Current year against the previous one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc, err := opts.statsUseCase()
			if err != nil {
				return err
			}
			res, _, err := uc.GetYearComparison(cmd.Context(), opts.filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				return writeJSON(out, res)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "YEAR\tINCIDENTS")
			for _, p := range res.Series {
				fmt.Fprintf(tw, "%s\t%d\n", p.Year, p.Incidents)
			}
			fmt.Fprintf(tw, "avg variation\t%s%%\n", strconv.FormatFloat(res.AverageVariation, 'f', 2, 64))
			return tw.Flush()
		},
	}
}

func (o *options) printList(out io.Writer, items []string) error {
	if o.asJSON {
		return writeJSON(out, items)
	}
	for _, item := range items {
		if _, err := fmt.Fprintln(out, item); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
