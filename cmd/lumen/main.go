// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/lumen-analytics/lumen/cmd/lumen/cli"
	"github.com/lumen-analytics/lumen/lib/clock"
	"github.com/lumen-analytics/lumen/lib/config"
	"github.com/lumen-analytics/lumen/lib/dashui"
	"github.com/lumen-analytics/lumen/lib/poll"
	"github.com/lumen-analytics/lumen/lib/prefs"
	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
	"github.com/lumen-analytics/lumen/lib/statsapi"
	"github.com/lumen-analytics/lumen/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		var exitError *cli.ExitError
		if errors.As(err, &exitError) {
			os.Exit(exitError.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath string
	site       string
	period     string
	date       string
	from       string
	to         string
	filters    []string
	tab        string
	print      bool
	statePath  string
	noState    bool
	logOutput  string
	help       bool
	version    bool
}

func parseArguments(args []string) (*options, *pflag.FlagSet, error) {
	parsed := &options{}
	flagSet := pflag.NewFlagSet("lumen", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&parsed.configPath, "config", "", "YAML config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&parsed.site, "site", "", "site domain to show (overrides dashboard.site)")
	flagSet.StringVar(&parsed.period, "period", "", "reporting window: realtime, day, 7d, 30d, month, 6mo, 12mo, custom")
	flagSet.StringVar(&parsed.date, "date", "", "anchor date for day and month periods (YYYY-MM-DD)")
	flagSet.StringVar(&parsed.from, "from", "", "first day of a custom period (YYYY-MM-DD)")
	flagSet.StringVar(&parsed.to, "to", "", "last day of a custom period (YYYY-MM-DD)")
	flagSet.StringArrayVar(&parsed.filters, "filter", nil, "initial filter as key=value (repeatable; props=name:value)")
	flagSet.StringVar(&parsed.tab, "tab", "", "sources tab for --print: all, utm_medium, utm_source, utm_campaign (default: the saved tab)")
	flagSet.BoolVar(&parsed.print, "print", false, "fetch once and print a table instead of starting the dashboard")
	flagSet.StringVar(&parsed.statePath, "state", "", "preference database (overrides state.path)")
	flagSet.BoolVar(&parsed.noState, "no-state", false, "keep preferences in memory only")
	flagSet.StringVar(&parsed.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolVar(&parsed.version, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			parsed.help = true
			return parsed, flagSet, nil
		}
		return nil, flagSet, cli.Validation("%w", err).WithHint("Run 'lumen --help' for usage.")
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, flagSet, cli.Validation("unexpected argument: %s", rest[0])
	}
	return parsed, flagSet, nil
}

func run(args []string, stdout io.Writer) error {
	parsed, flagSet, err := parseArguments(args)
	if err != nil {
		return err
	}
	if parsed.help {
		printHelp(os.Stderr, flagSet)
		return nil
	}
	if parsed.version {
		fmt.Fprintln(stdout, "lumen "+version.Full())
		return nil
	}

	cfg, err := loadConfig(parsed)
	if err != nil {
		return err
	}
	current, err := initialQuery(cfg, parsed)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if parsed.print {
		logger := cli.NewCommandLogger(cfg.LogLevel())
		fetcher, err := newFetcher(cfg, logger)
		if err != nil {
			return err
		}
		store, err := openStore(cfg, parsed, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		return printSources(ctx, stdout, fetcher, store, cfg.Dashboard.Site, current, parsed.tab)
	}
	return runDashboard(ctx, cfg, parsed, current)
}

// loadConfig reads the config file and applies flag overrides, then
// validates the result.
func loadConfig(parsed *options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if parsed.configPath != "" {
		cfg, err = config.LoadFile(parsed.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	if parsed.site != "" {
		cfg.Dashboard.Site = parsed.site
	}
	if parsed.period != "" {
		cfg.Dashboard.Period = parsed.period
	}
	if parsed.statePath != "" {
		cfg.State.Path = parsed.statePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	if cfg.Dashboard.Site == "" {
		return nil, cli.Validation("no site selected").
			WithHint("Pass --site example.com or set dashboard.site in the config file.")
	}
	return cfg, nil
}

// initialQuery builds the starting query from the period flags and
// the --filter arguments.
func initialQuery(cfg *config.Config, parsed *options) (query.Query, error) {
	current := query.New(cfg.Dashboard.Period)
	current.Date = parsed.date
	if cfg.Dashboard.Period == "custom" {
		if parsed.from == "" || parsed.to == "" {
			return query.Query{}, cli.Validation("a custom period needs --from and --to")
		}
		current.From = parsed.from
		current.To = parsed.to
	}
	for _, argument := range parsed.filters {
		filter, err := query.ParseFilter(argument)
		if err != nil {
			return query.Query{}, cli.Validation("%w", err).
				WithHint("Filters take key=value, for example --filter source=Google or --filter props=plan:pro.")
		}
		current = current.With(filter.Key, filter.Value)
	}
	if current.Has(query.KeyProps) && !current.HasGoal() {
		return query.Query{}, cli.Validation("a props filter needs a goal filter")
	}
	return current, nil
}

func newFetcher(cfg *config.Config, logger *slog.Logger) (*sources.Fetcher, error) {
	client, err := statsapi.New(statsapi.Options{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.RequestTimeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	policy, err := sources.ParseMissingPolicy(cfg.Dashboard.MissingBaseline)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return sources.NewFetcher(client, sources.FetcherOptions{
		Merge:  sources.ConversionRate(policy),
		Limit:  cfg.Dashboard.PanelRows,
		Logger: logger,
	}), nil
}

// openStore opens the preference database, creating its directory,
// or an in-memory store with --no-state.
func openStore(cfg *config.Config, parsed *options, logger *slog.Logger) (prefs.Store, error) {
	if parsed.noState {
		return prefs.NewMemoryStore(clock.Real()), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.State.Path), 0o700); err != nil {
		return nil, cli.Internal("creating state directory: %w", err).
			WithHint("Pass --no-state to run without saving preferences.")
	}
	store, err := prefs.Open(prefs.Config{Path: cfg.State.Path, Logger: logger})
	if err != nil {
		return nil, cli.Internal("%w", err).
			WithHint("Pass --no-state to run without saving preferences.")
	}
	return store, nil
}

// runDashboard runs the interactive view. Log records go to the status
// line (stderr would corrupt the alternate screen) and, with
// --log-output, to a JSON file as well.
func runDashboard(ctx context.Context, cfg *config.Config, parsed *options, current query.Query) error {
	tuiHandler := dashui.NewTUILogHandler(cfg.LogLevel())
	var handler slog.Handler = tuiHandler
	if parsed.logOutput != "" {
		file, err := os.Create(parsed.logOutput)
		if err != nil {
			return cli.Validation("cannot open log file %s: %w", parsed.logOutput, err)
		}
		defer file.Close()
		handler = dashui.TeeHandler{tuiHandler, cli.NewHandler(file, slog.LevelDebug, false)}
	}
	logger := slog.New(handler)

	fetcher, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	store, err := openStore(cfg, parsed, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var timer *poll.Timer
	if current.Realtime() {
		timer = poll.New(cfg.PollEvery(), clock.Real(), logger)
	}

	model := dashui.NewModel(dashui.Options{
		Context:      ctx,
		Site:         cfg.Dashboard.Site,
		Query:        current,
		Fetcher:      fetcher,
		Store:        store,
		Poll:         timer,
		CompactWidth: cfg.Dashboard.CompactWidth,
		Logger:       logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	tuiHandler.SetProgram(program)

	if timer != nil {
		timer.Start(ctx)
		defer timer.Stop()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return cli.Internal("dashboard: %w", err)
	}
	return nil
}

func printHelp(writer io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(writer, `lumen: terminal dashboard for web analytics.

Shows the Top Sources panel for one site under a filter bar. The
period comes from --period or dashboard.period; realtime refreshes
every dashboard.poll_interval.

Usage:
  lumen [flags]

Examples:
  # Open the dashboard for a site
  lumen --site example.com

  # Start filtered to one referrer source and a goal
  lumen --site example.com --filter source=Google --filter goal=Signup

  # Print the UTM campaigns of the last 7 days
  lumen --site example.com --period 7d --tab utm_campaign --print

Keys:
  f filters   1-9 remove filter   Esc clear all   Backspace back
  [ ] tabs    Enter filter by row   v see more   r retry   q quit

Exit status:
  0 ok   1 internal   2 bad input   3 unknown site   4 retry later
  5 --print found no rows

Flags:
`)
	flagSet.SetOutput(writer)
	flagSet.PrintDefaults()
}
