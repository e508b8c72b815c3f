package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rank-eval/internal/config"
	"github.com/DjordjeVuckovic/rank-eval/internal/es"
	"github.com/DjordjeVuckovic/rank-eval/internal/judgment"
	"github.com/DjordjeVuckovic/rank-eval/internal/rankeval"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		slog.Error("Rank eval failed", "error", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := cliConfig{}

	cmd := &cobra.Command{
		Use:   "rank-eval <queries-file> [index] [metric]",
		Short: "Score judged queries against an index with the _rank_eval API",
		Long: `Builds a _rank_eval request from a judgment file and prints the raw response.

The judgment file is a JSON (or YAML) array of groups:
  [{"queries": ["climate change"], "items": [{"hash": "<doc id>", "rating": 1}]}]

Every query in a group is evaluated against the group's ratings.

Metrics: precision, mean_reciprocal_rank, dcg, expected_reciprocal_rank.
Connection settings come from RANKEVAL_ENDPOINT, RANKEVAL_USERNAME,
RANKEVAL_PASSWORD and RANKEVAL_INDEX, optionally via a .env file.`,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.applyArgs(args)
			return run(cmd.Context(), cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.NewValidationWrap("invalid flag", err)
	})

	cfg.bindFlags(cmd.Flags())

	return cmd
}

func run(ctx context.Context, cfg cliConfig, stdout, stderr io.Writer) error {
	appCfg, err := config.Load(cfg.EnvFile)
	if err != nil {
		return err
	}
	setupLogger(stderr, appCfg, cfg.Verbose)

	if cfg.Endpoint != "" {
		appCfg.Endpoint = cfg.Endpoint
	}
	if cfg.Username != "" {
		appCfg.Username = cfg.Username
	}
	if err := appCfg.Validate(); err != nil {
		return err
	}
	index := cfg.Index
	if index == "" {
		index = appCfg.Index
	}

	kind, err := rankeval.ParseKind(cfg.Metric)
	if err != nil {
		return err
	}
	metric, err := rankeval.NewMetric(kind, cfg.K)
	if err != nil {
		return err
	}

	set, err := judgment.LoadFromFile(cfg.QueriesPath)
	if err != nil {
		return fmt.Errorf("load judgments: %w", err)
	}
	slog.Info("Loaded judgments",
		"path", cfg.QueriesPath,
		"groups", len(set),
		"queries", set.QueryCount())

	reqs := rankeval.TranslateAll(set, index, cfg.Fields)
	for _, id := range rankeval.DuplicateIDs(reqs) {
		slog.Warn("Duplicate request id, engine results will overwrite each other", "id", id)
	}
	body := rankeval.NewBody(reqs, metric)

	slog.Debug("Rank eval prepared",
		"index", index,
		"metric", kind,
		"k", metric.Cutoff(),
		"fields", cfg.Fields)

	if cfg.DryRun {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(body); err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		return nil
	}

	submitter, err := es.NewSubmitter(appCfg.ClientConfig())
	if err != nil {
		return err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	text, err := submitter.Submit(ctx, index, body)
	if err != nil {
		return fmt.Errorf("submit rank eval: %w", err)
	}

	_, err = fmt.Fprintln(stdout, text)
	return err
}

func setupLogger(w io.Writer, cfg config.Config, verbose bool) {
	level := cfg.Level()
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
