package main

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/rank-eval/internal/apperr"
	"github.com/DjordjeVuckovic/rank-eval/internal/config"
	"github.com/DjordjeVuckovic/rank-eval/internal/rankeval"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliConfig struct {
	QueriesPath string
	Index       string
	Metric      string
	Fields      []string
	K           int
	Endpoint    string
	Username    string
	EnvFile     string
	DryRun      bool
	Timeout     time.Duration
	Verbose     bool
}

func (c *cliConfig) bindFlags(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&c.Fields, "field", "f", append([]string(nil), rankeval.DefaultFields...), "Field to match against, repeatable")
	fs.IntVarP(&c.K, "cutoff", "k", rankeval.DefaultK, "Number of top results the metric considers")
	fs.StringVar(&c.Endpoint, "endpoint", "", "Search engine URL, overrides RANKEVAL_ENDPOINT")
	fs.StringVar(&c.Username, "username", "", "Basic auth user, overrides RANKEVAL_USERNAME")
	fs.StringVar(&c.EnvFile, "env-file", config.DefaultEnvFile, "Path to a dotenv file")
	fs.BoolVar(&c.DryRun, "dry-run", false, "Print the request body instead of sending it")
	fs.DurationVar(&c.Timeout, "timeout", 0, "Request timeout, 0 waits indefinitely")
	fs.BoolVarP(&c.Verbose, "verbose", "v", false, "Enable debug logging")
}

// applyArgs maps positionals: <queries-file> [index] [metric].
func (c *cliConfig) applyArgs(args []string) {
	c.QueriesPath = args[0]
	if len(args) > 1 {
		c.Index = args[1]
	}
	c.Metric = string(rankeval.DefaultKind)
	if len(args) > 2 {
		c.Metric = args[2]
	}
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return apperr.NewValidation(fmt.Sprintf("expected <queries-file> [index] [metric], got %d argument(s)", len(args)))
	}
	if len(args) > 2 {
		if _, err := rankeval.ParseKind(args[2]); err != nil {
			return err
		}
	}
	return nil
}
