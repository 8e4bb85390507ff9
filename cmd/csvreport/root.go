package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vegasq/csvreport/config"
	"github.com/vegasq/csvreport/query"
	"github.com/vegasq/csvreport/report"
)

// newRootCmd builds the csvreport command over fs
func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csvreport",
		Short: "Filter, group and aggregate a table, then write a report and an optional bar chart",
		Example: `csvreport -i sales.csv -f "status=completed" -g region -a sum:amount -o report.csv -p report.png
csvreport -i "data/2024-*.csv.gz" -g region,city -a count:* -o out/counts.parquet
csvreport -i events.jsonl --schema`,
		Args:          noPositionalArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(fs, cmd.Flags(), ".")
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if s.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
			if s.ConfigFile != "" {
				logger.Debug("using config file", "path", s.ConfigFile)
			}

			runner := &report.Runner{Fs: fs, Logger: logger, Stdout: stdout}
			if s.Schema {
				return runner.Describe(cmd.Context(), s)
			}

			res, err := runner.Run(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, res.Message())
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "input table: CSV, TSV, gzip CSV, JSON Lines or Parquet; glob patterns allowed")
	flags.StringArrayP("filter", "f", nil, `row filter such as "status=completed" or "amount>=15"; repeatable, all must match`)
	flags.StringSliceP("group-by", "g", nil, "group-by columns; repeat the flag (-g region -g city) or separate with commas (-g region,city)")
	flags.StringSliceP("agg", "a", nil, "aggregations as function:column, e.g. sum:amount or count:*; repeat the flag (-a sum:amount -a mean:price) or separate with commas")
	flags.StringP("out", "o", "report.csv", "output table path (.csv, .jsonl or .parquet)")
	flags.StringP("plot", "p", "", "optional bar chart path (.png, .svg, .pdf, ...)")
	flags.StringP("delimiter", "d", "", `input field delimiter (default "," or tab for .tsv)`)
	flags.Bool("preview", false, "also print the result as a text table")
	flags.Bool("schema", false, "print the inferred input schema instead of writing a report")
	flags.String("title", "", "chart title")
	flags.String("config", "", "config file (default .csvreport.{yaml,toml,json} in the working directory)")
	flags.BoolP("verbose", "v", false, "debug logging on stderr")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// noPositionalArgs rejects stray arguments, which usually come from
// space-separated -g or -a values
func noPositionalArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	return errors.Errorf("unexpected argument %q: pass several group-by or agg values by repeating the flag (-a sum:amount -a mean:price) or separating them with commas (-a sum:amount,mean:price)", args[0])
}

// run executes the command and returns the process exit code
func run(ctx context.Context, fs afero.Fs, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(fs, stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if available, ok := query.AvailableColumns(err); ok {
		fmt.Fprintf(w, "Available columns: %s\n", available)
	}
	if errors.Is(err, query.ErrUnknownFunction) {
		fmt.Fprintf(w, "Supported functions: %s\n", strings.Join(query.ReducerNames(), ", "))
	}
}
