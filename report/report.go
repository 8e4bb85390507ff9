// Package report runs the csvreport pipeline: load a table, filter it,
// optionally group and aggregate it, write the result and optionally draw
// a bar chart of it.
package report

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/vegasq/csvreport/chart"
	"github.com/vegasq/csvreport/config"
	"github.com/vegasq/csvreport/output"
	"github.com/vegasq/csvreport/query"
	"github.com/vegasq/csvreport/reader"
	"github.com/vegasq/csvreport/table"
)

// previewRows caps the rows printed by --preview
const previewRows = 20

// ErrNoInput is returned when no input path is configured
var ErrNoInput = errors.New("no input path given")

// Runner executes reports against a filesystem
type Runner struct {
	Fs     afero.Fs
	Logger *slog.Logger

	// Stdout receives previews and schema listings
	Stdout io.Writer
}

// Result describes what a run produced
type Result struct {
	Out   string
	Chart string
	Rows  int
}

// Message is the line printed after a successful run
func (r *Result) Message() string {
	msg := "Saved table to " + r.Out
	if r.Chart != "" {
		msg += " and chart to " + r.Chart
	}
	return msg
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return r.Logger
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout == nil {
		return io.Discard
	}
	return r.Stdout
}

// Run executes one report.
//
// Everything that can fail before the output is written is checked first,
// so an unknown column or a bad filter never leaves a file behind. The
// chart is drawn only when the result has one group column and one
// numeric metric column; otherwise it is skipped with a warning.
func (r *Runner) Run(ctx context.Context, s *config.Settings) (*Result, error) {
	log := r.logger()

	if s.Input == "" {
		return nil, ErrNoInput
	}
	delim, err := s.Delim()
	if err != nil {
		return nil, err
	}
	if s.Plot != "" {
		if _, err := chart.FormatFor(s.Plot); err != nil {
			return nil, err
		}
	}

	t, err := reader.Load(r.Fs, s.Input, reader.Options{Delimiter: delim})
	if err != nil {
		return nil, err
	}
	log.Debug("loaded input", "path", s.Input, "rows", t.Len(), "columns", t.Width())

	conds := query.ParseFilters(s.Filters)
	if dropped := len(s.Filters) - len(conds); dropped > 0 {
		log.Debug("ignored filters without an operator", "count", dropped)
	}
	t, err = query.ApplyFilters(t, conds)
	if err != nil {
		return nil, err
	}
	log.Debug("applied filters", "filters", len(conds), "rows", t.Len())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := t
	if len(s.GroupBy) > 0 && len(s.Aggs) > 0 {
		specs := query.ParseAggSpecs(s.Aggs)
		out, err = query.Aggregate(t, s.GroupBy, specs)
		if err != nil {
			return nil, err
		}
		log.Debug("aggregated", "group_by", s.GroupBy, "groups", out.Len(), "count_rows", query.HasCountRows(specs))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// count:* results take the same write path as every other result, so
	// parent directories are created and the caller prints the usual message.
	if err := output.WriteFile(r.Fs, s.Out, out); err != nil {
		return nil, err
	}
	log.Debug("wrote table", "path", s.Out, "rows", out.Len())

	res := &Result{Out: s.Out, Rows: out.Len()}

	if s.Preview {
		f := output.NewTableFormatter(r.stdout())
		f.MaxRows = previewRows
		if err := f.Format(out); err != nil {
			return nil, err
		}
	}

	if s.Plot != "" && len(s.GroupBy) > 0 {
		drawn, err := r.drawChart(out, s)
		if err != nil {
			return nil, err
		}
		if drawn {
			res.Chart = s.Plot
		}
	}

	return res, nil
}

func (r *Runner) drawChart(t *table.Table, s *config.Settings) (bool, error) {
	log := r.logger()

	metric, err := chart.MetricColumn(t, s.GroupBy)
	if err != nil {
		log.Warn("skipping chart", "path", s.Plot, "reason", err)
		return false, nil
	}

	opts := chart.Options{Title: s.Title, Width: s.Chart.Width, Height: s.Chart.Height}
	p, err := chart.Bar(t, s.GroupBy[0], metric, opts)
	if err != nil {
		return false, err
	}
	if err := chart.Save(r.Fs, s.Plot, p, opts); err != nil {
		return false, err
	}

	log.Debug("wrote chart", "path", s.Plot, "metric", metric)
	return true, nil
}

// Describe prints the inferred schema of the configured input instead of
// running a report
func (r *Runner) Describe(ctx context.Context, s *config.Settings) error {
	if s.Input == "" {
		return ErrNoInput
	}
	delim, err := s.Delim()
	if err != nil {
		return err
	}

	infos, err := reader.ExtractSchemaInfo(r.Fs, s.Input, reader.Options{Delimiter: delim})
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, err := reader.SchemaTable(infos)
	if err != nil {
		return err
	}
	return output.WriteStream(r.stdout(), "table", t)
}
