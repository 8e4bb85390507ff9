// Package chart renders bar charts of report tables with gonum/plot.
package chart

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/vegasq/csvreport/table"
)

// Default figure size in inches
const (
	DefaultWidth  = 6.4
	DefaultHeight = 4.8
)

var (
	// ErrNotChartable is returned when a table does not have exactly one
	// category column and one other column
	ErrNotChartable = errors.New("table does not have one category and one metric column")

	// ErrNonNumericMetric is returned when the metric column holds text
	ErrNonNumericMetric = errors.New("metric column is not numeric")

	// ErrUnsupportedFormat is returned for an image path with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// formats maps file extensions to gonum/plot format names
var formats = map[string]string{
	".png":  "png",
	".jpg":  "jpg",
	".jpeg": "jpg",
	".svg":  "svg",
	".pdf":  "pdf",
	".eps":  "eps",
	".tif":  "tif",
	".tiff": "tif",
}

// Options controls the rendered figure
type Options struct {
	Title string

	// Width and Height are in inches. Zero uses the defaults.
	Width  float64
	Height float64
}

// MetricColumn picks the bar height column for a chart of t grouped by
// groupBy.
//
// A chart needs exactly one group column present in t and exactly one
// other column, which must be numeric.
func MetricColumn(t *table.Table, groupBy []string) (string, error) {
	if len(groupBy) != 1 || !t.Has(groupBy[0]) || t.Width() != 2 {
		return "", ErrNotChartable
	}

	for _, col := range t.Columns() {
		if col.Name == groupBy[0] {
			continue
		}
		if !col.Kind.Numeric() {
			return "", errors.Wrapf(ErrNonNumericMetric, "%q", col.Name)
		}
		return col.Name, nil
	}
	return "", ErrNotChartable
}

// FormatFor returns the image format for path
func FormatFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	format, ok := formats[ext]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedFormat, "%q", ext)
	}
	return format, nil
}

// Bar builds a bar chart with one bar per row of t. Category labels come
// from the category column and bar heights from the metric column; null
// metrics are drawn as zero.
func Bar(t *table.Table, category, metric string, opts Options) (*plot.Plot, error) {
	labelCol, ok := t.Column(category)
	if !ok {
		return nil, errors.Errorf("column %q not in table", category)
	}
	valueCol, ok := t.Column(metric)
	if !ok {
		return nil, errors.Errorf("column %q not in table", metric)
	}

	heights, err := valueCol.Floats()
	if err != nil {
		return nil, err
	}
	values := make(plotter.Values, len(heights))
	for i, h := range heights {
		if math.IsNaN(h) || math.IsInf(h, 0) {
			h = 0
		}
		values[i] = h
	}

	labels := make([]string, labelCol.Len())
	for i := range labels {
		labels[i] = labelCol.Format(i)
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = category
	p.Y.Label.Text = metric

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	return p, nil
}

// Save renders p to path on fs. Parent directories are created.
func Save(fs afero.Fs, path string, p *plot.Plot, opts Options) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, format)
	if err != nil {
		return errors.Wrap(err, "failed to render chart")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create chart file")
	}
	if _, err := wt.WriteTo(f); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "failed to write chart")
	}
	return errors.Wrap(f.Close(), "failed to close chart file")
}
