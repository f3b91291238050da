package charts

import (
	"context"
	"image/color"
	"log/slog"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"mpoxcli/internal/config"
	"mpoxcli/internal/dataprocessing"
	apperrors "mpoxcli/internal/errors"
	"mpoxcli/internal/infrastructure"
	"mpoxcli/pkg/contracts/domain"
)

// Bar colors
var (
	Blue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	Purple = color.RGBA{R: 128, G: 0, B: 128, A: 178}
	Orange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
)

const (
	regionLabelRotation  = math.Pi / 4
	countryLabelRotation = math.Pi / 2
)

// Renderer writes bar charts as PNG files into one directory.
// Each method writes exactly one file, replacing any file already there.
type Renderer struct {
	paths  *config.Paths
	width  vg.Length
	height vg.Length
	logger *slog.Logger
}

// NewRenderer creates a Renderer writing into paths.FiguresDir
func NewRenderer(paths *config.Paths, cfg config.ChartsConfig, logger *slog.Logger) *Renderer {
	width, height := cfg.WidthInches, cfg.HeightInches
	if width <= 0 {
		width = config.DefaultChartWidth
	}
	if height <= 0 {
		height = config.DefaultChartHeight
	}
	return &Renderer{
		paths:  paths,
		width:  vg.Length(width) * vg.Inch,
		height: vg.Length(height) * vg.Inch,
		logger: infrastructure.WithComponent(logger, "charts"),
	}
}

// series is one set of bars
type series struct {
	legend string
	values plotter.Values
	color  color.Color
}

// barChart describes one figure
type barChart struct {
	file     string
	title    string
	xLabel   string
	yLabel   string
	labels   []string
	series   []series
	rotation float64
}

// CasesByRegion plots summed case totals per region
func (r *Renderer) CasesByRegion(ctx context.Context, totals []dataprocessing.RegionTotals) (string, error) {
	return r.regionChart(ctx, totals, domain.ColumnCaseTotal, barChart{
		file:   config.ChartCasesByRegion,
		title:  "Total Cases by Continent",
		yLabel: "Total Cases",
	}, Blue)
}

// DeathsByRegion plots summed death totals per region
func (r *Renderer) DeathsByRegion(ctx context.Context, totals []dataprocessing.RegionTotals) (string, error) {
	return r.regionChart(ctx, totals, domain.ColumnDeathTotal, barChart{
		file:   config.ChartDeathsByRegion,
		title:  "Total Deaths by Continent",
		yLabel: "Total Deaths",
	}, Red)
}

func (r *Renderer) regionChart(ctx context.Context, totals []dataprocessing.RegionTotals, col domain.Column, chart barChart, c color.Color) (string, error) {
	labels := make([]string, len(totals))
	values := make(plotter.Values, len(totals))
	for i, t := range totals {
		v, err := t.Total(col)
		if err != nil {
			return "", apperrors.NewRenderError("invalid region column", err).WithContext("chart", chart.file)
		}
		labels[i] = t.Region
		values[i] = float64(v)
	}

	chart.xLabel = "Continent"
	chart.labels = labels
	chart.series = []series{{values: values, color: c}}
	chart.rotation = regionLabelRotation
	return r.render(ctx, chart)
}

// MostRecentUpdates plots cases and deaths of the given records as two
// overlaid series. Callers pass the most recently updated countries.
func (r *Renderer) MostRecentUpdates(ctx context.Context, table domain.Table) (string, error) {
	return r.render(ctx, barChart{
		file:   config.ChartMostRecent,
		title:  "Most Recent Updates: Cases and Deaths",
		xLabel: "Country",
		yLabel: "Total",
		labels: table.Countries(),
		series: []series{
			{legend: "Total Cases", values: countValues(table, domain.ColumnCaseTotal), color: Green},
			{legend: "Total Deaths", values: countValues(table, domain.ColumnDeathTotal), color: Purple},
		},
		rotation: countryLabelRotation,
	})
}

// TopCases plots case totals of the given records, in order
func (r *Renderer) TopCases(ctx context.Context, table domain.Table) (string, error) {
	return r.render(ctx, barChart{
		file:     config.ChartTopCases,
		title:    "Top 10 Countries by Total Cases",
		xLabel:   "Country",
		yLabel:   "Total Cases",
		labels:   table.Countries(),
		series:   []series{{values: countValues(table, domain.ColumnCaseTotal), color: Blue}},
		rotation: countryLabelRotation,
	})
}

// TopDeaths plots death totals of the given records, in order
func (r *Renderer) TopDeaths(ctx context.Context, table domain.Table) (string, error) {
	return r.render(ctx, barChart{
		file:     config.ChartTopDeaths,
		title:    "Top 10 Countries by Total Deaths",
		xLabel:   "Country",
		yLabel:   "Total Deaths",
		labels:   table.Countries(),
		series:   []series{{values: countValues(table, domain.ColumnDeathTotal), color: Red}},
		rotation: countryLabelRotation,
	})
}

// PercentChange plots perc_change_cases per country, largest first.
// Countries without a value are left out.
func (r *Renderer) PercentChange(ctx context.Context, table domain.Table) (string, error) {
	sorted := dataprocessing.SortByPercentChange(table)

	values := make(plotter.Values, sorted.Len())
	for i, rec := range sorted.Records {
		values[i] = rec.PercChangeCases.Float64
	}

	return r.render(ctx, barChart{
		file:     config.ChartPercentageChange,
		title:    "Percentage Change in Cases by Country",
		xLabel:   "Country",
		yLabel:   "Percentage Change",
		labels:   sorted.Countries(),
		series:   []series{{values: values, color: Orange}},
		rotation: countryLabelRotation,
	})
}

// countValues reads a count column; missing values plot as zero-height bars
func countValues(table domain.Table, col domain.Column) plotter.Values {
	values := make(plotter.Values, table.Len())
	for i, rec := range table.Records {
		if v, err := rec.Int(col); err == nil && v.Valid {
			values[i] = float64(v.Int64)
		}
	}
	return values
}

func (r *Renderer) render(ctx context.Context, chart barChart) (string, error) {
	p := plot.New()
	p.Title.Text = chart.title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = chart.xLabel
	p.Y.Label.Text = chart.yLabel

	n := len(chart.labels)
	width := barWidth(r.width, n)
	nonNegative := true

	for _, s := range chart.series {
		if len(s.values) == 0 {
			continue
		}
		bars, err := plotter.NewBarChart(s.values, width)
		if err != nil {
			return "", apperrors.NewRenderError("failed to build bar chart", err).WithContext("chart", chart.file)
		}
		bars.Color = s.color
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		if s.legend != "" {
			p.Legend.Add(s.legend, bars)
		}
		for _, v := range s.values {
			if v < 0 {
				nonNegative = false
			}
		}
	}

	if n > 0 {
		p.NominalX(chart.labels...)
		p.X.Tick.Label.Rotation = chart.rotation
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}
	p.Legend.Top = true

	if nonNegative {
		p.Y.Min = 0
		if p.Y.Max <= 0 {
			p.Y.Max = 1
		}
	}

	return r.save(ctx, p, chart.file, n)
}

// barWidth fits n bars into the figure width
func barWidth(figure vg.Length, n int) vg.Length {
	if n <= 0 {
		return vg.Points(20)
	}
	w := figure * 0.8 / vg.Length(n) * 0.8
	if w > vg.Points(40) {
		w = vg.Points(40)
	}
	if w < vg.Points(1) {
		w = vg.Points(1)
	}
	return w
}

func (r *Renderer) save(ctx context.Context, p *plot.Plot, file string, bars int) (string, error) {
	if err := os.MkdirAll(r.paths.FiguresDir, 0755); err != nil {
		return "", apperrors.NewIOError("failed to create figures directory", r.paths.FiguresDir, err)
	}

	path := r.paths.GetFigurePath(file)

	writer, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return "", apperrors.NewRenderError("failed to render chart", err).WithPath(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewIOError("failed to create chart file", path, err)
	}
	defer f.Close()

	if _, err := writer.WriteTo(f); err != nil {
		return "", apperrors.NewIOError("failed to write chart file", path, err)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.NewIOError("failed to close chart file", path, err)
	}

	r.logger.InfoContext(ctx, "Chart written",
		slog.String("path", path),
		slog.Int("bars", bars))

	return path, nil
}
