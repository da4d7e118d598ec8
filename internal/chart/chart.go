// Package chart renders burndown series as PNG line charts.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/huangsam/burndown/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Figure size in inches.
const (
	Width  = 12 * vg.Inch
	Height = 8 * vg.Inch
)

// Series labels shown in the legend.
const (
	IdealLabel  = "Ideal Burndown"
	ActualLabel = "Actual Burndown"
)

var (
	idealColor  = color.RGBA{B: 255, A: 255}
	actualColor = color.RGBA{G: 128, A: 255}
	gridColor   = color.Gray{Y: 200}

	gridDashes = []vg.Length{vg.Points(4), vg.Points(3)}
	lineDashes = []vg.Length{vg.Points(8), vg.Points(4)}
)

// Title returns the two-line chart title.
func Title(owner, repo string, created time.Time) string {
	return fmt.Sprintf("Burndown Chart - %s/%s\nCreated: %s", owner, repo, created.Format(schema.CreatedLayout))
}

// Render draws the ideal and actual curves with date ticks on the x axis.
// The returned plot lives in memory until it is saved.
func Render(series schema.BurndownSeries, owner, repo string, created time.Time) (*plot.Plot, error) {
	n := series.Len()
	if n == 0 || len(series.Ideal) != n || len(series.Actual) != n {
		return nil, fmt.Errorf("misaligned series: %d dates, %d ideal, %d actual", n, len(series.Ideal), len(series.Actual))
	}

	p := plot.New()
	p.Title.Text = Title(owner, repo, created)
	p.Title.Padding = vg.Points(20)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Sprint Days"
	p.Y.Label.Text = "Remaining Work"

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Vertical.Dashes = gridDashes
	grid.Horizontal.Color = gridColor
	grid.Horizontal.Dashes = gridDashes
	p.Add(grid)

	ideal := make(plotter.XYs, n)
	actual := make(plotter.XYs, n)
	for i := range n {
		ideal[i] = plotter.XY{X: float64(i), Y: series.Ideal[i]}
		actual[i] = plotter.XY{X: float64(i), Y: float64(series.Actual[i])}
	}

	idealLine, idealPoints, err := plotter.NewLinePoints(ideal)
	if err != nil {
		return nil, fmt.Errorf("failed to build ideal line: %w", err)
	}
	styleSeries(idealLine, idealPoints, idealColor, 2)
	idealLine.Dashes = lineDashes

	actualLine, actualPoints, err := plotter.NewLinePoints(actual)
	if err != nil {
		return nil, fmt.Errorf("failed to build actual line: %w", err)
	}
	styleSeries(actualLine, actualPoints, actualColor, 2)

	p.Add(idealLine, idealPoints, actualLine, actualPoints)
	p.Legend.Add(IdealLabel, idealLine, idealPoints)
	p.Legend.Add(ActualLabel, actualLine, actualPoints)
	p.Legend.Top = true

	p.X.Tick.Marker = dateTicks(series.Dates)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Min = 0
	p.X.Max = math.Max(float64(n-1), 1)

	p.Y.Min = math.Min(p.Y.Min, 0)
	if p.Y.Max <= p.Y.Min {
		p.Y.Max = p.Y.Min + 1
	}
	return p, nil
}

// styleSeries applies a shared color to a line and its circle markers.
func styleSeries(line *plotter.Line, points *plotter.Scatter, c color.Color, width float64) {
	line.Color = c
	line.Width = vg.Points(width)
	points.Color = c
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)
}

// dateTicks labels every sprint day with its date.
func dateTicks(dates []string) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(dates))
	for i, d := range dates {
		ticks[i] = plot.Tick{Value: float64(i), Label: d}
	}
	return ticks
}
