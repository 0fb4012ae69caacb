package report

import (
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrUnknownChart is returned for a chart name the report does not define.
var ErrUnknownChart = errors.New("unknown chart")

const (
	chartWidth  = 640
	chartHeight = 400
)

var palette = []drawing.Color{
	drawing.ColorFromHex("4C72B0"),
	drawing.ColorFromHex("DD8452"),
	drawing.ColorFromHex("55A868"),
	drawing.ColorFromHex("C44E52"),
	drawing.ColorFromHex("8172B3"),
	drawing.ColorFromHex("937860"),
	drawing.ColorFromHex("DA8BC3"),
}

func barStyle(i int) chart.Style {
	return chart.Style{
		FillColor:   palette[i%len(palette)],
		StrokeColor: drawing.ColorBlack,
		StrokeWidth: 0.5,
	}
}

// Chart writes the named chart of rep as SVG. A chart with no data renders
// an empty-state image rather than failing.
func Chart(w io.Writer, rep Report, name string) error {
	data, ok := rep.Charts[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}
	if data.Stacked {
		return renderStacked(w, data)
	}
	return renderBars(w, data)
}

func renderBars(w io.Writer, data ChartData) error {
	var top float64
	bars := make([]chart.Value, 0, len(data.Bars))
	for i, b := range data.Bars {
		if len(b.Values) == 0 {
			continue
		}
		v := b.Values[0]
		if v > top {
			top = v
		}
		bars = append(bars, chart.Value{Label: b.Label, Value: v, Style: barStyle(i)})
	}
	if len(bars) == 0 {
		return renderEmpty(w, data)
	}
	if top <= 0 {
		top = 1
	}

	graph := chart.BarChart{
		Title:      data.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth(len(bars)),
		YAxis: chart.YAxis{
			Name:  data.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	return graph.Render(chart.SVG, w)
}

func renderStacked(w io.Writer, data ChartData) error {
	bars := make([]chart.StackedBar, 0, len(data.Bars))
	for _, b := range data.Bars {
		var total float64
		values := make([]chart.Value, 0, len(b.Values))
		for i, v := range b.Values {
			total += v
			label := ""
			if i < len(data.Series) {
				label = data.Series[i]
			}
			values = append(values, chart.Value{Label: label, Value: v, Style: barStyle(i)})
		}
		// Bars are drawn as shares of their total, which is undefined at zero.
		if total <= 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{Name: b.Label, Values: values})
	}
	if len(bars) == 0 {
		return renderEmpty(w, data)
	}

	graph := chart.StackedBarChart{
		Title:      data.Title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		Width:      chartWidth,
		Height:     chartHeight,
		BarSpacing: 40,
		Bars:       bars,
	}
	return graph.Render(chart.SVG, w)
}

func barWidth(n int) int {
	if n <= 0 {
		return 60
	}
	width := (chartWidth - 120) / n * 2 / 3
	switch {
	case width > 80:
		return 80
	case width < 20:
		return 20
	}
	return width
}

const emptySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">` +
	`<rect width="100%%" height="100%%" fill="#ffffff" stroke="#cccccc"/>` +
	`<text x="50%%" y="45%%" text-anchor="middle" font-family="sans-serif" font-size="16" fill="#333333">%s</text>` +
	`<text x="50%%" y="55%%" text-anchor="middle" font-family="sans-serif" font-size="13" fill="#888888">No data for the current filters</text>` +
	`</svg>`

func renderEmpty(w io.Writer, data ChartData) error {
	_, err := fmt.Fprintf(w, emptySVG, chartWidth, chartHeight, chartWidth, chartHeight, html.EscapeString(data.Title))
	return err
}
