// plot charts every field of a trace against frame index, for a quick look at a
// simulation without playing it back.
package plot

import (
	"errors"
	"fmt"
	"io"

	"github.com/Otago-Computing-Students-Society/FoosballGeneticLearning/models"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrTooFewRecords is returned for traces that cannot form a line.
var ErrTooFewRecords error = errors.New("at least two records are needed to chart a trace")

// A fixed palette so the same field keeps its color across charts.
var palette = []drawing.Color{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// Fields writes a PNG line chart of @trace to @w, one series per field named by @layout.
func Fields(trace *models.Trace, layout models.Layout, w io.Writer) error {
	if trace.Len() < 2 {
		return ErrTooFewRecords
	}

	indices := make([]float64, trace.Len())
	for i := range indices {
		indices[i] = float64(i)
	}

	var series []chart.Series
	for field, name := range layout.FieldNames() {
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: indices,
			YValues: trace.Column(field),
			Style: chart.Style{
				StrokeColor: palette[field%len(palette)],
				StrokeWidth: 2.0,
			},
		})
	}

	graph := chart.Chart{
		Title:  layout.Title(),
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "frame",
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}
