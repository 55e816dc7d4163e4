package render

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartName is the attachment name of the top-play chart.
const ChartName = "top_plays.png"

var (
	chartBackground = drawing.ColorFromHex("2f3136")
	chartLine       = drawing.ColorFromHex("2ecc71")
	chartText       = drawing.ColorFromHex("dcddde")
)

// PPChart draws the pp of a user's top plays, best first. It needs at least
// two plays to draw a line.
func PPChart(pp []float64) ([]byte, error) {
	if len(pp) < 2 {
		return nil, fmt.Errorf("need at least 2 plays to chart, got %d", len(pp))
	}

	xValues := make([]float64, len(pp))
	for i := range pp {
		xValues[i] = float64(i + 1)
	}

	graph := chart.Chart{
		Width:  800,
		Height: 300,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{
			Name:  "Top play",
			Style: chart.Style{FontColor: chartText},
		},
		YAxis: chart.YAxis{
			Name:  "pp",
			Style: chart.Style{FontColor: chartText},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "pp",
				XValues: xValues,
				YValues: pp,
				Style: chart.Style{
					StrokeColor: chartLine,
					StrokeWidth: 2,
					FillColor:   chartLine.WithAlpha(64),
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buffer.Bytes(), nil
}
