package progress

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// RenderWeightChart draws one exercise's weight trend as a PNG line chart.
// The series must hold at least two points.
func RenderWeightChart(exercise string, points []WeightPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("series for %q has %d points, need at least 2", exercise, len(points))
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, chart.TimeToFloat64(p.At))
		ys = append(ys, p.Weight)
	}

	graph := chart.Chart{
		Title:  exercise,
		Width:  1000,
		Height: 500,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Weight, kg",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
					DotColor:    drawing.ColorBlue,
					DotWidth:    4,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render weight chart: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderHydrationChart draws per-day water intake as a PNG bar chart.
func RenderHydrationChart(series []DayVolume) ([]byte, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("hydration series is empty")
	}

	bars := make([]chart.Value, 0, len(series))
	for _, point := range series {
		bars = append(bars, chart.Value{
			Label: point.Day.Format("02.01"),
			Value: float64(point.VolumeML),
		})
	}

	graph := chart.BarChart{
		Title:    "Water intake, ml",
		Width:    900,
		Height:   450,
		BarWidth: 40,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render hydration chart: %w", err)
	}
	return buf.Bytes(), nil
}
