package sweep

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoPoints is returned when there is nothing to chart.
var ErrNoPoints = errors.New("no sweep points to chart")

// Chart plots mean crop and circle density against stickiness, with dashed
// one-sigma bands for the crop density.
func Chart(points []Point) (chart.Chart, error) {
	if len(points) == 0 {
		return chart.Chart{}, ErrNoPoints
	}
	n := len(points)
	xs := make([]float64, n)
	crop := make([]float64, n)
	cropHi := make([]float64, n)
	cropLo := make([]float64, n)
	circle := make([]float64, n)
	yMax := 0.0
	for i, p := range points {
		xs[i] = p.Stickiness
		crop[i] = p.CropDensity.Mean
		cropHi[i] = p.CropDensity.Mean + p.CropDensity.StdDev
		cropLo[i] = max(p.CropDensity.Mean-p.CropDensity.StdDev, 0)
		circle[i] = p.CircleDensity.Mean
		yMax = max(yMax, cropHi[i], circle[i])
	}
	if yMax == 0 {
		yMax = 1
	}

	// go-chart refuses zero-width ranges, so a single k gets padding.
	xMin, xMax := xs[0], xs[n-1]
	if xMin == xMax {
		xMin, xMax = xMin-0.05, xMax+0.05
	}

	band := chart.Style{
		StrokeColor:     drawing.Color{R: 31, G: 119, B: 180, A: 120},
		StrokeWidth:     1,
		StrokeDashArray: []float64{4, 4},
	}
	return chart.Chart{
		Width:  800,
		Height: 480,
		XAxis: chart.XAxis{
			Name:  "stickiness k",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.3g", v.(float64))
			},
		},
		YAxis: chart.YAxis{
			Name:  "density",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "crop density",
				XValues: xs,
				YValues: crop,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 31, G: 119, B: 180, A: 255}, StrokeWidth: 3, DotWidth: 4},
			},
			chart.ContinuousSeries{Name: "crop + sd", XValues: xs, YValues: cropHi, Style: band},
			chart.ContinuousSeries{Name: "crop - sd", XValues: xs, YValues: cropLo, Style: band},
			chart.ContinuousSeries{
				Name:    "circle density",
				XValues: xs,
				YValues: circle,
				Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 3, DotWidth: 4},
			},
		},
	}, nil
}

// WriteChart renders Chart(points) as a PNG at path.
func WriteChart(path string, points []Point) error {
	graph, err := Chart(points)
	if err != nil {
		return err
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart: %w", err)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("rendering chart: %w", err)
	}
	return f.Close()
}
