package experiment

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	trainingColor   = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	validationColor = color.RGBA{R: 50, G: 180, B: 50, A: 255}
	testColor       = color.RGBA{R: 255, A: 255}
)

/*
Plot takes a slice of points, a title and a file path and saves to the path a
scatter plot of the training, validation (when the points have it) and test
errors against the training set size. The image format is chosen from the
extension of the path, as gonum plot does.
*/
func Plot(points []Point, title, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("plotting %s: no points", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Training set size"
	p.Y.Label.Text = "Error rate"
	p.Y.Min = 0
	p.Y.Max = 1

	training := make(plotter.XYs, 0, len(points))
	validation := make(plotter.XYs, 0, len(points))
	test := make(plotter.XYs, 0, len(points))
	for _, pt := range points {
		x := float64(pt.Size)
		training = append(training, plotter.XY{X: x, Y: pt.TrainingError})
		test = append(test, plotter.XY{X: x, Y: pt.TestError})
		if pt.Validated {
			validation = append(validation, plotter.XY{X: x, Y: pt.ValidationError})
		}
	}
	series := []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{
		{"training", training, trainingColor},
		{"validation", validation, validationColor},
		{"test", test, testColor},
	}
	for _, sr := range series {
		if len(sr.xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(sr.xys)
		if err != nil {
			return fmt.Errorf("plotting %s errors: %v", sr.name, err)
		}
		s.Color = sr.c
		s.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(sr.name, s)
	}
	p.Legend.Top = true
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("saving plot %s: %v", path, err)
	}
	return nil
}
