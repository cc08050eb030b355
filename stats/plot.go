package stats

import "github.com/pkg/errors"
import "gonum.org/v1/plot"
import "gonum.org/v1/plot/plotter"
import "gonum.org/v1/plot/plotutil"
import "gonum.org/v1/plot/vg"

func line(steps []int, values []float64, ix int) (*plotter.Line, error) {
	var pts = make(plotter.XYs, len(steps))
	for i := range steps {
		pts[i].X = float64(steps[i])
		pts[i].Y = values[i]
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	l.Color = plotutil.Color(ix)
	l.Width = vg.Points(1)
	return l, nil
}

// NewLossPlot draws the raw and the smoothed loss per step.
func NewLossPlot(l *Loss) (*plot.Plot, error) {
	if l.Len() == 0 {
		return nil, errors.New("no loss recorded")
	}
	p := plot.New()
	p.Title.Text = "multi-instance loss"
	p.X.Label.Text = "step"
	p.Y.Label.Text = "loss"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	raw, err := line(l.Steps, l.Values, 0)
	if err != nil {
		return nil, errors.Wrap(err, "loss line")
	}
	smooth, err := line(l.Steps, l.Smooth, 1)
	if err != nil {
		return nil, errors.Wrap(err, "smoothed loss line")
	}
	p.Add(raw, smooth)
	p.Legend.Add("training loss", raw)
	p.Legend.Add("moving average", smooth)
	return p, nil
}

// PlotLoss saves the loss plot. The format follows the file extension
// (svg, png, pdf, ...).
func PlotLoss(l *Loss, path string) error {
	p, err := NewLossPlot(l)
	if err != nil {
		return err
	}
	return errors.Wrapf(p.Save(8*vg.Inch, 4*vg.Inch, path), "save plot '%s'", path)
}
