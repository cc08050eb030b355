// Package stats tracks running statistics of the training loss and plots
// the loss curve.
package stats

import "fmt"
import "math"

// EMA is an exponential moving average over roughly N samples. The first
// sample seeds the average, so a zero loss is averaged like any other.
type EMA struct {
	N     float64
	Value float64
	n     int
}

// Add folds val into the average and returns it.
func (e *EMA) Add(val float64) float64 {
	e.n++
	if e.n == 1 || e.N <= 1 {
		e.Value = val
		return val
	}
	k := 2 / (e.N + 1)
	e.Value += k * (val - e.Value)
	return e.Value
}

// Average is a running mean and sample deviation (Welford).
type Average struct {
	Count int
	Mean  float64
	m2    float64
}

// Add records one sample.
func (s *Average) Add(x float64) {
	s.Count++
	d := x - s.Mean
	s.Mean += d / float64(s.Count)
	s.m2 += d * (x - s.Mean)
}

// StdDev is the sample standard deviation, 0 below two samples.
func (s *Average) StdDev() float64 {
	if s.Count < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.Count-1))
}

func (s *Average) String() string {
	if sd := s.StdDev(); sd >= 0.001 {
		return fmt.Sprintf("%.4f±%.4f", s.Mean, sd)
	}
	return fmt.Sprintf("%.4f", s.Mean)
}

// Loss records the loss per training step.
type Loss struct {
	Steps  []int
	Values []float64
	Smooth []float64
	Avg    Average

	// Window is the EMA smoothing length, 20 when zero.
	Window float64

	ema EMA
}

// Add records the loss of one step and returns the smoothed loss.
func (l *Loss) Add(step int, value float64) float64 {
	if l.ema.N = l.Window; l.ema.N == 0 {
		l.ema.N = 20
	}
	var smooth = l.ema.Add(value)
	l.Avg.Add(value)
	l.Steps = append(l.Steps, step)
	l.Values = append(l.Values, value)
	l.Smooth = append(l.Smooth, smooth)
	return smooth
}

// Len is the number of recorded steps.
func (l *Loss) Len() int {
	return len(l.Steps)
}
