package full

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/bagofpatches/layer"

// Forward computes W·in + b.
func (f *Full) Forward(in []float64, train bool) []float64 {
	f.in = in
	f.outVec.MulVec(f.l.w, mat.NewVecDense(len(in), in))
	floats.Add(f.out, f.l.bias.Value)
	if f.l.relu {
		layer.Relu(f.out)
	}
	return f.out
}

// Backward adds g·inᵀ to the weight gradient and returns Wᵀ·g.
func (f *Full) Backward(grad []float64) []float64 {
	if f.l.relu {
		layer.ReluMask(grad, f.out)
	}
	g := mat.NewVecDense(len(grad), grad)
	f.l.dw.RankOne(f.l.dw, 1, g, mat.NewVecDense(len(f.in), f.in))
	floats.Add(f.l.bias.Grad, grad)
	f.dInVec.MulVec(f.l.w.T(), g)
	return f.dIn
}
