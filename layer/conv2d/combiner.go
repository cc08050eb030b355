package conv2d

import "github.com/neurlang/bagofpatches/layer"

// weight index of filter f, channel c, kernel row ky, kernel column kx
func (l *Conv2DLayer) w(f, c, ky, kx int) int {
	return ((f*l.channels+c)*l.kernel+ky)*l.kernel + kx
}

// Forward convolves in, laid out channel, row, column.
func (f *Conv2D) Forward(in []float64, train bool) []float64 {
	l := f.l
	f.in = in
	ow, oh := l.OutWidth(), l.OutHeight()
	w := l.weights.Value
	for fi := 0; fi < l.filters; fi++ {
		out := f.out[fi*oh*ow : (fi+1)*oh*ow]
		for i := range out {
			out[i] = l.bias.Value[fi]
		}
		for c := 0; c < l.channels; c++ {
			plane := in[c*l.height*l.width : (c+1)*l.height*l.width]
			for ky := 0; ky < l.kernel; ky++ {
				for kx := 0; kx < l.kernel; kx++ {
					wv := w[l.w(fi, c, ky, kx)]
					if wv == 0 {
						continue
					}
					for y := 0; y < oh; y++ {
						row := plane[(y+ky)*l.width+kx:]
						o := out[y*ow : (y+1)*ow]
						for x := range o {
							o[x] += wv * row[x]
						}
					}
				}
			}
		}
	}
	if l.relu {
		layer.Relu(f.out)
	}
	return f.out
}

// Backward accumulates kernel and bias gradients and returns the input
// gradient.
func (f *Conv2D) Backward(grad []float64) []float64 {
	l := f.l
	ow, oh := l.OutWidth(), l.OutHeight()
	if l.relu {
		layer.ReluMask(grad, f.out)
	}
	clear(f.dIn)
	w := l.weights.Value
	dw := l.weights.Grad
	for fi := 0; fi < l.filters; fi++ {
		g := grad[fi*oh*ow : (fi+1)*oh*ow]
		for _, v := range g {
			l.bias.Grad[fi] += v
		}
		for c := 0; c < l.channels; c++ {
			plane := f.in[c*l.height*l.width : (c+1)*l.height*l.width]
			dplane := f.dIn[c*l.height*l.width : (c+1)*l.height*l.width]
			for ky := 0; ky < l.kernel; ky++ {
				for kx := 0; kx < l.kernel; kx++ {
					idx := l.w(fi, c, ky, kx)
					wv := w[idx]
					var acc float64
					for y := 0; y < oh; y++ {
						row := plane[(y+ky)*l.width+kx:]
						drow := dplane[(y+ky)*l.width+kx:]
						gy := g[y*ow : (y+1)*ow]
						for x, gv := range gy {
							acc += gv * row[x]
							drow[x] += gv * wv
						}
					}
					dw[idx] += acc
				}
			}
		}
	}
	return f.dIn
}
