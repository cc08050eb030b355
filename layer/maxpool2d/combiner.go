package maxpool2d

// Forward pools every channel. The first maximum of a window wins.
func (s *MaxPool2D) Forward(in []float64, train bool) []float64 {
	l := s.l
	ow, oh := l.OutWidth(), l.OutHeight()
	var n int
	for c := 0; c < l.channels; c++ {
		base := c * l.height * l.width
		for y := 0; y < oh; y++ {
			for x := 0; x < ow; x++ {
				best := base + (y*l.stride)*l.width + x*l.stride
				for dy := 0; dy < l.size; dy++ {
					for dx := 0; dx < l.size; dx++ {
						i := base + (y*l.stride+dy)*l.width + x*l.stride + dx
						if in[i] > in[best] {
							best = i
						}
					}
				}
				s.out[n] = in[best]
				s.argmax[n] = best
				n++
			}
		}
	}
	return s.out
}

// Backward routes each output gradient to the input that won its window.
func (s *MaxPool2D) Backward(grad []float64) []float64 {
	clear(s.dIn)
	for n, g := range grad {
		s.dIn[s.argmax[n]] += g
	}
	return s.dIn
}
