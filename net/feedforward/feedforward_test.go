package feedforward

import "bytes"
import "context"
import "math"
import "math/rand/v2"
import "testing"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/floats/scalar"

import "github.com/neurlang/bagofpatches/inference"
import "github.com/neurlang/bagofpatches/patch"

var _ inference.Trainable = (*FeedforwardNetwork)(nil)

func testPatches(n, size int, seed uint64) (o []patch.Patch) {
	rng := rand.New(rand.NewPCG(seed, 1))
	for i := 0; i < n; i++ {
		var p = patch.Patch{Index: i, Size: size, Pix: make([]float64, size*size)}
		for j := range p.Pix {
			p.Pix[j] = rng.Float64()
		}
		o = append(o, p)
	}
	return
}

func TestSoftmax(t *testing.T) {
	p := Softmax([]float64{1000, 1000, 1000 - math.Log(2)})
	if !scalar.EqualWithinAbs(floats.Sum(p), 1, 1e-12) {
		t.Errorf("softmax does not sum to 1: %v", p)
	}
	if !scalar.EqualWithinAbs(p[0], 0.4, 1e-12) || !scalar.EqualWithinAbs(p[2], 0.2, 1e-12) {
		t.Errorf("softmax values %v", p)
	}
}

func TestSoftmaxBackward(t *testing.T) {
	var z = []float64{0.3, -1.2, 2}
	var g = []float64{0.5, -2, 1}
	var dz = SoftmaxBackward(Softmax(z), g)
	const h = 1e-6
	for j := range z {
		zp := append([]float64(nil), z...)
		zm := append([]float64(nil), z...)
		zp[j] += h
		zm[j] -= h
		num := (floats.Dot(g, Softmax(zp)) - floats.Dot(g, Softmax(zm))) / (2 * h)
		if !scalar.EqualWithinAbs(num, dz[j], 1e-6) {
			t.Errorf("dz[%d] = %v, numeric %v", j, dz[j], num)
		}
	}
}

func TestNewBCNN(t *testing.T) {
	net, err := NewBCNN(30, 3, 0.5, 42)
	if err != nil {
		t.Fatal(err)
	}
	if net.LenLayers() != 5 || net.InputLen() != 900 || net.Classes() != 3 {
		t.Errorf("layers %d input %d classes %d", net.LenLayers(), net.InputLen(), net.Classes())
	}
	const params = 5*5*10 + 10 + 13*13*10*300 + 300 + 300*3 + 3
	if net.Len() != params {
		t.Errorf("params %d, expected %d", net.Len(), params)
	}
	if _, err := NewBCNN(30, 1, 0.5, 42); err == nil {
		t.Errorf("one class accepted")
	}
	if _, err := NewBCNN(30, 2, 1, 42); err == nil {
		t.Errorf("dropout rate 1 accepted")
	}
}

func TestPredict(t *testing.T) {
	net, err := NewBCNN(8, 2, 0.5, 1)
	if err != nil {
		t.Fatal(err)
	}
	p := testPatches(1, 8, 3)[0]
	a, err := net.Predict(p)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := net.Predict(p)
	if !floats.Equal(a, b) {
		t.Errorf("inference is not deterministic: %v %v", a, b)
	}
	if !scalar.EqualWithinAbs(floats.Sum(a), 1, 1e-12) {
		t.Errorf("probabilities do not sum to 1: %v", a)
	}
	if _, err := net.Predict(testPatches(1, 7, 3)[0]); err == nil {
		t.Errorf("wrong patch size accepted")
	}
	net.Close()
	if _, err := net.Predict(p); err != inference.ErrClosed {
		t.Errorf("predict after close: %v", err)
	}
}

// cross entropy towards class 0 decreases under TrainStep
func TestTrainStep(t *testing.T) {
	net, err := NewBCNN(8, 2, 0, 7)
	if err != nil {
		t.Fatal(err)
	}
	net.LearningRate = 0.05
	net.Threads = 3
	var batch = testPatches(12, 8, 5)
	var xent = func(probs [][]float64) (float64, [][]float64, error) {
		var loss float64
		var grad = make([][]float64, len(probs))
		for i, p := range probs {
			loss -= math.Log(p[0]) / float64(len(probs))
			grad[i] = []float64{-1 / (p[0] * float64(len(probs))), 0}
		}
		return loss, grad, nil
	}
	first, err := net.TrainStep(context.Background(), batch, xent)
	if err != nil {
		t.Fatal(err)
	}
	var last float64
	for i := 0; i < 40; i++ {
		if last, err = net.TrainStep(context.Background(), batch, xent); err != nil {
			t.Fatal(err)
		}
	}
	if !(last < first) {
		t.Errorf("loss did not decrease: %v -> %v", first, last)
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	a, _ := NewBCNN(8, 2, 0.5, 1)
	b, _ := NewBCNN(8, 2, 0.5, 2)
	var buf bytes.Buffer
	if err := a.WriteCompressedWeights(&buf); err != nil {
		t.Fatal(err)
	}
	var saved = append([]byte(nil), buf.Bytes()...)
	if err := b.ReadCompressedWeights(&buf); err != nil {
		t.Fatal(err)
	}
	p := testPatches(1, 8, 9)[0]
	pa, _ := a.Predict(p)
	pb, _ := b.Predict(p)
	if !floats.Equal(pa, pb) {
		t.Errorf("predictions differ after load: %v %v", pa, pb)
	}
	c, _ := NewBCNN(8, 3, 0.5, 1)
	if err := c.ReadCompressedWeights(bytes.NewReader(saved)); err == nil {
		t.Errorf("weights of a 2 class network loaded into a 3 class network")
	}
}

func TestWeightsFile(t *testing.T) {
	var name = t.TempDir() + "/model.json.lzw"
	a, _ := NewBCNN(8, 2, 0.5, 1)
	if err := a.WriteCompressedWeightsToFile(name); err != nil {
		t.Fatal(err)
	}
	b, _ := NewBCNN(8, 2, 0.5, 4)
	if err := b.ReadCompressedWeightsFromFile(name); err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(a.Params()[0].Value, b.Params()[0].Value) {
		t.Errorf("conv weights differ after load")
	}
	if err := b.ReadCompressedWeightsFromFile(name + ".missing"); err == nil {
		t.Errorf("missing file loaded")
	}
}
