package bag

import "errors"
import "math"
import "math/rand"
import "testing"

import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/floats/scalar"

// round trip: a bag of 4 patches with one confident patch
func TestMILLossRoundTrip(t *testing.T) {
	selected := []float64{0.9, 0.1, 0.2, 0.3}
	weighted, err := SpatialWeight(selected, UniformWeights(4))
	if err != nil {
		t.Fatal(err)
	}
	l, err := MILLoss(weighted, 4, Mean)
	if err != nil {
		t.Fatal(err)
	}
	if l.Bags != 1 {
		t.Errorf("bags = %d", l.Bags)
	}
	if !scalar.EqualWithinAbs(l.Value, -math.Log(0.9+Epsilon), 1e-12) {
		t.Errorf("loss = %v, expected %v", l.Value, -math.Log(0.9+Epsilon))
	}
	if !scalar.EqualWithinAbs(l.Value, 0.105, 1e-3) {
		t.Errorf("loss = %v, expected about 0.105", l.Value)
	}
	if l.ArgMax[0] != 0 {
		t.Errorf("argmax = %d", l.ArgMax[0])
	}
}

// degenerate classifier: loss stays finite
func TestMILLossZeroBag(t *testing.T) {
	l, err := MILLoss(make([]float64, 8), 4, Mean)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsInf(l.Value, 0) || math.IsNaN(l.Value) {
		t.Fatalf("non-finite loss %v", l.Value)
	}
	if !scalar.EqualWithinAbs(l.Value, -math.Log(Epsilon), 1e-9) {
		t.Errorf("loss = %v, expected -log(eps) = %v", l.Value, -math.Log(Epsilon))
	}
	for _, g := range l.Gradient(4) {
		if math.IsInf(g, 0) || math.IsNaN(g) {
			t.Errorf("non-finite gradient %v", g)
		}
	}
}

// loss does not depend on patch order inside a bag
func TestMILLossPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const nbrPatch = 9
	for trial := 0; trial < 50; trial++ {
		var w = make([]float64, 3*nbrPatch)
		for i := range w {
			w[i] = rng.Float64()
		}
		a, _ := MILLoss(w, nbrPatch, Sum)
		var perm = append([]float64(nil), w...)
		block := perm[nbrPatch : 2*nbrPatch]
		rng.Shuffle(len(block), func(i, j int) { block[i], block[j] = block[j], block[i] })
		b, _ := MILLoss(perm, nbrPatch, Sum)
		for i := range a.PerBag {
			if a.PerBag[i] != b.PerBag[i] {
				t.Fatalf("bag %d loss changed under permutation: %v %v", i, a.PerBag[i], b.PerBag[i])
			}
		}
	}
}

func TestMILLossReduction(t *testing.T) {
	w := []float64{0.5, 0.2, 0.1, 0.25}
	mean, _ := MILLoss(w, 2, Mean)
	sum, _ := MILLoss(w, 2, Sum)
	if !scalar.EqualWithinAbs(sum.Value, 2*mean.Value, 1e-12) {
		t.Errorf("sum %v != 2*mean %v", sum.Value, mean.Value)
	}
	want := -math.Log(0.5+Epsilon) - math.Log(0.25+Epsilon)
	if !scalar.EqualWithinAbs(sum.Value, want, 1e-12) {
		t.Errorf("sum = %v, expected %v", sum.Value, want)
	}
}

func TestMILLossShape(t *testing.T) {
	var se *ShapeMismatchError
	if _, err := MILLoss(make([]float64, 7), 4, Mean); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
	var ee *EmptyBagError
	if _, err := MILLoss(make([]float64, 4), 0, Mean); !errors.As(err, &ee) {
		t.Errorf("expected EmptyBagError, got %v", err)
	}
}

// gradient agrees with central differences away from ties
func TestMILLossGradient(t *testing.T) {
	const nbrPatch = 4
	w := []float64{0.3, 0.7, 0.1, 0.2, 0.05, 0.01, 0.6, 0.4}
	for _, r := range []Reduction{Mean, Sum} {
		l, _ := MILLoss(w, nbrPatch, r)
		grad := l.Gradient(nbrPatch)
		const h = 1e-6
		for i := range w {
			plus := append([]float64(nil), w...)
			minus := append([]float64(nil), w...)
			plus[i] += h
			minus[i] -= h
			lp, _ := MILLoss(plus, nbrPatch, r)
			lm, _ := MILLoss(minus, nbrPatch, r)
			num := (lp.Value - lm.Value) / (2 * h)
			if !scalar.EqualWithinAbs(num, grad[i], 1e-5) {
				t.Errorf("%v: d/dw[%d] = %v, numeric %v", r, i, grad[i], num)
			}
		}
	}
}

func TestSpatialWeight(t *testing.T) {
	out, err := SpatialWeight([]float64{1, 1, 0.5, 0.5}, []float64{2, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(out, []float64{2, 0.5, 1, 0.25}) {
		t.Errorf("weighted = %v", out)
	}
	var se *ShapeMismatchError
	if _, err := SpatialWeight(make([]float64, 3), UniformWeights(2)); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
	var ee *EmptyBagError
	if _, err := SpatialWeight(make([]float64, 3), nil); !errors.As(err, &ee) {
		t.Errorf("expected EmptyBagError, got %v", err)
	}
}

// spatial weights change which patch drives the loss
func TestSpatialWeightMovesArgMax(t *testing.T) {
	weighted, _ := SpatialWeight([]float64{0.9, 0.8}, []float64{0.5, 1})
	l, _ := MILLoss(weighted, 2, Mean)
	if l.ArgMax[0] != 1 {
		t.Errorf("argmax = %d, expected 1", l.ArgMax[0])
	}
}

func TestMajorityVote(t *testing.T) {
	probs := [][]float64{{0.6, 0.4}, {0.3, 0.7}}
	totals, err := TotalProbEachClass(probs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(totals[0], []float64{0.9, 1.1}, 1e-12) {
		t.Errorf("totals = %v", totals[0])
	}
	pred, _ := MajorityVote(probs, 2)
	if pred[0] != 1 {
		t.Errorf("predicted %d, expected 1", pred[0])
	}
}

// soft vote differs from counting hard winners
func TestMajorityVoteIsSoft(t *testing.T) {
	probs := [][]float64{{0.55, 0.45}, {0.55, 0.45}, {0.01, 0.99}}
	pred, _ := MajorityVote(probs, 3)
	if pred[0] != 1 {
		t.Errorf("predicted %d, expected 1 (two weak votes lose to one confident)", pred[0])
	}
}

func TestMajorityVoteTie(t *testing.T) {
	probs := [][]float64{
		{0.25, 0.5, 0.25}, {0.5, 0.25, 0.25},
		{0, 0.5, 0.5}, {0, 0.5, 0.5},
	}
	pred, err := MajorityVote(probs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pred[0] != 0 || pred[1] != 1 {
		t.Errorf("ties resolved to %v, expected [0 1]", pred)
	}
	var ee *EmptyBagError
	if _, err := MajorityVote(probs, 0); !errors.As(err, &ee) {
		t.Errorf("expected EmptyBagError, got %v", err)
	}
}

// probability vectors without classes are rejected, not voted on
func TestMajorityVoteNoClasses(t *testing.T) {
	probs := [][]float64{{}, {}}
	var se *ShapeMismatchError
	if _, err := MajorityVote(probs, 2); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
	if _, err := Decode(probs, UniformWeights(2), 1); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError from Decode, got %v", err)
	}
}

func TestElongateReduce(t *testing.T) {
	long := Elongate([]int{2, 0, 1}, 3)
	want := []int{2, 2, 2, 0, 0, 0, 1, 1, 1}
	for i := range want {
		if long[i] != want[i] {
			t.Fatalf("elongated = %v", long)
		}
	}
	short, err := ReduceLabels(long, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(short) != 3 || short[0] != 2 || short[1] != 0 || short[2] != 1 {
		t.Errorf("reduced = %v", short)
	}
	var se *ShapeMismatchError
	if _, err := ReduceLabels(long, 4); !errors.As(err, &se) {
		t.Errorf("expected ShapeMismatchError, got %v", err)
	}
}

func TestSelectClass(t *testing.T) {
	probs := [][]float64{{0.1, 0.9}, {0.8, 0.2}}
	sel, err := SelectClass(probs, []int{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if sel[0] != 0.9 || sel[1] != 0.2 {
		t.Errorf("selected = %v", sel)
	}
	var ce *ClassRangeError
	if _, err := SelectClass(probs, []int{0, 2}); !errors.As(err, &ce) {
		t.Errorf("expected ClassRangeError, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	probs := [][]float64{
		{0.2, 0.8}, {0.1, 0.9}, {0.6, 0.4}, {0.3, 0.7},
		{0.9, 0.1}, {0.7, 0.3}, {0.8, 0.2}, {0.4, 0.6},
	}
	d, err := Decode(probs, UniformWeights(4), 2)
	if err != nil {
		t.Fatal(err)
	}
	if d.Predicted[0] != 1 || d.Predicted[1] != 0 {
		t.Errorf("predicted %v", d.Predicted)
	}
	if d.Patches[0][0] != 1 || d.Patches[0][1] != 0 {
		t.Errorf("bag 0 patches %v, expected [1 0]", d.Patches[0])
	}
	if d.Patches[1][0] != 0 || d.Patches[1][1] != 2 {
		t.Errorf("bag 1 patches %v, expected [0 2]", d.Patches[1])
	}
	// weighting only affects the diagnostic, never the prediction
	d2, _ := Decode(probs, []float64{0, 0, 0, 1}, 1)
	if d2.Predicted[0] != 1 || d2.Predicted[1] != 0 {
		t.Errorf("weights changed prediction: %v", d2.Predicted)
	}
	if d2.Patches[0][0] != 3 || d2.Patches[1][0] != 3 {
		t.Errorf("weighted top-1 %v", d2.Patches)
	}
}

func TestDiscriminativePatchesTie(t *testing.T) {
	probs := [][]float64{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}
	idx, err := DiscriminativePatches(probs, []int{0}, UniformWeights(3), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(idx[0]) != 3 || idx[0][0] != 0 || idx[0][1] != 1 || idx[0][2] != 2 {
		t.Errorf("tie order %v", idx[0])
	}
}

func FuzzMILLossFinite(f *testing.F) {
	f.Add(0.0, 0.0, 0.0, 0.0)
	f.Add(0.9, 0.1, 0.2, 0.3)
	f.Fuzz(func(t *testing.T, a, b, c, d float64) {
		var w = []float64{a, b, c, d}
		for i := range w {
			if math.IsNaN(w[i]) || w[i] < 0 || w[i] > 1 {
				return
			}
		}
		l, err := MILLoss(w, 4, Mean)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsInf(l.Value, 0) || math.IsNaN(l.Value) || l.Value < -1e-6 {
			t.Errorf("loss %v for %v", l.Value, w)
		}
	})
}
