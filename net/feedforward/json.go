package feedforward

import "compress/lzw"
import "encoding/json"
import "io"
import "os"

import "github.com/pkg/errors"

type paramJSON struct {
	Name  string    `json:"name"`
	Value []float64 `json:"value"`
}

type weightsJSON struct {
	Layers int         `json:"layers"`
	Params []paramJSON `json:"params"`
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f *FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "create weights file")
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer as lzw
// compressed json
func (f *FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)
	var doc = weightsJSON{Layers: f.LenLayers()}
	for _, p := range f.Params() {
		doc.Params = append(doc.Params, paramJSON{Name: p.Name, Value: p.Value})
	}
	if err := json.NewEncoder(lw).Encode(&doc); err != nil {
		lw.Close()
		return errors.Wrap(err, "encode weights")
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f *FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return errors.Wrap(err, "open weights file")
	}
	defer file.Close()
	return errors.Wrapf(f.ReadCompressedWeights(file), "read weights %s", name)
}

// ReadCompressedWeights reads model weights from a reader. The stored
// parameters must match the network's layout exactly.
func (f *FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()
	var doc weightsJSON
	if err := json.NewDecoder(lr).Decode(&doc); err != nil {
		return errors.Wrap(err, "decode weights")
	}
	params := f.Params()
	if doc.Layers != f.LenLayers() || len(doc.Params) != len(params) {
		return errors.Errorf("weights have %d layers / %d params, network has %d / %d",
			doc.Layers, len(doc.Params), f.LenLayers(), len(params))
	}
	for i, p := range params {
		if doc.Params[i].Name != p.Name || len(doc.Params[i].Value) != len(p.Value) {
			return errors.Errorf("param %d is %s[%d], network expects %s[%d]",
				i, doc.Params[i].Name, len(doc.Params[i].Value), p.Name, len(p.Value))
		}
	}
	for i, p := range params {
		copy(p.Value, doc.Params[i].Value)
	}
	return nil
}
