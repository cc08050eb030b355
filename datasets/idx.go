package datasets

import "bufio"
import "compress/gzip"
import "encoding/binary"
import "io"
import "math"
import "os"
import "strings"

import "github.com/pkg/errors"

// IDX element types.
const (
	idxUbyte   = 0x08
	idxFloat32 = 0x0D
	idxFloat64 = 0x0E
)

// ReadIDX decodes an uncompressed IDX tensor of shape N×S×S into N images of
// the given label. Unsigned byte data is scaled to [0, 1].
func ReadIDX(r io.Reader, label int) ([]Image, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, errors.Wrap(err, "read idx magic")
	}
	if magic[0] != 0 || magic[1] != 0 {
		return nil, errors.Errorf("not an idx file: magic %x", magic)
	}
	if magic[3] != 3 {
		return nil, errors.Errorf("idx has %d dimensions, expected 3 (images, rows, cols)", magic[3])
	}
	var dims [3]uint32
	if err := binary.Read(r, binary.BigEndian, &dims); err != nil {
		return nil, errors.Wrap(err, "read idx dimensions")
	}
	if dims[1] != dims[2] || dims[1] == 0 {
		return nil, errors.Errorf("idx images are %dx%d, expected square", dims[1], dims[2])
	}
	var n, size = int(dims[0]), int(dims[1])
	var read func() (float64, error)
	switch magic[2] {
	case idxUbyte:
		var b [1]byte
		read = func() (float64, error) {
			_, err := io.ReadFull(r, b[:])
			return float64(b[0]) / 255, err
		}
	case idxFloat32:
		var b [4]byte
		read = func() (float64, error) {
			_, err := io.ReadFull(r, b[:])
			return float64(math.Float32frombits(binary.BigEndian.Uint32(b[:]))), err
		}
	case idxFloat64:
		var b [8]byte
		read = func() (float64, error) {
			_, err := io.ReadFull(r, b[:])
			return math.Float64frombits(binary.BigEndian.Uint64(b[:])), err
		}
	default:
		return nil, errors.Errorf("unsupported idx element type 0x%02x", magic[2])
	}
	var images = make([]Image, n)
	for i := range images {
		images[i] = Image{Size: size, Label: label, Pix: make([]float64, size*size)}
		for j := range images[i].Pix {
			v, err := read()
			if err != nil {
				return nil, errors.Wrapf(err, "read idx image %d", i)
			}
			images[i].Pix[j] = v
		}
	}
	return images, nil
}

// WriteIDX encodes images as a float32 IDX tensor. Every image must have the
// same size.
func WriteIDX(w io.Writer, images []Image) error {
	var size int
	if len(images) > 0 {
		size = images[0].Size
	}
	var header = []byte{0, 0, idxFloat32, 3}
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "write idx magic")
	}
	var dims = [3]uint32{uint32(len(images)), uint32(size), uint32(size)}
	if err := binary.Write(w, binary.BigEndian, dims); err != nil {
		return errors.Wrap(err, "write idx dimensions")
	}
	var b [4]byte
	for i, img := range images {
		if img.Size != size || len(img.Pix) != size*size {
			return errors.Errorf("image %d is %d pixels of size %d, expected size %d", i, len(img.Pix), img.Size, size)
		}
		for _, v := range img.Pix {
			binary.BigEndian.PutUint32(b[:], math.Float32bits(float32(v)))
			if _, err := w.Write(b[:]); err != nil {
				return errors.Wrapf(err, "write idx image %d", i)
			}
		}
	}
	return nil
}

// LoadIDX reads an IDX file, gunzipping it when the name ends in .gz.
func LoadIDX(path string, label int) ([]Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open idx")
	}
	defer f.Close()
	var r io.Reader = bufio.NewReader(f)
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, errors.Wrapf(err, "gzip file '%s'", path)
		}
		defer gzipReader.Close()
		r = gzipReader
	}
	images, err := ReadIDX(r, label)
	return images, errors.Wrapf(err, "load '%s'", path)
}

// SaveIDX writes an IDX file, gzipping it when the name ends in .gz.
func SaveIDX(path string, images []Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create idx")
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	var bw = bufio.NewWriter(f)
	var w io.Writer = bw
	var gzipWriter *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gzipWriter = gzip.NewWriter(bw)
		w = gzipWriter
	}
	if err = WriteIDX(w, images); err != nil {
		return errors.Wrapf(err, "save '%s'", path)
	}
	if gzipWriter != nil {
		if err = gzipWriter.Close(); err != nil {
			return errors.Wrapf(err, "gzip file '%s'", path)
		}
	}
	return bw.Flush()
}
