package parallel

import "crypto/sha256"
import "encoding/binary"
import "sync"

// Digest fingerprints a fixed-length sequence of uint16 values written
// concurrently in any order. Two evaluations producing the same predictions
// produce the same Sum.
type Digest struct {
	mut     sync.Mutex
	data    []uint16
	written []bool
}

// NewDigest creates a digest for n values.
func NewDigest(n int) *Digest {
	return &Digest{
		data:    make([]uint16, n),
		written: make([]bool, n),
	}
}

// MustPut stores value at position n. Writing a position twice panics.
func (d *Digest) MustPut(n int, value uint16) {
	d.mut.Lock()
	defer d.mut.Unlock()
	if d.written[n] {
		panic("duplicate digest write")
	}
	d.written[n] = true
	d.data[n] = value
}

// Len returns the number of positions.
func (d *Digest) Len() int {
	return len(d.data)
}

// Sum hashes the values in position order. Unwritten positions hash as
// 0xffff so a partial digest never collides with a complete one.
func (d *Digest) Sum() (ret [32]byte) {
	d.mut.Lock()
	defer d.mut.Unlock()
	h := sha256.New()
	var buf [2]byte
	for i, v := range d.data {
		if !d.written[i] {
			v = 0xffff
		}
		binary.BigEndian.PutUint16(buf[:], v)
		h.Write(buf[:])
	}
	copy(ret[:], h.Sum(nil))
	return
}
