package glove

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// parameterStore is the concrete ParameterStore: a dense, contiguous
// 2*V*(D+1) array of AtomicReal cells for W, and a second array of
// the same shape for G. Neither array is ever reallocated after
// construction.
type parameterStore struct {
	vocabSize int
	dim       int
	w, g      []*AtomicReal
}

// NewParameterStore allocates W and G for a vocabulary of the given
// size and vector dimension. G starts at the all-ones baseline so
// that the first per-coordinate AdaGrad step equals the learning
// rate; W starts at zero and is expected to be filled by an
// InitLoader before training begins.
func NewParameterStore(vocabSize, dim int) ParameterStore {
	n := 2 * vocabSize * (dim + 1)
	return &parameterStore{
		vocabSize: vocabSize,
		dim:       dim,
		w:         newAtomicReals(n, 0),
		g:         newAtomicReals(n, 1),
	}
}

func (s *parameterStore) VocabSize() int { return s.vocabSize }
func (s *parameterStore) Dim() int       { return s.dim }

func (s *parameterStore) FocalOffset(wordID int) int {
	return (wordID - 1) * (s.dim + 1)
}

func (s *parameterStore) ContextOffset(wordID int) int {
	return (s.vocabSize + wordID - 1) * (s.dim + 1)
}

func (s *parameterStore) W() []*AtomicReal { return s.w }
func (s *parameterStore) G() []*AtomicReal { return s.g }

func (s *parameterStore) DumpW(w io.Writer) error { return dumpCells(w, s.w) }
func (s *parameterStore) DumpG(w io.Writer) error { return dumpCells(w, s.g) }

func dumpCells(w io.Writer, cells []*AtomicReal) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	buf := make([]byte, realSize)
	for _, c := range cells {
		putReal(buf, c.Load())
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// putReal writes v into buf (which must be realSize bytes) in native
// little-endian layout, matching the on-disk format of every binary
// file this package reads and writes.
func putReal(buf []byte, v Real) {
	if realSize == 4 {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
	} else {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(float64(v)))
	}
}

// getReal is putReal's inverse.
func getReal(buf []byte) Real {
	if realSize == 4 {
		return Real(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	}
	return Real(math.Float64frombits(binary.LittleEndian.Uint64(buf)))
}
