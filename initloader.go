package glove

import (
	"bufio"
	"io"
	"math/rand"
	"os"
)

var _ InitLoader = (*initLoader)(nil)

type initLoader struct{}

// NewInitLoader returns the default InitLoader.
func NewInitLoader() InitLoader { return &initLoader{} }

// LoadFile reads 2*V*(D+1) scalars from path into W, row-major, in
// the same native width used everywhere else. Fails if the file is
// smaller than required. On success G is reset to 1.0; on failure W
// may be partly overwritten and G is left as it was.
func (initLoader) LoadFile(store ParameterStore, path string) error {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return IOError(path, err)
	}
	defer f.Close()

	w := store.W()
	r := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, realSize)

	for _, cell := range w {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return IOError(path, ErrTruncatedInit)
			}
			return IOError(path, err)
		}
		cell.Store(getReal(buf))
	}

	resetGradsq(store)
	return nil
}

// Random fills W with values drawn uniformly from
// [-0.5/(D+1), 0.5/(D+1)) using a deterministic PRNG seeded by seed,
// and resets G to 1.0.
func (initLoader) Random(store ParameterStore, seed int64) {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec
	span := Real(1.0 / float64(store.Dim()+1))

	for _, cell := range store.W() {
		v := Real(rng.Float64())*span - span/2
		cell.Store(v)
	}

	resetGradsq(store)
}

func resetGradsq(store ParameterStore) {
	for _, cell := range store.G() {
		cell.Store(1)
	}
}
