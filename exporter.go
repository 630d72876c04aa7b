package glove

import (
	"bufio"
	"fmt"
	"os"
)

var _ Exporter = (*exporter)(nil)

// exporter writes a trained ParameterStore to the save formats named
// by the reference trainer's "binary" and "model" flags.
type exporter struct {
	cfg *Config
}

// NewExporter returns the default Exporter, configured by cfg.Model
// and cfg.UseUnkVec.
func NewExporter(cfg *Config) Exporter { return &exporter{cfg: cfg} }

// WriteBinary dumps W verbatim to path, in native width, row-major.
func (e *exporter) WriteBinary(store ParameterStore, path string) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return IOError(path, err)
	}
	defer f.Close()

	if err := store.DumpW(f); err != nil {
		return IOError(path, err)
	}
	return nil
}

// WriteText writes one line per vocabulary entry, in the column
// layout selected by cfg.Model:
//
//   - 0: focal row (D+1 values, including bias) followed by the
//     context row (D+1 values, including bias) — 2D+2 numbers.
//   - 1: focal row only, excluding the bias column — D numbers.
//   - 2 (default): elementwise sum of the focal and context rows,
//     excluding both bias columns — D numbers.
//
// If cfg.UseUnkVec is set, a final "<unk>" line is appended, its
// vector the mean of the last min(V, 100) rows in the same layout.
func (e *exporter) WriteText(store ParameterStore, vocab *Vocabulary, path string) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return IOError(path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 256*1024)

	vocabSize := store.VocabSize()
	if vocab.Size() != vocabSize {
		return ConfigError(fmt.Sprintf(
			"vocabulary has %d entries but parameter store has %d", vocab.Size(), vocabSize,
		))
	}

	rowOf := e.rowFunc(store)

	for wordID := 1; wordID <= vocabSize; wordID++ {
		if err := writeRow(bw, vocab.Token(wordID), rowOf(wordID)); err != nil {
			return IOError(path, err)
		}
	}

	if e.cfg.UseUnkVec {
		unk := e.meanTailRow(store, rowOf, vocabSize)
		if err := writeRow(bw, reservedUnknownToken, unk); err != nil {
			return IOError(path, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return IOError(path, err)
	}
	return nil
}

// rowFunc returns the per-word row builder for the configured layout.
func (e *exporter) rowFunc(store ParameterStore) func(wordID int) []Real {
	d := store.Dim()

	switch e.cfg.Model {
	case 0:
		return func(wordID int) []Real {
			fOff := store.FocalOffset(wordID)
			cOff := store.ContextOffset(wordID)
			row := make([]Real, 2*(d+1))
			for i := 0; i <= d; i++ {
				row[i] = store.W()[fOff+i].Load()
				row[d+1+i] = store.W()[cOff+i].Load()
			}
			return row
		}
	case 1:
		return func(wordID int) []Real {
			fOff := store.FocalOffset(wordID)
			row := make([]Real, d)
			for i := 0; i < d; i++ {
				row[i] = store.W()[fOff+i].Load()
			}
			return row
		}
	default: // 2
		return func(wordID int) []Real {
			fOff := store.FocalOffset(wordID)
			cOff := store.ContextOffset(wordID)
			row := make([]Real, d)
			for i := 0; i < d; i++ {
				row[i] = store.W()[fOff+i].Load() + store.W()[cOff+i].Load()
			}
			return row
		}
	}
}

// meanTailRow averages the rows of the last min(vocabSize, 100)
// words, taken to be the rarest words under the usual
// frequency-ranked vocabulary ordering.
func (e *exporter) meanTailRow(store ParameterStore, rowOf func(int) []Real, vocabSize int) []Real {
	tail := 100
	if vocabSize < tail {
		tail = vocabSize
	}
	if tail == 0 {
		return nil
	}

	var sum []Real
	for wordID := vocabSize - tail + 1; wordID <= vocabSize; wordID++ {
		row := rowOf(wordID)
		if sum == nil {
			sum = make([]Real, len(row))
		}
		for i, v := range row {
			sum[i] += v
		}
	}
	for i := range sum {
		sum[i] /= Real(tail)
	}
	return sum
}

func writeRow(w *bufio.Writer, token string, row []Real) error {
	if _, err := w.WriteString(token); err != nil {
		return err
	}
	for _, v := range row {
		if _, err := fmt.Fprintf(w, " %f", float64(v)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}
