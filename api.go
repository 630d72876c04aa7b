// Package glove trains word-embedding vectors from a precomputed
// word-word co-occurrence table using the GloVe objective augmented
// with per-dimension polarity forcing.
package glove

import "io"

// Logger is a configurable logging facade implemented by DiscardLogger
// for tests and by the production adapter wrapping github.com/kydenul/log.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
}

// ParameterStore owns the shared parameter matrix W and its squared
// gradient accumulator G. Both are 2*V rows of D+1 columns: rows
// [0,V) are focal vectors, rows [V,2V) are context vectors, and
// column D of every row is that row's bias term.
//
// ParameterStore performs no synchronization of its own: concurrent
// readers and writers (the Trainer's workers) use the relaxed-atomic
// cell accessors directly, in the HOGWILD style described by the
// training algorithm.
type ParameterStore interface {
	// VocabSize returns V.
	VocabSize() int

	// Dim returns D, the configured vector size (excluding the bias column).
	Dim() int

	// FocalOffset returns the flat offset of the focal row for a 1-based word id.
	FocalOffset(wordID int) int

	// ContextOffset returns the flat offset of the context row for a 1-based word id.
	ContextOffset(wordID int) int

	// W returns the raw parameter cells, length 2*V*(D+1).
	W() []*AtomicReal

	// G returns the raw squared-gradient cells, same shape as W.
	G() []*AtomicReal

	// DumpW writes the current W buffer verbatim, row-major, native width.
	DumpW(w io.Writer) error

	// DumpG writes the current G buffer verbatim, row-major, native width.
	DumpG(w io.Writer) error
}

// InitLoader fills a ParameterStore's W from a binary file or a
// pseudo-random source, and always resets G to the all-ones baseline.
type InitLoader interface {
	// LoadFile reads 2*V*(D+1) scalars from path into W.
	LoadFile(store ParameterStore, path string) error

	// Random fills W with values drawn uniformly from
	// [-0.5/(D+1), +0.5/(D+1)) using the given seed.
	Random(store ParameterStore, seed int64)
}

// ForcingTable is the in-memory index built from the four forcing
// parameter files, used by the Trainer to look up which latent
// dimensions are constrained for a given word.
type ForcingTable interface {
	// NumDims returns F, the number of constrained dimensions.
	NumDims() int

	// Lookup returns the forcing entries for wordID, in strictly
	// increasing dimension order, or nil if the word is unconstrained.
	Lookup(wordID int) []ForcingEntry
}

// ForcingEntry is a single (dimension, polarity, strength) constraint
// contributed by one forced-dimension/word pair.
type ForcingEntry struct {
	Dim      int
	Polarity Real
	K        Real
}

// CoOccurRecord is a single co-occurrence tuple read from the binary stream.
type CoOccurRecord struct {
	Word1 int32
	Word2 int32
	Val   Real
}

// Span is a contiguous, 0-based range of record indices assigned to one worker.
type Span struct {
	Start, End int64 // [Start, End)
}

// CoOccurReader partitions a binary co-occurrence stream into worker spans
// and opens per-worker readers over them.
type CoOccurReader interface {
	// NumRecords returns the total record count (file size / record size,
	// truncating any partial trailing record).
	NumRecords() int64

	// Spans partitions [0, NumRecords()) into n contiguous spans.
	Spans(n int) []Span

	// Open returns a fresh reader positioned at the start of span,
	// tolerating a truncated tail (io.EOF ends iteration, not an error).
	Open(span Span) (RecordReader, error)
}

// RecordReader reads CoOccurRecord values sequentially from one span.
// Read returns io.EOF once the span (or file) is exhausted.
type RecordReader interface {
	Read() (CoOccurRecord, error)
	Close() error
}

// Trainer runs the lock-free multi-threaded optimizer over a
// CoOccurReader for a configured number of passes.
type Trainer interface {
	// Run executes Config.Iterations full passes, returning the
	// mean cost of the final pass.
	Run() (float64, error)
}

// Exporter writes a trained ParameterStore to binary and/or text output.
type Exporter interface {
	WriteBinary(store ParameterStore, path string) error
	WriteText(store ParameterStore, vocab *Vocabulary, path string) error
}
