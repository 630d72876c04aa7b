package glove

import (
	"math"
	"sync/atomic"

	"github.com/koc-lab/imparting-interpretability/internal/workerpool"
)

var _ Trainer = (*trainer)(nil)

// trainer is the lock-free, multi-threaded optimizer: each call to
// Run spawns cfg.Threads persistent workers, one per contiguous
// co-occurrence span, and lets them race over the shared
// ParameterStore for cfg.Iterations passes, HOGWILD-style. No span
// worker ever locks W or G; only individual scalar loads and stores
// are guaranteed not to tear.
type trainer struct {
	cfg    *Config
	store  ParameterStore
	reader CoOccurReader
	table  ForcingTable
	logger Logger
}

// NewTrainer builds a Trainer over an already-initialized
// ParameterStore, a co-occurrence stream, and a (possibly empty)
// ForcingTable. A nil logger is replaced with DiscardLogger.
func NewTrainer(cfg *Config, store ParameterStore, reader CoOccurReader, table ForcingTable, logger Logger) Trainer {
	if logger == nil {
		logger = DiscardLogger{}
	}
	return &trainer{cfg: cfg, store: store, reader: reader, table: table, logger: logger}
}

// Run executes cfg.Iterations full passes over the co-occurrence
// stream and returns the mean per-record cost of the final pass.
func (t *trainer) Run() (float64, error) {
	n := t.reader.NumRecords()
	if n == 0 {
		return 0, nil
	}

	t.logBanner()

	spans := t.reader.Spans(t.cfg.Threads)
	pool := workerpool.New(t.cfg.Threads)
	defer pool.Close()

	eta := Real(t.cfg.Eta)
	alpha := Real(t.cfg.Alpha)
	xMax := Real(t.cfg.XMax)

	var meanCost float64

	for iter := 1; iter <= t.cfg.Iterations; iter++ {
		var totalCost atomicFloat
		var totalRecords atomic.Int64

		pool.ParallelFor(func(worker int) {
			span := spans[worker]
			reader, err := t.reader.Open(span)
			if err != nil {
				t.logger.Errorf("worker %d: open span [%d,%d): %v", worker, span.Start, span.End, err)
				return
			}
			defer reader.Close()

			var localCost Real
			var localCount int64

			for {
				rec, err := reader.Read()
				if err != nil {
					break
				}
				cost, ok := processRecord(t.store, t.table, eta, alpha, xMax, rec)
				if !ok {
					continue
				}
				localCost += cost
				localCount++
			}

			totalCost.add(float64(localCost))
			totalRecords.Add(localCount)
		})

		recs := totalRecords.Load()
		if recs > 0 {
			meanCost = totalCost.load() / float64(recs)
		}
		t.logger.Infof("iteration %02d, cost %.6f", iter, meanCost)
	}

	return meanCost, nil
}

// logBanner reproduces the one-time startup summary the reference
// trainer prints to stderr before its first pass, gated on
// cfg.Verbosity the same way: vector/vocab size, x_max, and alpha at
// verbosity > 0, plus the number of forced dimensions (at debug level)
// at verbosity > 1. The forced dimensions themselves and the number of
// words each one forces are not logged.
func (t *trainer) logBanner() {
	if t.cfg.Verbosity <= 0 {
		return
	}
	t.logger.Infof("vector size: %d", t.cfg.VectorSize)
	t.logger.Infof("vocab size: %d", t.store.VocabSize())
	t.logger.Infof("x_max: %f", t.cfg.XMax)
	t.logger.Infof("alpha: %f", t.cfg.Alpha)

	if t.cfg.Verbosity <= 1 || t.table.NumDims() == 0 {
		return
	}
	t.logger.Debugf("forced dimensions: %d", t.table.NumDims())
}

// processRecord applies one GloVe update plus any polarity-forcing
// terms attached to either the record's focal word or its context
// word, and returns the combined per-record cost. ok is false for a
// record whose word ids fall outside the vocabulary, which a
// truncated or corrupted co-occurrence stream can produce; such
// records are skipped rather than treated as fatal.
func processRecord(store ParameterStore, table ForcingTable, eta, alpha, xMax Real, rec CoOccurRecord) (Real, bool) {
	vocabSize := store.VocabSize()
	w1, w2 := int(rec.Word1), int(rec.Word2)
	if w1 < 1 || w1 > vocabSize || w2 < 1 || w2 > vocabSize {
		return 0, false
	}

	d := store.Dim()
	w, g := store.W(), store.G()

	fOff := store.FocalOffset(w1)
	cOff := store.ContextOffset(w2)

	focal := w[fOff : fOff+d+1]
	context := w[cOff : cOff+d+1]
	gFocal := g[fOff : fOff+d+1]
	gContext := g[cOff : cOff+d+1]

	dot := DotAtomic(focal[:d], context[:d], d)
	diff := dot + focal[d].Load() + context[d].Load() - Real(math.Log(float64(rec.Val)))
	fdiff := Weight(rec.Val, xMax, alpha) * diff

	cost := Real(0.5) * fdiff * diff

	gradFocal := make([]Real, d+1)
	gradContext := make([]Real, d+1)
	for i := 0; i < d; i++ {
		gradFocal[i] = fdiff * context[i].Load()
		gradContext[i] = fdiff * focal[i].Load()
	}
	gradFocal[d] = fdiff
	gradContext[d] = fdiff

	for _, e := range table.Lookup(w1) {
		val := focal[e.Dim].Load()
		cost += Phi(val, e.Polarity, e.K)
		gradFocal[e.Dim] += PhiDerivative(val, e.Polarity, e.K)
	}
	for _, e := range table.Lookup(w2) {
		val := context[e.Dim].Load()
		cost += Phi(val, e.Polarity, e.K)
		gradContext[e.Dim] += PhiDerivative(val, e.Polarity, e.K)
	}

	adaGradStep(focal, gFocal, gradFocal, eta)
	adaGradStep(context, gContext, gradContext, eta)

	return cost, true
}

// adaGradStep applies one per-coordinate AdaGrad update: the step
// size for coordinate i uses the squared-gradient accumulator as it
// stood before this record, and the accumulator is only updated
// afterward. Both the load-compute-store of row[i] and of grow[i]
// are unsynchronized with any other worker touching the same cell, by
// design.
func adaGradStep(row, grow []*AtomicReal, grad []Real, eta Real) {
	for i, gr := range grad {
		oldG := grow[i].Load()
		newW := row[i].Load() - eta*gr/Real(math.Sqrt(float64(oldG)))
		row[i].Store(newW)
		grow[i].Store(oldG + gr*gr)
	}
}

// atomicFloat accumulates a float64 total across goroutines using a
// compare-and-swap loop; unlike the training parameters, the
// per-iteration cost total must be exact, not merely non-tearing.
type atomicFloat struct {
	bits atomic.Uint64
}

func (a *atomicFloat) add(v float64) {
	for {
		old := a.bits.Load()
		newV := math.Float64frombits(old) + v
		if a.bits.CompareAndSwap(old, math.Float64bits(newV)) {
			return
		}
	}
}

func (a *atomicFloat) load() float64 {
	return math.Float64frombits(a.bits.Load())
}
