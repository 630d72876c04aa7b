package glove

import (
	"bytes"
	"testing"
)

func TestNewParameterStoreShape(t *testing.T) {
	store := NewParameterStore(3, 5)
	if store.VocabSize() != 3 || store.Dim() != 5 {
		t.Fatalf("got vocabSize=%d dim=%d, want 3,5", store.VocabSize(), store.Dim())
	}
	if len(store.W()) != 2*3*(5+1) || len(store.G()) != 2*3*(5+1) {
		t.Fatalf("W/G length = %d/%d, want %d", len(store.W()), len(store.G()), 2*3*6)
	}

	for _, cell := range store.G() {
		if cell.Load() != 1 {
			t.Fatal("G must start at the all-ones baseline")
		}
	}
	for _, cell := range store.W() {
		if cell.Load() != 0 {
			t.Fatal("W must start at zero")
		}
	}
}

func TestParameterStoreOffsets(t *testing.T) {
	store := NewParameterStore(4, 2) // rows of D+1=3 cells, V=4
	// Focal rows occupy [0, V), context rows [V, 2V).
	if got := store.FocalOffset(1); got != 0 {
		t.Errorf("FocalOffset(1) = %d, want 0", got)
	}
	if got := store.FocalOffset(4); got != 3*3 {
		t.Errorf("FocalOffset(4) = %d, want %d", got, 3*3)
	}
	if got := store.ContextOffset(1); got != 4*3 {
		t.Errorf("ContextOffset(1) = %d, want %d", got, 4*3)
	}
	if got := store.ContextOffset(4); got != 7*3 {
		t.Errorf("ContextOffset(4) = %d, want %d", got, 7*3)
	}
}

func TestDumpWRoundTrip(t *testing.T) {
	store := NewParameterStore(2, 1)
	for i, cell := range store.W() {
		cell.Store(Real(i) + 0.5)
	}

	var buf bytes.Buffer
	if err := store.DumpW(&buf); err != nil {
		t.Fatalf("DumpW: %v", err)
	}
	if buf.Len() != len(store.W())*realSize {
		t.Fatalf("dumped %d bytes, want %d", buf.Len(), len(store.W())*realSize)
	}

	raw := buf.Bytes()
	for i := range store.W() {
		got := getReal(raw[i*realSize : (i+1)*realSize])
		want := Real(i) + 0.5
		if got != want {
			t.Errorf("cell %d round-tripped as %v, want %v", i, got, want)
		}
	}
}
