package glove

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestInitLoaderRandomRange(t *testing.T) {
	store := NewParameterStore(5, 3)
	NewInitLoader().Random(store, 42)

	span := Real(1.0 / float64(store.Dim()+1))
	for _, cell := range store.W() {
		v := cell.Load()
		if v < -span/2 || v >= span/2 {
			t.Fatalf("value %v out of range [-%v, %v)", v, span/2, span/2)
		}
	}
	for _, cell := range store.G() {
		if cell.Load() != 1 {
			t.Fatal("Random must reset G to 1")
		}
	}
}

func TestInitLoaderRandomDeterministic(t *testing.T) {
	a := NewParameterStore(4, 2)
	b := NewParameterStore(4, 2)
	NewInitLoader().Random(a, 7)
	NewInitLoader().Random(b, 7)

	for i := range a.W() {
		if a.W()[i].Load() != b.W()[i].Load() {
			t.Fatalf("same seed produced different W at cell %d", i)
		}
	}
}

func TestInitLoaderLoadFileRoundTrip(t *testing.T) {
	store := NewParameterStore(2, 1)
	for i, cell := range store.W() {
		cell.Store(Real(i) * 1.25)
	}

	path := filepath.Join(t.TempDir(), "init.bin")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.DumpW(f); err != nil {
		t.Fatal(err)
	}
	f.Close()

	fresh := NewParameterStore(2, 1)
	if err := NewInitLoader().LoadFile(fresh, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	for i := range store.W() {
		if fresh.W()[i].Load() != store.W()[i].Load() {
			t.Errorf("cell %d = %v, want %v", i, fresh.W()[i].Load(), store.W()[i].Load())
		}
	}
	for _, cell := range fresh.G() {
		if cell.Load() != 1 {
			t.Error("LoadFile must reset G to 1")
		}
	}
}

func TestInitLoaderLoadFileTruncated(t *testing.T) {
	store := NewParameterStore(2, 1) // needs 2*2*2=8 cells
	path := filepath.Join(t.TempDir(), "init.bin")

	var buf bytes.Buffer
	buf.Write(make([]byte, realSize*3)) // too short
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	err := NewInitLoader().LoadFile(store, path)
	if err == nil {
		t.Fatal("expected a truncation error")
	}
}

func TestInitLoaderLoadFileMissing(t *testing.T) {
	store := NewParameterStore(2, 1)
	err := NewInitLoader().LoadFile(store, filepath.Join(t.TempDir(), "missing.bin"))
	if err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}
