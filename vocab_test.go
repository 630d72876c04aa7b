package glove

import (
	"testing"

	"github.com/spf13/afero"
)

func TestLoadVocabularyFS(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "vocab.txt", []byte("the 1000\ncat 50\ndog 30\n"), 0o644)

	vocab, err := LoadVocabularyFS(fs, "vocab.txt")
	if err != nil {
		t.Fatalf("LoadVocabularyFS: %v", err)
	}
	if vocab.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", vocab.Size())
	}
	if vocab.Token(1) != "the" || vocab.Counts[0] != 1000 {
		t.Errorf("word id 1 = (%q, %d), want (the, 1000)", vocab.Token(1), vocab.Counts[0])
	}
	if vocab.Token(3) != "dog" {
		t.Errorf("word id 3 = %q, want dog", vocab.Token(3))
	}
}

func TestLoadVocabularyFSSkipsBlankLines(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "vocab.txt", []byte("the 1000\n\ncat 50\n"), 0o644)

	vocab, err := LoadVocabularyFS(fs, "vocab.txt")
	if err != nil {
		t.Fatalf("LoadVocabularyFS: %v", err)
	}
	if vocab.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", vocab.Size())
	}
}

func TestLoadVocabularyFSRejectsUnkToken(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "vocab.txt", []byte("<unk> 1\n"), 0o644)

	_, err := LoadVocabularyFS(fs, "vocab.txt")
	if err == nil {
		t.Fatal("expected an error for a vocabulary containing <unk>")
	}
}

func TestLoadVocabularyFSRejectsMalformedLine(t *testing.T) {
	fs := afero.NewMemMapFs()
	afero.WriteFile(fs, "vocab.txt", []byte("the 1000 extra\n"), 0o644)

	_, err := LoadVocabularyFS(fs, "vocab.txt")
	if err == nil {
		t.Fatal("expected an error for a line with more than two fields")
	}
}

func TestLoadVocabularyFSRejectsMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := LoadVocabularyFS(fs, "missing.txt")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
