// Command geninit writes a random initialization file sized for a
// given vocabulary, in the same binary layout glove-train reads back
// with -init-file.
package main

import (
	"flag"
	"log"
	"os"

	glove "github.com/koc-lab/imparting-interpretability"
)

func main() {
	vocabFile := flag.String("vocab-file", "vocab.txt", "vocabulary file")
	vectorSize := flag.Int("vector-size", 50, "dimension of word vectors, excluding the bias term")
	initFile := flag.String("init-file", "out/init.bin", "output initialization file")
	seed := flag.Int64("seed", 1, "seed for random initialization")
	flag.Parse()

	vocab, err := glove.LoadVocabulary(*vocabFile)
	if err != nil {
		log.Fatalf("loading %s: %v", *vocabFile, err)
	}

	store := glove.NewParameterStore(vocab.Size(), *vectorSize)
	glove.NewInitLoader().Random(store, *seed)

	f, err := os.Create(*initFile)
	if err != nil {
		log.Fatalf("creating %s: %v", *initFile, err)
	}
	defer f.Close()

	if err := store.DumpW(f); err != nil {
		log.Fatalf("writing %s: %v", *initFile, err)
	}
}
