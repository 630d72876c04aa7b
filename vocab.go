package glove

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// reservedUnknownToken is the label synthesized by the Exporter; the
// input vocabulary must never already contain it.
const reservedUnknownToken = "<unk>"

// Vocabulary is the ordered token list read from the vocab file,
// indexed by frequency rank: Tokens[0] is word id 1, the most
// frequent word.
type Vocabulary struct {
	Tokens []string
	Counts []int64
}

// Size returns V, the number of vocabulary entries.
func (v *Vocabulary) Size() int { return len(v.Tokens) }

// Token returns the token string for a 1-based word id.
func (v *Vocabulary) Token(wordID int) string { return v.Tokens[wordID-1] }

// LoadVocabulary reads a "token count" per line vocabulary file from
// the default OS filesystem. The vocabulary file is otherwise
// produced upstream (see spec's scope); this is the reader the
// Exporter and ForcingTable need to interpret it.
func LoadVocabulary(path string) (*Vocabulary, error) {
	return LoadVocabularyFS(afero.NewOsFs(), path)
}

// LoadVocabularyFS is LoadVocabulary parameterized over an afero
// filesystem, so tests can substitute an in-memory one.
func LoadVocabularyFS(fs afero.Fs, path string) (*Vocabulary, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, IOError(path, err)
	}
	defer f.Close()

	vocab := &Vocabulary{}

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, VocabFormatError(path, "expected \"token count\" per line")
		}

		token := fields[0]
		if token == reservedUnknownToken {
			return nil, VocabFormatError(path, "input vocabulary must not contain \"<unk>\"")
		}

		count, err := cast.ToInt64E(fields[1])
		if err != nil {
			return nil, VocabFormatError(path, "non-numeric count for token "+strconv.Quote(token))
		}

		vocab.Tokens = append(vocab.Tokens, token)
		vocab.Counts = append(vocab.Counts, count)
	}
	if err := scanner.Err(); err != nil {
		return nil, IOError(path, err)
	}

	return vocab, nil
}
