package glove

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

var _ ForcingTable = (*forcingTable)(nil)

// forcingTable is the in-memory index built from the four forcing
// files. Per the design note in spec.md §9, it is represented as a
// per-word flat entry list rather than the ragged per-dimension
// arrays the files are parsed into: this turns the Trainer's lookup
// into a single map access followed by a linear scan already in
// increasing-dimension order, instead of a scan over every forced
// dimension for every record.
type forcingTable struct {
	numDims int
	byWord  map[int][]ForcingEntry
}

func (t *forcingTable) NumDims() int { return t.numDims }

func (t *forcingTable) Lookup(wordID int) []ForcingEntry {
	return t.byWord[wordID]
}

// BuildForcingTable parses the four forcing files named by cfg and
// builds the lookup index the Trainer consults. If forcing is
// disabled, no files are read and the returned table has NumDims()
// == 0 everywhere.
func BuildForcingTable(cfg *Config, fs afero.Fs, vocabSize, dim int) (ForcingTable, error) {
	if !cfg.ForcingEnabled {
		return &forcingTable{}, nil
	}

	forcedDims, err := parseDimsFile(fs, cfg.DimsFile, dim)
	if err != nil {
		return nil, err
	}
	f := len(forcedDims)

	wordIDs, err := parseWordIDsFile(fs, cfg.WordIDsFile, f, vocabSize)
	if err != nil {
		return nil, err
	}

	numWordsPerDim := make([]int, f)
	for i, ids := range wordIDs {
		numWordsPerDim[i] = len(ids)
	}

	polarities, err := parsePolaritiesFile(fs, cfg.PolaritiesFile, numWordsPerDim)
	if err != nil {
		return nil, err
	}

	kvals, err := parseKValsFile(fs, cfg.KValsFile, numWordsPerDim)
	if err != nil {
		return nil, err
	}

	byWord := make(map[int][]ForcingEntry)
	for i, dimIdx := range forcedDims {
		for j, wid := range wordIDs[i] {
			byWord[wid] = append(byWord[wid], ForcingEntry{
				Dim:      dimIdx,
				Polarity: polarities[i][j],
				K:        kvals[i][j],
			})
		}
	}

	for wid, entries := range byWord {
		for i := 1; i < len(entries); i++ {
			if entries[i].Dim <= entries[i-1].Dim {
				return nil, fmt.Errorf(
					"%w: %s: word %d has non-monotone forced dimensions %v",
					ErrNonMonotoneForcing, cfg.DimsFile, wid, entries,
				)
			}
		}
	}

	return &forcingTable{numDims: f, byWord: byWord}, nil
}

// readNonBlankLines returns every line of path with comments ('#'
// prefix) and blank lines removed, in file order, as the four
// forcing-file parsers all share that convention.
func readNonBlankLines(fs afero.Fs, path string) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, IOError(path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, IOError(path, err)
	}
	return lines, nil
}

// parseDimsFile parses the forced-dimensions file: each line is a
// bare dimension index or a start:stop range, both 0-based and
// exclusive of D.
func parseDimsFile(fs afero.Fs, path string, dim int) ([]int, error) {
	lines, err := readNonBlankLines(fs, path)
	if err != nil {
		return nil, err
	}

	var dims []int
	for _, line := range lines {
		if strings.Contains(line, ".") {
			return nil, ForcingFormatError(path, "decimal points are not allowed: "+line)
		}

		if colon := strings.IndexByte(line, ':'); colon >= 0 {
			startStr, stopStr := line[:colon], line[colon+1:]

			start := 0
			if startStr != "" {
				start, err = strconv.Atoi(startStr)
				if err != nil || start < 0 {
					return nil, ForcingFormatError(path, "invalid range start: "+line)
				}
			}

			stop := dim
			if stopStr != "" {
				stop, err = strconv.Atoi(stopStr)
				if err != nil {
					return nil, ForcingFormatError(path, "invalid range stop: "+line)
				}
			}

			if stop <= start || stop > dim {
				return nil, ForcingFormatError(path, "range out of bounds: "+line)
			}
			for d := start; d < stop; d++ {
				dims = append(dims, d)
			}
			continue
		}

		d, err := strconv.Atoi(line)
		if err != nil || d < 0 {
			return nil, ForcingFormatError(path, "invalid dimension index: "+line)
		}
		if d == dim {
			return nil, fmt.Errorf("%w: %s: dimension %d is the bias column", ErrForcedBiasDim, path, d)
		}
		if d > dim {
			return nil, ForcingFormatError(path, "invalid dimension index: "+line)
		}
		dims = append(dims, d)
	}

	return dims, nil
}

// parseWordIDsFile parses exactly f non-blank lines, each a
// whitespace-separated list of 1-based vocabulary indices in (0, V].
func parseWordIDsFile(fs afero.Fs, path string, f, vocabSize int) ([][]int, error) {
	lines, err := readNonBlankLines(fs, path)
	if err != nil {
		return nil, err
	}
	if len(lines) != f {
		return nil, ForcingFormatError(
			path, fmt.Sprintf("expected %d lines, got %d", f, len(lines)),
		)
	}

	out := make([][]int, f)
	for i, line := range lines {
		if strings.Contains(line, ".") {
			return nil, ForcingFormatError(path, "decimal points are not allowed: "+line)
		}

		tokens := strings.Fields(line)
		ids := make([]int, len(tokens))
		for j, tok := range tokens {
			id, err := strconv.Atoi(tok)
			if err != nil || id <= 0 || id > vocabSize {
				return nil, ForcingFormatError(
					path, fmt.Sprintf("line %d: invalid word id %q", i+1, tok),
				)
			}
			ids[j] = id
		}
		out[i] = ids
	}

	return out, nil
}

// parsePolaritiesFile parses the polarities file against the
// per-dimension word counts already established by the word-ids
// file, honoring the **+/**-, *+/*- and +/- forms described in
// spec.md §4.4.
func parsePolaritiesFile(fs afero.Fs, path string, numWordsPerDim []int) ([][]Real, error) {
	f := len(numWordsPerDim)
	lines, err := readNonBlankLines(fs, path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ForcingFormatError(path, "file has no content")
	}

	if tokens := strings.Fields(lines[0]); len(tokens) == 1 && isGlobalToken(tokens[0]) {
		if len(lines) > 1 {
			return nil, ForcingFormatError(path, "**+/**- must be the file's only content")
		}
		pol := signOf(tokens[0][2:])
		result := make([][]Real, f)
		for i, n := range numWordsPerDim {
			result[i] = fillReal(n, pol)
		}
		return result, nil
	}

	if len(lines) != f {
		return nil, ForcingShapeError(path, fmt.Sprintf("expected %d lines, got %d", f, len(lines)))
	}

	result := make([][]Real, f)
	for i, line := range lines {
		n := numWordsPerDim[i]
		tokens := strings.Fields(line)

		if len(tokens) == 1 && isLineToken(tokens[0]) {
			result[i] = fillReal(n, signOf(tokens[0][1:]))
			continue
		}

		if len(tokens) != n {
			return nil, ForcingShapeError(
				path, fmt.Sprintf("dim %d: expected %d polarity tokens, got %d", i, n, len(tokens)),
			)
		}
		result[i] = make([]Real, n)
		for j, tok := range tokens {
			switch tok {
			case "+":
				result[i][j] = 1
			case "-":
				result[i][j] = -1
			default:
				return nil, ForcingFormatError(path, fmt.Sprintf("dim %d: invalid token %q", i, tok))
			}
		}
	}

	return result, nil
}

// parseKValsFile mirrors parsePolaritiesFile, with non-negative
// numeric literals instead of +/- tokens. The reference format
// requires the token's first rune to be a digit (ruling out a
// leading sign), which is what keeps k-values non-negative.
func parseKValsFile(fs afero.Fs, path string, numWordsPerDim []int) ([][]Real, error) {
	f := len(numWordsPerDim)
	lines, err := readNonBlankLines(fs, path)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ForcingFormatError(path, "file has no content")
	}

	if tokens := strings.Fields(lines[0]); len(tokens) == 1 && strings.HasPrefix(tokens[0], "**") {
		payload := tokens[0][2:]
		val, err := parseKValToken(path, payload)
		if err != nil {
			return nil, err
		}
		if len(lines) > 1 {
			return nil, ForcingFormatError(path, "**val must be the file's only content")
		}
		result := make([][]Real, f)
		for i, n := range numWordsPerDim {
			result[i] = fillReal(n, val)
		}
		return result, nil
	}

	if len(lines) != f {
		return nil, ForcingShapeError(path, fmt.Sprintf("expected %d lines, got %d", f, len(lines)))
	}

	result := make([][]Real, f)
	for i, line := range lines {
		n := numWordsPerDim[i]
		tokens := strings.Fields(line)

		if len(tokens) == 1 && strings.HasPrefix(tokens[0], "*") && !strings.HasPrefix(tokens[0], "**") {
			val, err := parseKValToken(path, tokens[0][1:])
			if err != nil {
				return nil, err
			}
			result[i] = fillReal(n, val)
			continue
		}

		if len(tokens) != n {
			return nil, ForcingShapeError(
				path, fmt.Sprintf("dim %d: expected %d k-value tokens, got %d", i, n, len(tokens)),
			)
		}
		result[i] = make([]Real, n)
		for j, tok := range tokens {
			val, err := parseKValToken(path, tok)
			if err != nil {
				return nil, err
			}
			result[i][j] = val
		}
	}

	return result, nil
}

func parseKValToken(path, token string) (Real, error) {
	if token == "" || token[0] < '0' || token[0] > '9' {
		return 0, ForcingFormatError(path, "invalid k-value token: "+token)
	}
	v, err := cast.ToFloat64E(token)
	if err != nil {
		return 0, ForcingFormatError(path, "invalid k-value token: "+token)
	}
	return Real(v), nil
}

func isGlobalToken(tok string) bool { return tok == "**+" || tok == "**-" }
func isLineToken(tok string) bool   { return tok == "*+" || tok == "*-" }

func signOf(suffix string) Real {
	if suffix == "-" {
		return -1
	}
	return 1
}

func fillReal(n int, v Real) []Real {
	out := make([]Real, n)
	for i := range out {
		out[i] = v
	}
	return out
}
