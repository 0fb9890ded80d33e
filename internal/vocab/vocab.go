package vocab

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sentiment/internal/domain"
)

// FirstWordIndex is the index given to the most frequent word.
// Everything below it is reserved.
const FirstWordIndex = domain.UnusedIndex + 1

var reserved = [...]string{
	domain.PadIndex:     "<PAD>",
	domain.StartIndex:   "<START>",
	domain.UnknownIndex: "<UNK>",
	domain.UnusedIndex:  "<UNUSED>",
}

// Vocabulary maps lowercase words to model input indices.
// It is immutable once built and safe for concurrent readers.
type Vocabulary struct {
	size    int
	index   map[string]int
	reverse map[int]string
}

// New builds a vocabulary from words ordered by descending frequency.
// Only the first size words are kept; the i-th word gets index i+FirstWordIndex.
func New(ranked []string, size int) (*Vocabulary, error) {
	if size <= FirstWordIndex {
		return nil, fmt.Errorf("vocabulary size %d must exceed %d", size, FirstWordIndex)
	}
	if len(ranked) > size {
		ranked = ranked[:size]
	}
	index := make(map[string]int, len(ranked))
	for _, w := range ranked {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := index[w]; dup {
			continue
		}
		index[w] = len(index) + FirstWordIndex
	}
	if len(index) == 0 {
		return nil, errors.New("vocabulary has no words")
	}
	return FromIndex(index, size), nil
}

// FromIndex wraps an existing word index. Indices are taken as given.
func FromIndex(index map[string]int, size int) *Vocabulary {
	v := &Vocabulary{
		size:    size,
		index:   make(map[string]int, len(index)),
		reverse: make(map[int]string, len(index)+len(reserved)),
	}
	for w, i := range index {
		v.index[w] = i
		v.reverse[i] = w
	}
	for i, name := range reserved {
		v.reverse[i] = name
	}
	return v
}

// Load reads a frequency-ranked word list. A .json file is treated as a
// word->rank object; anything else as one word per line, most frequent first.
func Load(path string, size int) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ranked []string
	if strings.EqualFold(filepath.Ext(path), ".json") {
		ranked, err = parseWordIndex(data)
	} else {
		ranked, err = parseWordList(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(ranked, size)
}

// Index returns the raw index of word without range filtering.
func (v *Vocabulary) Index(word string) (int, bool) {
	i, ok := v.index[word]
	return i, ok
}

// Word returns the token for index, including reserved names.
func (v *Vocabulary) Word(index int) (string, bool) {
	w, ok := v.reverse[index]
	return w, ok
}

// Size is the permitted index bound V.
func (v *Vocabulary) Size() int { return v.size }

// Len is the number of words known, reserved tokens excluded.
func (v *Vocabulary) Len() int { return len(v.index) }

func parseWordIndex(data []byte) ([]string, error) {
	var ranks map[string]int
	if err := json.Unmarshal(data, &ranks); err != nil {
		return nil, err
	}
	words := make([]string, 0, len(ranks))
	for w := range ranks {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		ri, rj := ranks[words[i]], ranks[words[j]]
		if ri != rj {
			return ri < rj
		}
		return words[i] < words[j]
	})
	return words, nil
}

func parseWordList(data []byte) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}
