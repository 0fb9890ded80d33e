package encoder

import (
	"errors"
	"strings"

	"sentiment/internal/domain"
)

// Encode maps text to exactly maxLength vocabulary indices.
// Tokens are lowercase whitespace-separated words. Tokens missing from v, or
// indexed at or beyond v.Size(), become the unknown index. Short input is
// padded on the left; long input keeps its trailing maxLength tokens.
func Encode(text string, v domain.Vocabulary, maxLength int) domain.Sequence {
	if maxLength <= 0 {
		return domain.Sequence{}
	}
	tokens := Tokenize(text)
	if len(tokens) > maxLength {
		tokens = tokens[len(tokens)-maxLength:]
	}
	seq := make(domain.Sequence, maxLength)
	offset := maxLength - len(tokens)
	for i, tok := range tokens {
		seq[offset+i] = lookup(v, tok)
	}
	return seq
}

// Tokenize lowercases text and splits it on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// Known reports whether token maps to an in-range vocabulary index.
func Known(v domain.Vocabulary, token string) bool {
	return lookup(v, token) != domain.UnknownIndex
}

func lookup(v domain.Vocabulary, token string) int {
	idx, ok := v.Index(token)
	if !ok || idx < 0 || idx >= v.Size() {
		return domain.UnknownIndex
	}
	return idx
}

// Encoder binds a vocabulary and a sequence length.
type Encoder struct {
	vocab     domain.Vocabulary
	maxLength int
}

// New creates an encoder producing sequences of maxLength indices.
func New(v domain.Vocabulary, maxLength int) (*Encoder, error) {
	if v == nil {
		return nil, errors.New("nil vocabulary")
	}
	if maxLength <= 0 {
		return nil, errors.New("max length must be positive")
	}
	return &Encoder{vocab: v, maxLength: maxLength}, nil
}

func (e *Encoder) Encode(text string) domain.Sequence {
	return Encode(text, e.vocab, e.maxLength)
}

func (e *Encoder) MaxLength() int { return e.maxLength }

func (e *Encoder) Vocabulary() domain.Vocabulary { return e.vocab }

// Decode renders the non-padding part of seq as words. Indices the
// vocabulary cannot name are shown as "?".
func (e *Encoder) Decode(seq domain.Sequence) string {
	words := make([]string, 0, len(seq))
	for _, idx := range seq {
		if idx == domain.PadIndex {
			continue
		}
		w, ok := e.vocab.Word(idx)
		if !ok {
			w = "?"
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}
