package textstats

import (
	"regexp"
	"strings"

	"sentiment/internal/domain"
	"sentiment/internal/encoder"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// Sentences splits text on terminal punctuation. Trailing text without a
// terminator counts as its own sentence.
func Sentences(text string) []string {
	matches := sentenceRe.FindAllStringIndex(text, -1)
	var out []string
	end := 0
	for _, m := range matches {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			out = append(out, s)
		}
		end = m[1]
	}
	if rest := strings.TrimSpace(text[end:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// Compute gathers review statistics for text as the encoder would see it.
func Compute(text string, v domain.Vocabulary, maxLength int) domain.Stats {
	tokens := encoder.Tokenize(text)
	unknown := 0
	for _, tok := range tokens {
		if !encoder.Known(v, tok) {
			unknown++
		}
	}
	return domain.Stats{
		Words:     len(tokens),
		Sentences: len(Sentences(text)),
		Unknown:   unknown,
		Truncated: maxLength > 0 && len(tokens) > maxLength,
	}
}

// UnknownWords returns the distinct tokens of text that encode as unknown,
// in first-seen order.
func UnknownWords(text string, v domain.Vocabulary) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range encoder.Tokenize(text) {
		if encoder.Known(v, tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
