package encoder

import (
	"reflect"
	"strings"
	"testing"

	"sentiment/internal/domain"
	"sentiment/internal/vocab"
)

func exampleVocab() *vocab.Vocabulary {
	return vocab.FromIndex(map[string]int{"good": 5, "movie": 6, "huge": 20000}, 10000)
}

func TestEncodeExamples(t *testing.T) {
	v := exampleVocab()
	tests := []struct {
		name string
		text string
		max  int
		want domain.Sequence
	}{
		{"pads on the left", "good movie", 5, domain.Sequence{0, 0, 0, 5, 6}},
		{"keeps trailing tokens", "good movie terrible", 2, domain.Sequence{6, 2}},
		{"empty text", "", 3, domain.Sequence{0, 0, 0}},
		{"whitespace only", " \t\n ", 2, domain.Sequence{0, 0}},
		{"lowercases", "GOOD Movie", 2, domain.Sequence{5, 6}},
		{"punctuation is part of the token", "good, movie!", 2, domain.Sequence{2, 2}},
		{"out of range index is unknown", "huge good", 2, domain.Sequence{2, 5}},
		{"non-positive length", "good", 0, domain.Sequence{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.text, v, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Encode(%q, %d) = %v, want %v", tt.text, tt.max, got, tt.want)
			}
		})
	}
}

func TestEncodeProperties(t *testing.T) {
	v := exampleVocab()
	texts := []string{
		"",
		"good",
		"good movie good movie",
		strings.Repeat("good movie ", 300),
		"unheard words only here",
	}
	for _, max := range []int{1, 4, 500} {
		for _, text := range texts {
			seq := Encode(text, v, max)
			if len(seq) != max {
				t.Fatalf("len(Encode(_, %d)) = %d", max, len(seq))
			}
			for _, idx := range seq {
				if idx < 0 || idx >= v.Size() {
					t.Fatalf("index %d out of [0,%d)", idx, v.Size())
				}
			}
			if again := Encode(text, v, max); !reflect.DeepEqual(seq, again) {
				t.Fatalf("Encode is not deterministic for %q", text)
			}
		}
	}
}

func TestEncodeExactLengthHasNoPadding(t *testing.T) {
	v := exampleVocab()
	seq := Encode("good movie good movie", v, 4)
	for _, idx := range seq {
		if idx == domain.PadIndex {
			t.Fatalf("unexpected padding in %v", seq)
		}
	}
}

func TestEncodeDropsLeadingTokens(t *testing.T) {
	v := exampleVocab()
	a := Encode("nonsense nonsense good movie", v, 2)
	b := Encode("movie good good movie", v, 2)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("leading tokens influenced result: %v vs %v", a, b)
	}
}

func TestNewValidates(t *testing.T) {
	if _, err := New(exampleVocab(), 0); err == nil {
		t.Error("expected error for zero length")
	}
	if _, err := New(nil, 10); err == nil {
		t.Error("expected error for nil vocabulary")
	}
}

func TestDecode(t *testing.T) {
	e, err := New(exampleVocab(), 5)
	if err != nil {
		t.Fatal(err)
	}
	seq := e.Encode("good mystery movie")
	if got, want := e.Decode(seq), "good <UNK> movie"; got != want {
		t.Errorf("Decode = %q, want %q", got, want)
	}
	if got := e.Decode(domain.Sequence{0, 4242}); got != "?" {
		t.Errorf("Decode unnamed index = %q, want ?", got)
	}
}

func TestKnown(t *testing.T) {
	v := exampleVocab()
	if !Known(v, "good") {
		t.Error("good should be known")
	}
	if Known(v, "huge") || Known(v, "absent") {
		t.Error("out of range and absent tokens should be unknown")
	}
}
