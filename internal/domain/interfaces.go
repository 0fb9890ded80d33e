package domain

import (
	"context"
	"errors"
)

// Reserved vocabulary indices shared by the encoder and every classifier.
const (
	PadIndex     = 0
	StartIndex   = 1
	UnknownIndex = 2
	UnusedIndex  = 3
)

var (
	// ErrEmptyReview is returned when there is no text to analyze.
	ErrEmptyReview = errors.New("empty review")
	// ErrVocabularyUnavailable marks failures to build the vocabulary.
	ErrVocabularyUnavailable = errors.New("vocabulary unavailable")
	// ErrModelUnavailable marks failures to load or reach the classifier.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrInvalidConfig marks settings that cannot be used as given.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Sequence is a fixed-length run of vocabulary indices fed to a classifier.
type Sequence []int

// Sentiment is the binary label derived from a classifier score.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
)

// Stats describes the review text as seen by the encoder.
type Stats struct {
	Words     int
	Sentences int
	Unknown   int
	Truncated bool
}

// Coverage is the share of tokens found in the vocabulary.
func (s Stats) Coverage() float64 {
	if s.Words == 0 {
		return 0
	}
	return float64(s.Words-s.Unknown) / float64(s.Words)
}

// Analysis is the outcome of classifying a single review.
type Analysis struct {
	Sentiment  Sentiment
	Score      float64
	Confidence float64
	Stats      Stats
	Sequence   Sequence
}

// Vocabulary resolves tokens to indices. Size bounds the permitted index range.
type Vocabulary interface {
	Index(word string) (int, bool)
	Word(index int) (string, bool)
	Size() int
}

// Classifier scores an encoded sequence. The score lies in [0,1].
type Classifier interface {
	Name() string
	Predict(ctx context.Context, seq Sequence) (float64, error)
}

// StatusChecker is implemented by classifiers that live behind a server and
// can report whether they are ready before the first prediction.
type StatusChecker interface {
	Status(ctx context.Context) error
}

// ScoreCache memoizes classifier scores by encoded sequence.
type ScoreCache interface {
	Get(seq Sequence) (float64, bool)
	Put(seq Sequence, score float64)
}

// SentimentService defines the operations exposed by the application core.
type SentimentService interface {
	Analyze(ctx context.Context, text string) (Analysis, error)
}
