package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"sentiment/internal/domain"
	"sentiment/internal/encoder"
	"sentiment/internal/textstats"
)

// Threshold separates positive from negative scores. Scores equal to it are negative.
const Threshold = 0.5

type SentimentServiceImpl struct {
	encoder    *encoder.Encoder
	classifier domain.Classifier
	cache      domain.ScoreCache
}

// NewSentimentService wires an encoder and a classifier. cache may be nil.
func NewSentimentService(enc *encoder.Encoder, classifier domain.Classifier, cache domain.ScoreCache) *SentimentServiceImpl {
	return &SentimentServiceImpl{encoder: enc, classifier: classifier, cache: cache}
}

func (s *SentimentServiceImpl) Analyze(ctx context.Context, text string) (domain.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Analysis{}, domain.ErrEmptyReview
	}
	seq := s.encoder.Encode(text)
	score, err := s.score(ctx, seq)
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("%s predict: %w: %w", s.classifier.Name(), domain.ErrModelUnavailable, err)
	}
	sentiment, confidence := Classify(score)
	return domain.Analysis{
		Sentiment:  sentiment,
		Score:      score,
		Confidence: confidence,
		Stats:      textstats.Compute(text, s.encoder.Vocabulary(), s.encoder.MaxLength()),
		Sequence:   seq,
	}, nil
}

// Decode shows the encoded input the way the model sees it.
func (s *SentimentServiceImpl) Decode(seq domain.Sequence) string {
	return s.encoder.Decode(seq)
}

// UnknownWords lists review tokens the vocabulary cannot represent.
func (s *SentimentServiceImpl) UnknownWords(text string) []string {
	return textstats.UnknownWords(text, s.encoder.Vocabulary())
}

// ModelName identifies the classifier in use.
func (s *SentimentServiceImpl) ModelName() string { return s.classifier.Name() }

func (s *SentimentServiceImpl) score(ctx context.Context, seq domain.Sequence) (float64, error) {
	if s.cache != nil {
		if score, ok := s.cache.Get(seq); ok {
			return score, nil
		}
	}
	score, err := s.classifier.Predict(ctx, seq)
	if err != nil {
		return 0, err
	}
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("score %f outside [0,1]", score)
	}
	if s.cache != nil {
		s.cache.Put(seq, score)
	}
	log.Printf("predict model=%s score=%.4f", s.classifier.Name(), score)
	return score, nil
}

// Classify maps a score to a label and the confidence in that label.
func Classify(score float64) (domain.Sentiment, float64) {
	if score > Threshold {
		return domain.Positive, score
	}
	return domain.Negative, 1 - score
}
