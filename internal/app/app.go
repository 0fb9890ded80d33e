package app

import (
	"context"
	"fmt"
	"time"

	"sentiment/internal/cache"
	"sentiment/internal/config"
	"sentiment/internal/domain"
	"sentiment/internal/encoder"
	"sentiment/internal/model/linear"
	"sentiment/internal/model/serving"
	"sentiment/internal/service"
	"sentiment/internal/vocab"
)

// InitError reports a collaborator that could not be brought up.
// The application must not serve requests after one.
type InitError struct {
	Component string
	Kind      error
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v: %v", e.Component, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *InitError) Unwrap() []error { return []error{e.Kind, e.Err} }

// Build assembles the sentiment service from configuration. Remote
// classifiers must report ready within ctx before Build succeeds.
func Build(ctx context.Context, cfg *config.AppConfig) (*service.SentimentServiceImpl, error) {
	v, err := vocab.Load(cfg.Vocabulary.Path, cfg.Vocabulary.Size)
	if err != nil {
		return nil, &InitError{Component: "vocabulary", Kind: domain.ErrVocabularyUnavailable, Err: err}
	}
	enc, err := encoder.New(v, cfg.Encoder.MaxLength)
	if err != nil {
		return nil, &InitError{Component: "encoder", Kind: domain.ErrInvalidConfig, Err: err}
	}
	clf, err := NewClassifier(cfg.Model, enc.MaxLength())
	if err != nil {
		return nil, &InitError{Component: "model", Kind: domain.ErrModelUnavailable, Err: err}
	}
	if sc, ok := clf.(domain.StatusChecker); ok {
		if err := sc.Status(ctx); err != nil {
			return nil, &InitError{Component: "model", Kind: domain.ErrModelUnavailable, Err: err}
		}
	}
	var c domain.ScoreCache
	if cfg.Cache.Capacity > 0 {
		c = cache.NewMemory(cfg.Cache.Capacity)
	}
	return service.NewSentimentService(enc, clf, c), nil
}

// NewClassifier selects the classifier named by cfg.Type.
func NewClassifier(cfg config.ModelConfig, maxLength int) (domain.Classifier, error) {
	switch cfg.Type {
	case "linear", "":
		if cfg.Linear == nil {
			return nil, fmt.Errorf("linear model config missing")
		}
		clf, err := linear.Load(cfg.Linear.Path)
		if err != nil {
			return nil, err
		}
		if n := clf.SequenceLength(); n > 0 && n != maxLength {
			return nil, fmt.Errorf("model expects sequences of %d, encoder produces %d", n, maxLength)
		}
		return clf, nil
	case "serving":
		if cfg.Serving == nil {
			return nil, fmt.Errorf("serving model config missing")
		}
		client, err := serving.NewClient(serving.Config{
			URL:        cfg.Serving.URL,
			Model:      cfg.Serving.Model,
			Signature:  cfg.Serving.Signature,
			APIKeyEnv:  cfg.Serving.APIKeyEnv,
			Timeout:    time.Duration(cfg.Serving.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Serving.Retries(),
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown model type: %s", cfg.Type)
	}
}
