package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sentiment/internal/config"
	"sentiment/internal/domain"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	return &config.AppConfig{
		Vocabulary: config.VocabularyConfig{
			Path: writeFile(t, dir, "words.txt", "the\ngreat\nawful\n"),
			Size: 100,
		},
		Encoder: config.EncoderConfig{MaxLength: 8},
		Model: config.ModelConfig{
			Type: "linear",
			Linear: &config.LinearModelConfig{
				Path: writeFile(t, dir, "model.yaml", "sequence_length: 8\nweights:\n  5: 3\n  6: -3\n"),
			},
		},
		Cache: config.CacheConfig{Capacity: 4},
	}
}

func TestBuildEndToEnd(t *testing.T) {
	svc, err := Build(context.Background(), testConfig(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pos, err := svc.Analyze(context.Background(), "The great")
	if err != nil {
		t.Fatal(err)
	}
	if pos.Sentiment != domain.Positive {
		t.Errorf("expected positive, got %+v", pos)
	}
	neg, err := svc.Analyze(context.Background(), "awful awful")
	if err != nil {
		t.Fatal(err)
	}
	if neg.Sentiment != domain.Negative || neg.Confidence <= 0.5 {
		t.Errorf("expected confident negative, got %+v", neg)
	}
	if len(neg.Sequence) != 8 {
		t.Errorf("sequence length = %d", len(neg.Sequence))
	}
}

func TestBuildVocabularyFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Vocabulary.Path = filepath.Join(t.TempDir(), "missing.json")
	_, err := Build(context.Background(), cfg)
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "vocabulary" {
		t.Fatalf("err = %v, want vocabulary InitError", err)
	}
	if !errors.Is(err, domain.ErrVocabularyUnavailable) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err should unwrap to sentinel and cause: %v", err)
	}
}

func TestBuildModelFailures(t *testing.T) {
	tests := map[string]func(*config.AppConfig){
		"missing artifact": func(c *config.AppConfig) { c.Model.Linear.Path = filepath.Join(t.TempDir(), "none.yaml") },
		"length mismatch":  func(c *config.AppConfig) { c.Encoder.MaxLength = 9 },
		"unknown type":     func(c *config.AppConfig) { c.Model.Type = "tensorflow" },
		"serving config":   func(c *config.AppConfig) { c.Model.Type = "serving" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			mutate(cfg)
			_, err := Build(context.Background(), cfg)
			if !errors.Is(err, domain.ErrModelUnavailable) {
				t.Fatalf("err = %v, want ErrModelUnavailable", err)
			}
		})
	}
}

func TestBuildEncoderFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Encoder.MaxLength = -1
	var initErr *InitError
	_, err := Build(context.Background(), cfg)
	if !errors.As(err, &initErr) || initErr.Component != "encoder" {
		t.Fatalf("err = %v, want encoder InitError", err)
	}
	if !errors.Is(err, domain.ErrInvalidConfig) || errors.Is(err, domain.ErrVocabularyUnavailable) {
		t.Errorf("err should be an invalid config error: %v", err)
	}
}

func servingConfig(t *testing.T, url string) *config.AppConfig {
	t.Helper()
	cfg := testConfig(t)
	cfg.Model = config.ModelConfig{
		Type:    "serving",
		Serving: &config.ServingModelConfig{URL: url, Model: "imdb", TimeoutSecs: 2},
	}
	return cfg
}

func TestBuildServingUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := Build(context.Background(), servingConfig(t, url))
	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "model" {
		t.Fatalf("err = %v, want model InitError", err)
	}
	if !errors.Is(err, domain.ErrModelUnavailable) {
		t.Errorf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestBuildServingNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model_version_status": [{"version": "1", "state": "LOADING"}]}`))
	}))
	defer srv.Close()

	if _, err := Build(context.Background(), servingConfig(t, srv.URL)); !errors.Is(err, domain.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestBuildServingReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/models/imdb":
			_, _ = w.Write([]byte(`{"model_version_status": [{"version": "1", "state": "AVAILABLE"}]}`))
		case "/v1/models/imdb:predict":
			_, _ = w.Write([]byte(`{"predictions": [[0.9]]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc, err := Build(context.Background(), servingConfig(t, srv.URL))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	a, err := svc.Analyze(context.Background(), "the great")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Sentiment != domain.Positive || svc.ModelName() != "serving:imdb" {
		t.Errorf("unexpected analysis %+v from %s", a, svc.ModelName())
	}
}

func TestNewClassifierServing(t *testing.T) {
	clf, err := NewClassifier(config.ModelConfig{
		Type:    "serving",
		Serving: &config.ServingModelConfig{URL: "http://localhost:8501", Model: "imdb"},
	}, 500)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if clf.Name() != "serving:imdb" {
		t.Errorf("Name() = %q", clf.Name())
	}
}
