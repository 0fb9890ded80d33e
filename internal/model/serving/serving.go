package serving

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"sentiment/internal/domain"
)

// Client scores sequences against a TensorFlow Serving REST endpoint.
type Client struct {
	baseURL    string
	model      string
	signature  string
	apiKey     string
	client     *http.Client
	maxRetries int
	sleep      func(ctx context.Context, d time.Duration) error
}

// Config configures the TensorFlow Serving client.
type Config struct {
	URL        string
	Model      string
	Signature  string
	APIKeyEnv  string
	Timeout    time.Duration
	MaxRetries int
}

// NewClient creates a new prediction client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("serving url is empty")
	}
	if cfg.Model == "" {
		return nil, errors.New("serving model name is empty")
	}
	var key string
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
		}
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		model:      cfg.Model,
		signature:  cfg.Signature,
		apiKey:     key,
		client:     &http.Client{Timeout: t},
		maxRetries: retries,
		sleep:      sleepContext,
	}, nil
}

// Name returns the served model name.
func (c *Client) Name() string { return "serving:" + c.model }

type predictRequest struct {
	SignatureName string  `json:"signature_name,omitempty"`
	Instances     [][]int `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
	Error       string      `json:"error"`
}

// Predict posts seq as a single instance and returns the first output.
func (c *Client) Predict(ctx context.Context, seq domain.Sequence) (float64, error) {
	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.model)
	data, err := json.Marshal(predictRequest{SignatureName: c.signature, Instances: [][]int{seq}})
	if err != nil {
		return 0, err
	}
	var lastErr error
	waited := false
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 && !waited {
			if err := c.sleep(ctx, retryDelay(attempt-1)); err != nil {
				return 0, err
			}
		}
		waited = false
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("serving predict failed: %s", resp.Status)
			// Respect Retry-After if provided
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && attempt < c.maxRetries {
				if err := c.sleep(ctx, time.Duration(secs)*time.Second); err != nil {
					return 0, err
				}
				waited = true
			}
			continue
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if resp.StatusCode >= 300 {
			return 0, fmt.Errorf("serving predict failed: %s: %s", resp.Status, strings.TrimSpace(string(payload)))
		}
		if err != nil {
			lastErr = err
			continue
		}
		return decodeScore(payload)
	}
	return 0, lastErr
}

type statusResponse struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
	} `json:"model_version_status"`
}

// Status asks the server whether the model has a version ready to serve.
func (c *Client) Status(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("serving status failed: %s", resp.Status)
	}
	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode status response: %w", err)
	}
	for _, v := range out.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			return nil
		}
	}
	return fmt.Errorf("model %s has no available version", c.model)
}

func decodeScore(payload []byte) (float64, error) {
	var out predictResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return 0, fmt.Errorf("decode predict response: %w", err)
	}
	if out.Error != "" {
		return 0, errors.New(out.Error)
	}
	if len(out.Predictions) == 0 || len(out.Predictions[0]) == 0 {
		return 0, errors.New("no prediction returned")
	}
	score := out.Predictions[0][0]
	if score < 0 || score > 1 {
		return 0, fmt.Errorf("prediction %f outside [0,1]", score)
	}
	return score, nil
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second || d <= 0 {
		d = 5 * time.Second
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
