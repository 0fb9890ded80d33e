package linear

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"sentiment/internal/domain"
)

// Artifact is the on-disk form of a bag-of-indices logistic classifier.
type Artifact struct {
	Name           string          `yaml:"name"`
	Bias           float64         `yaml:"bias"`
	SequenceLength int             `yaml:"sequence_length"`
	Weights        map[int]float64 `yaml:"weights"`
}

// Classifier scores a sequence as sigmoid(bias + mean weight of its
// non-padding indices). Indices without a weight contribute zero.
type Classifier struct {
	name      string
	bias      float64
	seqLength int
	weights   map[int]float64
}

// Load reads a YAML artifact from path.
func Load(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a Artifact
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return New(a)
}

// New validates an artifact and builds a classifier from it.
func New(a Artifact) (*Classifier, error) {
	if len(a.Weights) == 0 {
		return nil, errors.New("linear model has no weights")
	}
	if math.IsNaN(a.Bias) || math.IsInf(a.Bias, 0) {
		return nil, errors.New("linear model bias is not finite")
	}
	weights := make(map[int]float64, len(a.Weights))
	for idx, w := range a.Weights {
		if idx < 0 {
			return nil, fmt.Errorf("negative index %d in weights", idx)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight for index %d is not finite", idx)
		}
		weights[idx] = w
	}
	name := a.Name
	if name == "" {
		name = "linear"
	}
	return &Classifier{name: name, bias: a.Bias, seqLength: a.SequenceLength, weights: weights}, nil
}

// Name returns the identifier of the loaded model.
func (c *Classifier) Name() string { return c.name }

// SequenceLength is the input length the model was built for, 0 if any.
func (c *Classifier) SequenceLength() int { return c.seqLength }

// Predict returns the positive-class probability for seq.
func (c *Classifier) Predict(ctx context.Context, seq domain.Sequence) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c.seqLength > 0 && len(seq) != c.seqLength {
		return 0, fmt.Errorf("sequence length %d, model expects %d", len(seq), c.seqLength)
	}
	sum := 0.0
	n := 0
	for _, idx := range seq {
		if idx == domain.PadIndex {
			continue
		}
		sum += c.weights[idx]
		n++
	}
	z := c.bias
	if n > 0 {
		z += sum / float64(n)
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
