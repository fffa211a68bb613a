package predictor

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when no model is configured or the model cannot answer.
var ErrUnavailable = errors.New("price predictor unavailable")

// Predictor maps a flight feature vector to a raw base price.
// This interface allows swapping the model backend (model server, LLM) without touching pricing.
type Predictor interface {
	Predict(ctx context.Context, features Features) (float64, error)
}

// Features is an ordered feature vector; Names[i] labels Values[i].
type Features struct {
	Names  []string
	Values []float64
}

func (f *Features) Add(name string, value float64) {
	f.Names = append(f.Names, name)
	f.Values = append(f.Values, value)
}

// Get returns the value for name and whether it is present.
func (f Features) Get(name string) (float64, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Values[i], true
		}
	}
	return 0, false
}

func (f Features) Map() map[string]float64 {
	m := make(map[string]float64, len(f.Names))
	for i, n := range f.Names {
		m[n] = f.Values[i]
	}
	return m
}

// Unavailable is a Predictor that never answers; used when no model is configured.
type Unavailable struct{}

func (Unavailable) Predict(context.Context, Features) (float64, error) {
	return 0, ErrUnavailable
}
