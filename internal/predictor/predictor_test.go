package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeatures() Features {
	var f Features
	f.Add("days_left", 21)
	f.Add("Total_Stops", 0)
	f.Add("Duration_hours", 1)
	f.Add("Duration_mins", 20)
	return f
}

func TestFeaturesAccessors(t *testing.T) {
	f := sampleFeatures()

	v, ok := f.Get("days_left")
	assert.True(t, ok)
	assert.Equal(t, 21.0, v)

	_, ok = f.Get("missing")
	assert.False(t, ok)

	m := f.Map()
	assert.Len(t, m, 4)
	assert.Equal(t, 20.0, m["Duration_mins"])
	assert.Equal(t, []string{"days_left", "Total_Stops", "Duration_hours", "Duration_mins"}, f.Names)
}

func TestAppendOneHot(t *testing.T) {
	cols := Columns{
		Airlines:     []string{"Cebu Pacific", "Philippine Airlines"},
		Sources:      []string{"MNL", "CEB"},
		Destinations: []string{"MNL", "CEB", "DVO"},
	}
	var f Features
	cols.AppendOneHot(&f, "Philippine Airlines", "MNL", "ZAM")

	require.Len(t, f.Names, 7)
	v, _ := f.Get("Airline_Philippine Airlines")
	assert.Equal(t, 1.0, v)
	v, _ = f.Get("Airline_Cebu Pacific")
	assert.Equal(t, 0.0, v)
	v, _ = f.Get("Source_MNL")
	assert.Equal(t, 1.0, v)

	// Unknown destination encodes as all zeros.
	for _, name := range []string{"Destination_MNL", "Destination_CEB", "Destination_DVO"} {
		v, ok := f.Get(name)
		assert.True(t, ok)
		assert.Equal(t, 0.0, v, name)
	}
}

func TestLoadColumns(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "columns.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"airlines":["Cebu Pacific"],"sources":["MNL"],"destinations":["CEB"]}`), 0o600))
	cols, err := LoadColumns(good)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cebu Pacific"}, cols.Airlines)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{}`), 0o600))
	_, err = LoadColumns(empty)
	assert.Error(t, err)

	_, err = LoadColumns(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestHTTPPredictor(t *testing.T) {
	t.Run("returns first prediction", func(t *testing.T) {
		var got predictRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"predictions":[4321.5]}`))
		}))
		defer srv.Close()

		p := NewHTTPPredictor(srv.URL, time.Second)
		price, err := p.Predict(context.Background(), sampleFeatures())
		require.NoError(t, err)
		assert.Equal(t, 4321.5, price)
		assert.Equal(t, sampleFeatures().Names, got.Columns)
		require.Len(t, got.Instances, 1)
		assert.Equal(t, sampleFeatures().Values, got.Instances[0])
	})

	t.Run("server error is unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, err := NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), sampleFeatures())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("model error is reported", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"predictions":[],"error":"model not loaded"}`))
		}))
		defer srv.Close()

		_, err := NewHTTPPredictor(srv.URL, time.Second).Predict(context.Background(), sampleFeatures())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model not loaded")
	})

	t.Run("empty endpoint", func(t *testing.T) {
		_, err := NewHTTPPredictor("  ", 0).Predict(context.Background(), sampleFeatures())
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := NewHTTPPredictor(url, time.Second).Predict(context.Background(), sampleFeatures())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Predict(context.Background(), Features{})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) GenerateContent(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(f.text)}},
		}},
	}, nil
}

func TestGeminiPredictor(t *testing.T) {
	tests := []struct {
		name    string
		gen     fakeGenerator
		want    float64
		wantErr bool
	}{
		{"plain json", fakeGenerator{text: `{"price": 3850}`}, 3850, false},
		{"fenced json", fakeGenerator{text: "```json\n{\"price\": 2100.5}\n```"}, 2100.5, false},
		{"non-positive", fakeGenerator{text: `{"price": 0}`}, 0, true},
		{"garbage", fakeGenerator{text: `the fare is cheap`}, 0, true},
		{"generation failure", fakeGenerator{err: errors.New("quota")}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &GeminiPredictor{model: tt.gen}
			got, err := p.Predict(context.Background(), sampleFeatures())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("missing key", func(t *testing.T) {
		_, err := NewGeminiPredictor(context.Background(), "")
		assert.Error(t, err)
	})
}
