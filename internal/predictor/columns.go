package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Columns is the one-hot column contract the trained model was fitted with.
// A category missing from a list encodes as all zeros.
type Columns struct {
	Airlines     []string `json:"airlines"`
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
}

// DefaultColumns covers the carriers and airports the base model was trained on.
func DefaultColumns() Columns {
	return Columns{
		Airlines:     []string{"Cebu Pacific", "Philippine Airlines", "AirAsia Philippines", "PAL Express", "Cebgo"},
		Sources:      []string{"MNL", "CEB", "DVO", "CRK", "ILO", "BCD", "KLO", "PPS", "TAG"},
		Destinations: []string{"MNL", "CEB", "DVO", "CRK", "ILO", "BCD", "KLO", "MPH", "PPS", "TAG", "CGY", "TAC"},
	}
}

// LoadColumns reads a column mapping from a JSON file.
func LoadColumns(path string) (Columns, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Columns{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var c Columns
	if err := json.Unmarshal(data, &c); err != nil {
		return Columns{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(c.Airlines) == 0 && len(c.Sources) == 0 && len(c.Destinations) == 0 {
		return Columns{}, fmt.Errorf("column mapping %s is empty", path)
	}
	return c, nil
}

// AppendOneHot adds Airline_*, Source_* and Destination_* indicator columns to f.
func (c Columns) AppendOneHot(f *Features, airline, source, destination string) {
	appendGroup(f, "Airline_", c.Airlines, airline)
	appendGroup(f, "Source_", c.Sources, source)
	appendGroup(f, "Destination_", c.Destinations, destination)
}

func appendGroup(f *Features, prefix string, values []string, selected string) {
	for _, v := range values {
		hot := 0.0
		if v == selected {
			hot = 1.0
		}
		f.Add(prefix+v, hot)
	}
}
