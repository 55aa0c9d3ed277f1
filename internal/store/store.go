package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

// ErrUnavailable marks a storage failure: the backend is unreachable or the
// write was rejected. Handlers match it with errors.Is to surface 503.
var ErrUnavailable = errors.New("point store unavailable")

// unavailable wraps err so it carries the ErrUnavailable mark and the
// failing operation while preserving the cause in the message.
func unavailable(op string, err error) error {
	return fmt.Errorf("point store: %s: %w: %v", op, ErrUnavailable, err)
}

// fixtureFile is the YAML shape of a fixture file: a list of points under a
// top-level "points" key.
type fixtureFile struct {
	Points []domain.EnvironmentalPoint `yaml:"points"`
}

// LoadFixtures reads seed points from the YAML file at path.
func LoadFixtures(path string) ([]domain.EnvironmentalPoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %q: %w", path, err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixtures: parse %q: %w", path, err)
	}
	return f.Points, nil
}

// DefaultFixtures returns the built-in seed set used when no fixture file is
// configured, so the service functions without any persistence at all.
func DefaultFixtures() []domain.EnvironmentalPoint {
	pm25, pm10, no2, o3, hcho := 8.0, 15.0, 25.0, 45.0, 2.0
	return []domain.EnvironmentalPoint{
		{
			ID:   "central-park",
			Lat:  40.7829,
			Lng:  -73.9654,
			Name: "Central Park Area",
			Pollutants: domain.Pollutants{
				PM25: &pm25, PM10: &pm10, NO2: &no2, O3: &o3, HCHO: &hcho,
			},
			Weather: domain.Weather{Temperature: 22, Humidity: 55, WindSpeed: 8, Pressure: 1015},
			Pollen:  35,
			AQI:     42,
		},
	}
}
