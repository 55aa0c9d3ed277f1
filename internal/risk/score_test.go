package risk

import (
	"math"
	"testing"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

func fp(v float64) *float64 { return &v }

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func pointWith(p domain.Pollutants) domain.EnvironmentalPoint {
	return domain.EnvironmentalPoint{
		ID:         "test-point",
		Lat:        40.7829,
		Lng:        -73.9654,
		Name:       "Test Area",
		Pollutants: p,
	}
}

func TestScore_Levels(t *testing.T) {
	tests := []struct {
		name       string
		pollutants domain.Pollutants
		wantScore  float64
		wantLevel  string
	}{
		{
			name:       "empty panel scores zero",
			pollutants: domain.Pollutants{},
			wantScore:  0,
			wantLevel:  LevelLow,
		},
		{
			name: "mixed panel",
			// pm25: 8/20 → 40, pm10: 15/50 → 30, no2: 25/50 → 50,
			// o3: 45/50 → 90, hcho: 2/50 → 4 — mean = 214/5 = 42.8
			pollutants: domain.Pollutants{
				PM25: fp(8), PM10: fp(15), NO2: fp(25), O3: fp(45), HCHO: fp(2),
			},
			wantScore: 42.8,
			wantLevel: LevelMedium,
		},
		{
			name: "pm25 over ceiling clamps at 100",
			// 25/20*100 = 125 → clamped to 100
			pollutants: domain.Pollutants{PM25: fp(25)},
			wantScore:  100,
			wantLevel:  LevelHigh,
		},
		{
			name: "score exactly 30 is medium",
			// 15/50*100 = 30 — inclusive lower bound
			pollutants: domain.Pollutants{PM10: fp(15)},
			wantScore:  30,
			wantLevel:  LevelMedium,
		},
		{
			name: "score exactly 65 is high",
			// 32.5/50*100 = 65 — inclusive lower bound
			pollutants: domain.Pollutants{O3: fp(32.5)},
			wantScore:  65,
			wantLevel:  LevelHigh,
		},
		{
			name: "just below medium threshold",
			// 14.9/50*100 = 29.8
			pollutants: domain.Pollutants{NO2: fp(14.9)},
			wantScore:  29.8,
			wantLevel:  LevelLow,
		},
		{
			name: "negative readings are skipped, not zeroed",
			// pm25 negative → absent; only pm10 counts: 40/50*100 = 80
			pollutants: domain.Pollutants{PM25: fp(-5), PM10: fp(40)},
			wantScore:  80,
			wantLevel:  LevelHigh,
		},
		{
			name: "all readings negative behaves like empty panel",
			pollutants: domain.Pollutants{
				PM25: fp(-1), PM10: fp(-1), NO2: fp(-1), O3: fp(-1), HCHO: fp(-1),
			},
			wantScore: 0,
			wantLevel: LevelLow,
		},
		{
			name: "zero concentration is present, not absent",
			// pm25: 0 → 0, o3: 50/50 → 100 — mean = 50
			pollutants: domain.Pollutants{PM25: fp(0), O3: fp(50)},
			wantScore:  50,
			wantLevel:  LevelMedium,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Score(pointWith(tc.pollutants))
			if !almostEqual(a.Score, tc.wantScore, 1e-9) {
				t.Errorf("Score = %.6f, want %.6f", a.Score, tc.wantScore)
			}
			if a.Level != tc.wantLevel {
				t.Errorf("Level = %q, want %q (score=%.2f)", a.Level, tc.wantLevel, a.Score)
			}
		})
	}
}

func TestScore_CeilingPerPollutant(t *testing.T) {
	// The same concentration normalizes differently under pm25's ceiling
	// than under everyone else's: 10/20 → 50 vs 10/50 → 20.
	pm25 := Score(pointWith(domain.Pollutants{PM25: fp(10)}))
	if !almostEqual(pm25.Score, 50, 1e-9) {
		t.Errorf("pm25=10: score = %.4f, want 50", pm25.Score)
	}
	for name, p := range map[string]domain.Pollutants{
		"pm10": {PM10: fp(10)},
		"no2":  {NO2: fp(10)},
		"o3":   {O3: fp(10)},
		"hcho": {HCHO: fp(10)},
	} {
		a := Score(pointWith(p))
		if !almostEqual(a.Score, 20, 1e-9) {
			t.Errorf("%s=10: score = %.4f, want 20", name, a.Score)
		}
	}
}

func TestZone_EmbedsSourcePoint(t *testing.T) {
	p := pointWith(domain.Pollutants{PM25: fp(8), O3: fp(45)})
	p.Weather = domain.Weather{Temperature: 22, Humidity: 55, WindSpeed: 8, Pressure: 1015}
	p.Pollen = 35
	p.AQI = 42

	z := Zone(p)

	if z.ID != p.ID || z.Lat != p.Lat || z.Lng != p.Lng || z.Name != p.Name {
		t.Errorf("zone identity fields do not match point: %+v", z)
	}
	if z.Data != p {
		t.Errorf("zone.Data is not the source point:\n got %+v\nwant %+v", z.Data, p)
	}
	// pm25: 8/20 → 40, o3: 45/50 → 90 — mean = 65 → high
	if !almostEqual(z.RiskScore, 65, 1e-9) || z.RiskLevel != LevelHigh {
		t.Errorf("zone risk = (%.4f, %q), want (65, high)", z.RiskScore, z.RiskLevel)
	}
}

func TestZone_EmptyPanelStaysAbsent(t *testing.T) {
	z := Zone(pointWith(domain.Pollutants{}))
	if z.RiskScore != 0 || z.RiskLevel != LevelLow {
		t.Fatalf("empty panel: got (%.2f, %q), want (0, low)", z.RiskScore, z.RiskLevel)
	}
	if z.Data.Pollutants.PM25 != nil {
		t.Error("absent pollutant was defaulted in embedded data")
	}
}
