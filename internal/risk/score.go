package risk

import (
	"math"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

// Risk levels returned by the scorer.
const (
	LevelLow    = "low"
	LevelMedium = "medium"
	LevelHigh   = "high"
)

// Per-pollutant reference ceilings used to normalize concentrations to a
// 0–100 scale. PM2.5 has a lower ceiling than the other four pollutants.
// These are fixed for compatibility with existing clients, not configurable.
const (
	CeilingPM25    = 20.0
	CeilingDefault = 50.0
)

// Thresholds that map a numeric score to a risk level. Lower bounds are
// inclusive: exactly 30 is medium, exactly 65 is high.
const (
	ThresholdMedium = 30.0
	ThresholdHigh   = 65.0
)

// Assessment is the result of scoring one point.
type Assessment struct {
	// Score is the mean of the normalized concentrations of the pollutants
	// present on the point, in the range 0–100. A point with no pollutant
	// data scores 0.
	Score float64

	// Level is one of "low", "medium", "high", derived from Score.
	Level string
}

// Score computes the risk assessment for one point. It is pure and never
// fails: absent or negative pollutant values are skipped, not errors.
//
// Each present pollutant contributes min(100, value/ceiling*100); the score
// is the mean over the pollutants actually present.
func Score(p domain.EnvironmentalPoint) Assessment {
	readings := []struct {
		value   *float64
		ceiling float64
	}{
		{p.Pollutants.PM25, CeilingPM25},
		{p.Pollutants.PM10, CeilingDefault},
		{p.Pollutants.NO2, CeilingDefault},
		{p.Pollutants.O3, CeilingDefault},
		{p.Pollutants.HCHO, CeilingDefault},
	}

	var sum float64
	count := 0
	for _, r := range readings {
		if r.value == nil || *r.value < 0 {
			continue
		}
		count++
		sum += math.Min(100, *r.value/r.ceiling*100)
	}

	// max(1, count) guards the empty panel — score stays 0.
	score := sum / math.Max(1, float64(count))
	return Assessment{Score: score, Level: levelFromScore(score)}
}

// Zone builds the derived RiskZone view for p. The embedded Data field is
// exactly p — no partial copy.
func Zone(p domain.EnvironmentalPoint) domain.RiskZone {
	a := Score(p)
	return domain.RiskZone{
		ID:        p.ID,
		Lat:       p.Lat,
		Lng:       p.Lng,
		Name:      p.Name,
		RiskLevel: a.Level,
		RiskScore: a.Score,
		Data:      p,
	}
}

// levelFromScore maps a numeric score to a named risk level.
func levelFromScore(score float64) string {
	switch {
	case score < ThresholdMedium:
		return LevelLow
	case score < ThresholdHigh:
		return LevelMedium
	default:
		return LevelHigh
	}
}
