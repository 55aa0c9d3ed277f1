package alerts

import (
	"strconv"
	"strings"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

// evalCondition evaluates a rule condition string against a RiskZone.
//
// Supported expressions (field operator value):
//
//	risk_score > 65
//	risk_score >= 30
//	aqi > 150
//	pollen > 80
//	pm25 > 35
//	pm10 > 100
//	no2 > 40
//	o3 > 70
//	hcho > 30
//	risk_level == high
//	risk_level == medium
//
// Returns (fires bool, triggering value float64).
// Returns (false, 0) if the expression cannot be parsed, the field is
// unknown, or the referenced pollutant is absent from the point.
func evalCondition(cond string, zone domain.RiskZone) (bool, float64) {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return false, 0
	}
	field, op, rhs := parts[0], parts[1], parts[2]

	if field == "risk_level" {
		if op == "==" {
			return zone.RiskLevel == rhs, 0
		}
		return false, 0
	}

	v, ok := numericField(field, zone)
	if !ok {
		return false, 0
	}
	threshold, err := strconv.ParseFloat(rhs, 64)
	if err != nil {
		return false, 0
	}
	return compareFloat(v, op, threshold), v
}

// numericField maps a field name to its value on the zone. The second
// return is false when the field is unknown or the pollutant is absent.
func numericField(field string, zone domain.RiskZone) (float64, bool) {
	switch field {
	case "risk_score":
		return zone.RiskScore, true
	case "aqi":
		return zone.Data.AQI, true
	case "pollen":
		return zone.Data.Pollen, true
	case "pm25":
		return deref(zone.Data.Pollutants.PM25)
	case "pm10":
		return deref(zone.Data.Pollutants.PM10)
	case "no2":
		return deref(zone.Data.Pollutants.NO2)
	case "o3":
		return deref(zone.Data.Pollutants.O3)
	case "hcho":
		return deref(zone.Data.Pollutants.HCHO)
	default:
		return 0, false
	}
}

func deref(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

// compareFloat applies a comparison operator to two float64 values.
func compareFloat(v float64, op string, threshold float64) bool {
	switch op {
	case ">":
		return v > threshold
	case ">=":
		return v >= threshold
	case "<":
		return v < threshold
	case "<=":
		return v <= threshold
	case "==":
		return v == threshold
	default:
		return false
	}
}
