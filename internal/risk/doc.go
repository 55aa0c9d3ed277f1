// Package risk turns one environmental point into a health-risk
// classification.
//
// Score(point) normalizes each pollutant present on the point against its
// reference ceiling (pm25: 20, all others: 50), averages the normalized
// values, and maps the result to a level:
//
//	score <  30 → low
//	score <  65 → medium
//	score >= 65 → high
//
// Scoring is pure and total — missing or negative readings are skipped,
// never raised. Zone(point) wraps the assessment into a RiskZone with the
// source point embedded.
package risk
