package domain

// Pollutants is the panel of named pollutant concentrations carried by a
// point. Every field is optional: nil means the reading was not taken and
// the risk scorer skips it. JSON keys match the public API contract.
type Pollutants struct {
	PM25 *float64 `json:"pm25,omitempty" yaml:"pm25,omitempty"`
	PM10 *float64 `json:"pm10,omitempty" yaml:"pm10,omitempty"`
	NO2  *float64 `json:"no2,omitempty" yaml:"no2,omitempty"`
	O3   *float64 `json:"o3,omitempty" yaml:"o3,omitempty"`
	HCHO *float64 `json:"hcho,omitempty" yaml:"hcho,omitempty"`
}

// Weather is the weather panel attached to a point. It is opaque to risk
// scoring and carried through reads and writes unchanged.
type Weather struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
	Humidity    float64 `json:"humidity" yaml:"humidity"`
	WindSpeed   float64 `json:"windSpeed" yaml:"windSpeed"`
	Pressure    float64 `json:"pressure" yaml:"pressure"`
}

// EnvironmentalPoint is one geolocated environmental sample. ID is the
// upsert key: writing a point with an existing ID replaces the prior point.
// Risk is never stored on the point — it is derived at read time so old
// points always reflect the current scoring rules.
type EnvironmentalPoint struct {
	ID         string     `json:"id" yaml:"id"`
	Lat        float64    `json:"lat" yaml:"lat"`
	Lng        float64    `json:"lng" yaml:"lng"`
	Name       string     `json:"name" yaml:"name"`
	Pollutants Pollutants `json:"pollutants" yaml:"pollutants"`
	Weather    Weather    `json:"weather" yaml:"weather"`
	Pollen     float64    `json:"pollen" yaml:"pollen"`
	AQI        float64    `json:"aqi" yaml:"aqi"`
}

// RiskZone is the derived, non-persisted risk view of one point.
// Data always embeds the exact point the zone was derived from.
type RiskZone struct {
	ID        string             `json:"id"`
	Lat       float64            `json:"lat"`
	Lng       float64            `json:"lng"`
	Name      string             `json:"name"`
	RiskLevel string             `json:"riskLevel"`
	RiskScore float64            `json:"riskScore"`
	Data      EnvironmentalPoint `json:"data"`
}

// EventNewPoint is the type tag broadcast when a point is ingested.
const EventNewPoint = "new_point"

// BroadcastEvent is the ephemeral envelope delivered to push subscribers.
// It exists only for the duration of delivery and is never persisted.
type BroadcastEvent struct {
	Type    string   `json:"type"`
	Payload RiskZone `json:"payload"`
}
