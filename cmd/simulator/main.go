// Command simulator feeds a running server with randomized environmental
// readings so the live dashboard and alert rules can be exercised without
// real sensor data. It POSTs to /api/v1/environmental-points at a fixed
// interval, jittering pollutant levels around per-site baselines.
//
// Usage:
//
//	go run ./cmd/simulator -addr http://localhost:8080 -interval 3s
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

type site struct {
	id       string
	lat, lng float64
	name     string
	// Baseline pollutant levels; readings jitter around these.
	pm25, pm10, no2, o3, hcho float64
	pollen                    float64
	aqi                       float64
}

var sites = []site{
	{"central-park", 40.7829, -73.9654, "Central Park", 8, 15, 25, 45, 2, 35, 42},
	{"times-square", 40.7580, -73.9855, "Times Square", 18, 32, 48, 38, 4, 20, 95},
	{"brooklyn-bridge", 40.7061, -73.9969, "Brooklyn Bridge", 12, 22, 35, 42, 3, 28, 68},
	{"harlem", 40.8116, -73.9465, "Harlem", 10, 19, 30, 40, 2.5, 40, 55},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	interval := flag.Duration("interval", 3*time.Second, "delay between readings")
	count := flag.Int("count", 0, "number of readings to send (0 = run forever)")
	apiKey := flag.String("api-key", "", "value for the x-api-key header, if the server requires one")
	spike := flag.Float64("spike", 0.05, "probability of a pollution spike per reading")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	url := *addr + "/api/v1/environmental-points"

	sent := 0
	for {
		s := sites[rand.Intn(len(sites))]
		p := reading(s, rand.Float64() < *spike)

		if err := post(client, url, *apiKey, p); err != nil {
			log.Printf("post %s: %v", p.Name, err)
		} else {
			log.Printf("sent %s (pm25=%.1f aqi=%.0f)", p.Name, *p.Pollutants.PM25, p.AQI)
		}

		sent++
		if *count > 0 && sent >= *count {
			return nil
		}
		time.Sleep(*interval)
	}
}

// reading jitters the site baselines by ±20%. A spike multiplies the
// pollutant panel enough to cross the high-risk threshold.
func reading(s site, spiked bool) domain.EnvironmentalPoint {
	factor := 1.0
	if spiked {
		factor = 3.0 + rand.Float64()*2.0
	}

	return domain.EnvironmentalPoint{
		ID:   s.id,
		Lat:  s.lat,
		Lng:  s.lng,
		Name: s.name,
		Pollutants: domain.Pollutants{
			PM25: fp(jitter(s.pm25) * factor),
			PM10: fp(jitter(s.pm10) * factor),
			NO2:  fp(jitter(s.no2) * factor),
			O3:   fp(jitter(s.o3) * factor),
			HCHO: fp(jitter(s.hcho) * factor),
		},
		Weather: domain.Weather{
			Temperature: jitter(22),
			Humidity:    jitter(55),
			WindSpeed:   jitter(8),
			Pressure:    jitter(1015),
		},
		Pollen: jitter(s.pollen),
		AQI:    jitter(s.aqi) * factor,
	}
}

func jitter(base float64) float64 {
	return base * (0.8 + rand.Float64()*0.4)
}

func fp(v float64) *float64 { return &v }

func post(client *http.Client, url, apiKey string, p domain.EnvironmentalPoint) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}
