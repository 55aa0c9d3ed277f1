package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

// schema is created idempotently at startup. Pollutant and weather panels
// are stored as JSONB so absent pollutant fields round-trip as absent.
const schema = `
CREATE TABLE IF NOT EXISTS environmental_points (
	id         TEXT PRIMARY KEY,
	lat        DOUBLE PRECISION NOT NULL,
	lng        DOUBLE PRECISION NOT NULL,
	name       TEXT NOT NULL,
	pollutants JSONB NOT NULL DEFAULT '{}',
	weather    JSONB NOT NULL DEFAULT '{}',
	pollen     DOUBLE PRECISION NOT NULL DEFAULT 0,
	aqi        DOUBLE PRECISION NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres is the durable point store backed by a pgx connection pool.
// It satisfies the same read/write contract as Memory; the rest of the
// service does not know which backend it is talking to.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgres connects to url, verifies the connection, and ensures the
// schema exists.
func NewPostgres(ctx context.Context, url string, logger *slog.Logger) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("point store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, unavailable("ping", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, unavailable("ensure schema", err)
	}
	logger.Info("store: postgres backend ready")
	return &Postgres{pool: pool, logger: logger}, nil
}

// ReadAll returns every stored point, ordered by name then ID so listings
// are stable across calls.
func (s *Postgres) ReadAll(ctx context.Context) ([]domain.EnvironmentalPoint, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, lat, lng, name, pollutants, weather, pollen, aqi
		 FROM environmental_points ORDER BY name, id`)
	if err != nil {
		return nil, unavailable("read", err)
	}
	defer rows.Close()

	var out []domain.EnvironmentalPoint
	for rows.Next() {
		var (
			p                   domain.EnvironmentalPoint
			pollutants, weather []byte
		)
		if err := rows.Scan(&p.ID, &p.Lat, &p.Lng, &p.Name, &pollutants, &weather, &p.Pollen, &p.AQI); err != nil {
			return nil, unavailable("scan", err)
		}
		if err := json.Unmarshal(pollutants, &p.Pollutants); err != nil {
			return nil, fmt.Errorf("point store: decode pollutants for %q: %w", p.ID, err)
		}
		if err := json.Unmarshal(weather, &p.Weather); err != nil {
			return nil, fmt.Errorf("point store: decode weather for %q: %w", p.ID, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("read", err)
	}
	return out, nil
}

// Write upserts p by ID and returns the stored point.
func (s *Postgres) Write(ctx context.Context, p domain.EnvironmentalPoint) (domain.EnvironmentalPoint, error) {
	pollutants, err := json.Marshal(p.Pollutants)
	if err != nil {
		return domain.EnvironmentalPoint{}, fmt.Errorf("point store: encode pollutants: %w", err)
	}
	weather, err := json.Marshal(p.Weather)
	if err != nil {
		return domain.EnvironmentalPoint{}, fmt.Errorf("point store: encode weather: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO environmental_points (id, lat, lng, name, pollutants, weather, pollen, aqi, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		 ON CONFLICT (id) DO UPDATE SET
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			name = EXCLUDED.name,
			pollutants = EXCLUDED.pollutants,
			weather = EXCLUDED.weather,
			pollen = EXCLUDED.pollen,
			aqi = EXCLUDED.aqi,
			updated_at = now()`,
		p.ID, p.Lat, p.Lng, p.Name, pollutants, weather, p.Pollen, p.AQI)
	if err != nil {
		return domain.EnvironmentalPoint{}, unavailable("write", err)
	}
	return p, nil
}

// Ping reports whether the backend is reachable. Used by /readyz.
func (s *Postgres) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Postgres) Close() {
	s.pool.Close()
}
