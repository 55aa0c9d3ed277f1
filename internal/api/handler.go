package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/alerts"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/config"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/ingest"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/store"
)

// Defaults applied when a risk-zone query omits the audience filters. They
// mirror the values the web client sends.
const (
	defaultAgeGroup = "young-adults"
	defaultSeverity = "mild-persistent"
)

// AlertSource lists alerts for GET /api/v1/alerts. Satisfied by
// *alerts.Engine.
type AlertSource interface {
	Active() []*alerts.Alert
}

// Handler serves the REST API and mounts the WebSocket endpoint.
type Handler struct {
	coord  *ingest.Coordinator
	alerts AlertSource
	logger *slog.Logger
}

// NewRouter builds the full HTTP surface: /api/v1/* REST routes behind the
// API-key middleware, /ws/updates for live subscribers, and the unauthenticated
// health and metrics endpoints.
func NewRouter(coord *ingest.Coordinator, hub http.Handler, alertSrc AlertSource, auth config.AuthConfig, logger *slog.Logger) http.Handler {
	h := &Handler{coord: coord, alerts: alertSrc, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	// The dashboard is served from arbitrary origins during events, so CORS
	// stays wide open.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", auth.EffectiveHeader()},
		MaxAge:         300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKey(auth))
		r.Get("/environmental-points", h.listPoints)
		r.Post("/environmental-points", h.ingestPoint)
		r.Get("/risk-zones", h.listRiskZones)
		r.Get("/alerts", h.listAlerts)
	})

	r.Get("/ws/updates", hub.ServeHTTP)

	r.Get("/healthz", h.health)
	r.Get("/readyz", h.ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusNotFound, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// --- route handlers ---------------------------------------------------------

// listPoints returns GET /api/v1/environmental-points — every stored point.
func (h *Handler) listPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.coord.ListPoints(r.Context())
	if err != nil {
		storeErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, points)
}

// ingestPoint handles POST /api/v1/environmental-points — persists the point,
// scores it, and fans the resulting zone out to live subscribers.
func (h *Handler) ingestPoint(w http.ResponseWriter, r *http.Request) {
	// Unknown fields are ignored, not rejected, so clients can send extra
	// metadata without breaking ingestion.
	var p domain.EnvironmentalPoint
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if p.Name == "" {
		jsonErr(w, http.StatusBadRequest, "name is required")
		return
	}

	stored, err := h.coord.Ingest(r.Context(), p)
	if err != nil {
		storeErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, stored)
}

// listRiskZones returns GET /api/v1/risk-zones — every stored point annotated
// with its risk assessment. The ageGroup and severity query parameters are
// accepted for client compatibility.
func (h *Handler) listRiskZones(w http.ResponseWriter, r *http.Request) {
	f := ingest.Filter{
		AgeGroup: r.URL.Query().Get("ageGroup"),
		Severity: r.URL.Query().Get("severity"),
	}
	if f.AgeGroup == "" {
		f.AgeGroup = defaultAgeGroup
	}
	if f.Severity == "" {
		f.Severity = defaultSeverity
	}

	zones, err := h.coord.ListRiskZones(r.Context(), f)
	if err != nil {
		storeErr(w, err)
		return
	}
	jsonResp(w, http.StatusOK, zones)
}

// listAlerts returns GET /api/v1/alerts — firing and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []struct{}{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// health returns GET /healthz — liveness only, no dependency checks.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, http.StatusOK, healthResponse{Status: "healthy", Service: "cosmic-health"})
}

// ready returns GET /readyz — probes the point store.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.coord.CheckReadiness(r.Context()); err != nil {
		jsonErr(w, http.StatusServiceUnavailable, "point store unavailable")
		return
	}
	jsonResp(w, http.StatusOK, healthResponse{Status: "ready", Service: "cosmic-health"})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

// storeErr maps a coordinator error to a status code. A store outage is a
// 503 so callers can retry; anything else is a 500.
func storeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrUnavailable) {
		jsonErr(w, http.StatusServiceUnavailable, "point store unavailable")
		return
	}
	jsonErr(w, http.StatusInternalServerError, "internal error")
}

// requestLogger logs every request with its chi request ID, status, and
// latency.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration", time.Since(start),
					"request_id", chimw.GetReqID(r.Context()),
					"remote_addr", r.RemoteAddr,
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
