package alerts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/config"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/observability"
)

func fp(v float64) *float64 { return &v }

func zone(id string, score float64, level string) domain.RiskZone {
	return domain.RiskZone{
		ID:        id,
		Name:      id,
		RiskLevel: level,
		RiskScore: score,
		Data: domain.EnvironmentalPoint{
			ID:         id,
			Name:       id,
			Pollutants: domain.Pollutants{PM25: fp(40)},
			AQI:        160,
		},
	}
}

// --- evalCondition ----------------------------------------------------------

func TestEvalCondition(t *testing.T) {
	z := zone("z1", 72.5, "high")

	tests := []struct {
		cond      string
		wantFires bool
		wantValue float64
	}{
		{"risk_score > 65", true, 72.5},
		{"risk_score >= 72.5", true, 72.5},
		{"risk_score < 65", false, 72.5},
		{"risk_level == high", true, 0},
		{"risk_level == low", false, 0},
		{"aqi > 150", true, 160},
		{"pm25 > 35", true, 40},
		{"pm10 > 10", false, 0},      // pm10 absent — never fires
		{"unknown_field > 1", false, 0},
		{"not an expression", false, 0},
		{"risk_score > banana", false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.cond, func(t *testing.T) {
			fires, value := evalCondition(tc.cond, z)
			if fires != tc.wantFires {
				t.Errorf("fires: got %v, want %v", fires, tc.wantFires)
			}
			if fires && value != tc.wantValue {
				t.Errorf("value: got %v, want %v", value, tc.wantValue)
			}
		})
	}
}

// --- Engine -----------------------------------------------------------------

func newEngine(cfg config.AlertsConfig) *Engine {
	return New(cfg, observability.NewMetricsForTesting())
}

func TestEngine_FiresOnHighZone(t *testing.T) {
	e := newEngine(config.AlertsConfig{
		Rules: []config.AlertRule{
			{Name: "high-risk", Condition: "risk_level == high", Severity: "critical"},
		},
	})

	e.Evaluate(zone("downtown", 80, "high"))

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("active: got %d, want 1", len(active))
	}
	a := active[0]
	if a.RuleName != "high-risk" || a.ZoneID != "downtown" || a.State != "firing" {
		t.Errorf("alert: got %+v", a)
	}
}

func TestEngine_CooldownSuppressesRefire(t *testing.T) {
	e := newEngine(config.AlertsConfig{
		Rules: []config.AlertRule{
			{Name: "high-risk", Condition: "risk_score > 65", Cooldown: time.Hour},
		},
	})

	e.Evaluate(zone("z", 80, "high"))
	e.Evaluate(zone("z", 85, "high"))

	if n := len(e.Active()); n != 1 {
		t.Errorf("active after refire within cooldown: got %d, want 1", n)
	}
}

func TestEngine_ResolvesWhenConditionClears(t *testing.T) {
	e := newEngine(config.AlertsConfig{
		Rules: []config.AlertRule{
			{Name: "high-risk", Condition: "risk_score > 65"},
		},
	})

	e.Evaluate(zone("z", 80, "high"))
	e.Evaluate(zone("z", 20, "low"))

	active := e.Active()
	if len(active) != 1 {
		t.Fatalf("active: got %d, want 1 (recently resolved)", len(active))
	}
	if active[0].State != "resolved" {
		t.Errorf("state: got %q, want resolved", active[0].State)
	}
}

func TestEngine_NoRulesIsNoOp(t *testing.T) {
	e := newEngine(config.AlertsConfig{})
	e.Evaluate(zone("z", 100, "high"))
	if n := len(e.Active()); n != 0 {
		t.Errorf("active: got %d, want 0", n)
	}
}

func TestEngine_WebhookDelivery(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	t.Setenv("TEST_ALERT_WEBHOOK", srv.URL)

	e := newEngine(config.AlertsConfig{
		Rules: []config.AlertRule{
			{Name: "high-risk", Condition: "risk_level == high"},
		},
		Webhooks: []config.WebhookConfig{
			{Type: "http", URLEnv: "TEST_ALERT_WEBHOOK"},
		},
	})

	e.Evaluate(zone("z", 80, "high"))

	// Delivery is asynchronous; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if calls.Load() != 1 {
		t.Errorf("webhook calls: got %d, want 1", calls.Load())
	}
}

func TestEngine_BroadcastSinkIgnoresOtherEventTypes(t *testing.T) {
	e := newEngine(config.AlertsConfig{
		Rules: []config.AlertRule{
			{Name: "high-risk", Condition: "risk_level == high"},
		},
	})

	e.Broadcast(context.Background(), domain.BroadcastEvent{Type: "something_else", Payload: zone("z", 99, "high")})
	if n := len(e.Active()); n != 0 {
		t.Errorf("active: got %d, want 0", n)
	}
}
