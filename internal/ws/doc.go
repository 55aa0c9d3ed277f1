// Package ws implements the real-time push channel at /ws/updates.
//
// Hub is both the subscriber registry (register on connect, unregister on
// disconnect or failed delivery, mutex-guarded set) and the broadcaster.
// Hub.Broadcast delivers one event to every connected client, best-effort
// and at-most-once: a client whose buffer is full or whose write fails is
// removed and the error discarded.
//
// Message format sent to clients on every ingested point:
//
//	{
//	  "type":    "new_point",
//	  "payload": { /* RiskZone, same schema as GET /api/v1/risk-zones */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level.
package ws
