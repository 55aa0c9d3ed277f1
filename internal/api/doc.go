// Package api exposes the HTTP surface: the /api/v1 REST endpoints for
// environmental points, risk zones, and alerts, the /ws/updates WebSocket
// endpoint, and the health and metrics probes. It reads and writes through
// the ingest coordinator and returns JSON responses.
package api
