// Package ingest is the composition root of the core: the Coordinator
// persists a new point through the PointStore contract, derives its risk
// zone, and fans the resulting event out to every registered broadcast
// sink. Storage failures propagate; broadcast failures never do.
package ingest
