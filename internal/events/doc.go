// Package events publishes broadcast events to external systems. The only
// sink today is Kafka; it is optional and wired in only when enabled in
// configuration.
package events
