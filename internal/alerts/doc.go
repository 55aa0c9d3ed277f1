// Package alerts implements the rule evaluation engine and webhook delivery
// for cosmic-health alerting. Rules are evaluated against the risk zone of
// every ingested point; webhooks are delivered to Slack, Teams, or generic
// HTTP targets. The engine plugs into the ingestion coordinator as one of
// its broadcast sinks.
package alerts
