// Package domain defines the data model shared by every component of the
// cosmic-health service: environmental point samples, the derived risk-zone
// view, and the broadcast event envelope pushed to subscribers.
package domain
