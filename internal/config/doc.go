// Package config loads the cosmic-health service configuration from a YAML
// file, fills defaults, and validates. Secrets (API key, database URL,
// webhook URLs) are never stored in the file directly — the file names the
// environment variable that holds each value.
//
// Watch re-loads the file on change so alert rules can be updated without a
// restart.
package config
