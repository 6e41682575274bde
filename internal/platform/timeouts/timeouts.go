// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// StoreCall caps a single catalog or archive store operation issued by
// a tool handler.
const StoreCall = 5 * time.Second

// Shutdown limits how long telemetry flushing waits during graceful
// shutdown.
const Shutdown = 5 * time.Second
