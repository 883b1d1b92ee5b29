// Package api implements the HTTP routes of the telemetry bridge.
//
// New(sampler, recorder) returns an http.Handler that serves:
//
//	GET /telemetry        : fresh TelemetrySample; 500 {"error"} if the host read fails
//	GET /telemetry/health : {status: OPERATIONAL, resonance: 1.67}
//	GET /warfare/status   : {status: ACTIVE, mode: SUPERVISOR, coherence_threshold: 1.67}
//
// All endpoints:
//   - Respond with Content-Type: application/json
//   - Return 405 for non-GET methods
//   - Report every response to the Recorder (Prometheus in production)
//
// CORS wraps any handler with Access-Control-* headers for the configured
// origins; with credentials allowed, the request origin is echoed instead of
// "*". No external HTTP framework is used.
package api
