// Package metrics exposes the bridge's own Prometheus instruments on a
// private registry.
//
// Instruments:
//
//	omega_http_requests_total{route,code}  responses served by the api package
//	omega_telemetry_failures_total         host reads that failed
//	omega_cpu_load_ratio                   last cpuLoad reported
//	omega_integrity                        last integrity reported
//	omega_leakage_ratio                    last leakage reported
//	omega_ghost_mode                       1 while status is GHOST_MODE
//	omega_pulse_clients                    connected /ws/pulse clients
//
// Go runtime and process collectors are registered alongside.
package metrics
