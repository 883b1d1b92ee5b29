// Package config loads the telemetry bridge configuration from the `server:`
// section of config.yaml (the `gate:` key is ignored by the server binary).
//
// Config fields:
//   - HTTPPort             : port for telemetry routes, /metrics and /ws/pulse (default 10000)
//   - LogLevel             : slog level: debug | info | warn | error (default info)
//   - EnvFile              : optional dotenv file loaded by LoadEnv
//   - CORS.AllowedOrigins  : origins echoed in Access-Control-Allow-Origin (default ["*"])
//   - Pulse.Interval       : WebSocket broadcast period (default 1.67s)
//   - Telemetry.HostTimeout: bound on one host read (default 2s)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) re-runs Load on every write and hands the new
// Config to onChange; the server uses it to swap CORS origins and log level
// without a restart.
package config
