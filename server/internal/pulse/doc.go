// Package pulse streams live telemetry to WebSocket clients on /ws/pulse.
//
// On connect a client receives a "welcome" message with its node ID. Every
// interval (1.67s by default) the hub takes one telemetry sample and
// broadcasts it as a "pulse" message. A client may push {resonance, status};
// valid signals are relayed to every client as "pulse_update" and
// acknowledged with "ack", malformed ones get an "error" reply.
//
// Slow clients whose send buffer fills are disconnected rather than allowed
// to stall the broadcast loop.
package pulse
