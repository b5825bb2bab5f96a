// Package telemetry sets up OpenTelemetry tracing for the remic binary.
//
// The store records a remic.update span per Update call and a remic.apply
// child span per updater through the global tracer provider. Until Setup
// registers an exporting provider those spans go to the no-op tracer.
package telemetry
