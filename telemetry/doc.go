// Package telemetry defines the usage records produced by the reporting
// loop and the sinks that receive them. Sinks are deliberately thin: this
// subsystem hands records off to a logging or metrics pipeline, it does not
// own the transport downstream of the sink.
package telemetry
