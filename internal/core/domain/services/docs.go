// Package services provides stateless domain services of the field-service
// core: rules that operate on domain values without belonging to one aggregate.
//
// The package includes:
//   - TelemetryThrottler: the time and distance gates that decide which raw
//     device positions are forwarded to observers of a travelling worker
package services
