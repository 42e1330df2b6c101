// Package kernel provides the shared value objects of the field service domain.
//
// The package includes:
//   - UUID: identifiers for jobs and workers
//   - Position: a validated WGS84 coordinate with great-circle distance (haversine)
//   - PositionSample: a position with heading and capture time, as reported by a device
//
// All values are immutable and safe for concurrent use. Zero values are invalid
// and fail Validate; use the constructors.
package kernel
