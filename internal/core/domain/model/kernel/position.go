package kernel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"fieldservice/internal/pkg/errs"
	"fieldservice/internal/pkg/guard"
)

const (
	// EarthRadiusMeters is the mean Earth radius used by the haversine formula.
	EarthRadiusMeters = 6_371_000.0

	// LatitudeMin is the southernmost valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the northernmost valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the westernmost valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the easternmost valid longitude in degrees.
	LongitudeMax = 180.0
	// HeadingMin is the lowest valid compass heading in degrees.
	HeadingMin = 0.0
	// HeadingMax is the exclusive upper bound of a compass heading in degrees.
	HeadingMax = 360.0
)

var (
	// ErrPositionIsNotConstructed is returned when a Position was not created via NewPosition.
	ErrPositionIsNotConstructed = errs.NewValueIsRequiredError("position must be created via NewPosition constructor")

	// ErrPositionSampleIsNotConstructed is returned when a PositionSample was not created via NewPositionSample.
	ErrPositionSampleIsNotConstructed = errs.NewValueIsRequiredError(
		"position sample must be created via NewPositionSample constructor")
)

// Position is a WGS84 coordinate in decimal degrees.
// Position is an immutable value object; the zero value is invalid.
//
// Example:
//
//	site, err := kernel.NewPosition(12.9716, 77.5946)
//	if err != nil {
//	    // latitude or longitude out of range
//	}
type Position struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewPosition creates a Position after checking that lat lies in
// [LatitudeMin..LatitudeMax] and lng in [LongitudeMin..LongitudeMax].
// NaN and infinities are rejected.
//
// Parameters:
//   - lat: latitude in degrees
//   - lng: longitude in degrees
//
// Returns:
//   - Position: a valid position
//   - error: joined range errors for every offending coordinate
func NewPosition(lat, lng float64) (Position, error) {
	p := Position{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(p.setLat(lat), p.setLng(lng)); err != nil {
		return Position{}, err
	}

	return p, nil
}

// Validate checks that the Position was built by NewPosition.
func (p Position) Validate() error {
	return p.guard.Validate(ErrPositionIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p Position) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p Position) Lng() float64 {
	return p.lng
}

// String implements fmt.Stringer as "Position(lat,lng)".
func (p Position) String() string {
	return fmt.Sprintf("Position(%.6f,%.6f)", p.lat, p.lng)
}

// IsEqual reports whether both positions hold the same coordinates.
func (p Position) IsEqual(other Position) (bool, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return p.lat == other.lat && p.lng == other.lng, nil
}

// DistanceTo returns the great-circle distance in meters between p and other,
// using the haversine formula with EarthRadiusMeters.
//
// The result is symmetric and zero for identical positions. Both positions
// must be constructed.
//
// Example:
//
//	a, _ := kernel.NewPosition(0, 0)
//	b, _ := kernel.NewPosition(0, 0.0001)
//	d, _ := a.DistanceTo(b) // ≈ 11.12 m
func (p Position) DistanceTo(other Position) (float64, error) {
	if err := errors.Join(p.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return Haversine(p.lat, p.lng, other.lat, other.lng), nil
}

// Haversine computes the great-circle distance in meters between two
// coordinates given in decimal degrees. It performs no validation.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := toRadians(lat2 - lat1)
	dLambda := toRadians(lng2 - lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func (p *Position) setLat(lat float64) error {
	if math.IsNaN(lat) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}

	p.lat = lat
	return nil
}

func (p *Position) setLng(lng float64) error {
	if math.IsNaN(lng) || lng < LongitudeMin || lng > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", lng, LongitudeMin, LongitudeMax)
	}

	p.lng = lng
	return nil
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PositionSample is one fix reported by a device: where, which way it was
// heading and when it was captured. Samples feed the telemetry throttler and
// are stored as a job's last known position.
type PositionSample struct {
	position   Position
	heading    float64
	capturedAt time.Time
	guard      guard.ConstructorGuard
}

// NewPositionSample validates position, heading in [HeadingMin..HeadingMax)
// and a non-zero capture time.
func NewPositionSample(position Position, heading float64, capturedAt time.Time) (PositionSample, error) {
	if err := position.Validate(); err != nil {
		return PositionSample{}, err
	}
	if math.IsNaN(heading) || heading < HeadingMin || heading >= HeadingMax {
		return PositionSample{}, errs.NewValueIsOutOfRangeError("heading", heading, HeadingMin, HeadingMax)
	}
	if capturedAt.IsZero() {
		return PositionSample{}, errs.NewValueIsRequiredError("capturedAt")
	}

	return PositionSample{
		position:   position,
		heading:    heading,
		capturedAt: capturedAt.UTC(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the sample was built by NewPositionSample.
func (s PositionSample) Validate() error {
	return s.guard.Validate(ErrPositionSampleIsNotConstructed)
}

// Position returns where the sample was taken.
func (s PositionSample) Position() Position {
	return s.position
}

// Heading returns the compass heading in degrees.
func (s PositionSample) Heading() float64 {
	return s.heading
}

// CapturedAt returns the capture time in UTC.
func (s PositionSample) CapturedAt() time.Time {
	return s.capturedAt
}
