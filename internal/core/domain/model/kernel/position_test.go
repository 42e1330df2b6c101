package kernel_test

import (
	"math"
	"testing"
	"time"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metersPerDegreeLat is the length of one degree of latitude on a sphere of EarthRadiusMeters.
const metersPerDegreeLat = kernel.EarthRadiusMeters * math.Pi / 180

func TestNewPosition(t *testing.T) {
	t.Run("should accept bounds", func(t *testing.T) {
		for _, c := range [][2]float64{{-90, -180}, {90, 180}, {0, 0}, {12.9716, 77.5946}} {
			p, err := kernel.NewPosition(c[0], c[1])

			require.NoError(t, err)
			assert.InDelta(t, c[0], p.Lat(), 1e-12)
			assert.InDelta(t, c[1], p.Lng(), 1e-12)
			require.NoError(t, p.Validate())
		}
	})

	t.Run("should reject out of range coordinates", func(t *testing.T) {
		_, err := kernel.NewPosition(90.1, 181)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})

	t.Run("should reject NaN", func(t *testing.T) {
		_, err := kernel.NewPosition(math.NaN(), 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.Position
		require.ErrorIs(t, p.Validate(), kernel.ErrPositionIsNotConstructed)
	})
}

func TestPosition_DistanceTo(t *testing.T) {
	t.Run("same position is zero meters away", func(t *testing.T) {
		p, _ := kernel.NewPosition(19.0760, 72.8777)

		d, err := p.DistanceTo(p)

		require.NoError(t, err)
		assert.InDelta(t, 0, d, 1e-9)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		a, _ := kernel.NewPosition(0, 0)
		b, _ := kernel.NewPosition(1, 0)

		d, err := a.DistanceTo(b)

		require.NoError(t, err)
		assert.InDelta(t, metersPerDegreeLat, d, 1e-6)
	})

	t.Run("is symmetric", func(t *testing.T) {
		a, _ := kernel.NewPosition(28.6139, 77.2090)
		b, _ := kernel.NewPosition(19.0760, 72.8777)

		ab, _ := a.DistanceTo(b)
		ba, _ := b.DistanceTo(a)

		assert.InDelta(t, ab, ba, 1e-6)
		// Delhi to Mumbai is roughly 1150 km along the great circle.
		assert.InDelta(t, 1_150_000, ab, 15_000)
	})

	t.Run("short distances used by the throttler", func(t *testing.T) {
		a, _ := kernel.NewPosition(12.9716, 77.5946)
		b, _ := kernel.NewPosition(12.9716+4/metersPerDegreeLat, 77.5946)
		c, _ := kernel.NewPosition(12.9716+11/metersPerDegreeLat, 77.5946)

		d4, _ := a.DistanceTo(b)
		d11, _ := a.DistanceTo(c)

		assert.InDelta(t, 4, d4, 0.01)
		assert.InDelta(t, 11, d11, 0.01)
	})

	t.Run("rejects unconstructed positions", func(t *testing.T) {
		a, _ := kernel.NewPosition(0, 0)
		_, err := a.DistanceTo(kernel.Position{})
		require.ErrorIs(t, err, kernel.ErrPositionIsNotConstructed)
	})
}

func TestNewPositionSample(t *testing.T) {
	p, _ := kernel.NewPosition(10, 10)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("IST", 19800))

	t.Run("valid sample is normalised to UTC", func(t *testing.T) {
		s, err := kernel.NewPositionSample(p, 359.9, now)

		require.NoError(t, err)
		assert.Equal(t, time.UTC, s.CapturedAt().Location())
		assert.True(t, s.CapturedAt().Equal(now))
		assert.InDelta(t, 359.9, s.Heading(), 1e-9)
	})

	t.Run("rejects heading of 360", func(t *testing.T) {
		_, err := kernel.NewPositionSample(p, 360, now)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects zero capture time", func(t *testing.T) {
		_, err := kernel.NewPositionSample(p, 0, time.Time{})
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects unconstructed position", func(t *testing.T) {
		_, err := kernel.NewPositionSample(kernel.Position{}, 0, now)
		require.ErrorIs(t, err, kernel.ErrPositionIsNotConstructed)
	})
}
