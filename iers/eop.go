// Package iers reads and serves Earth Orientation Parameters (EOP): polar
// motion, UT1−UTC, and length-of-day, as published by the IERS in its
// Bulletin A and Finals 2000A products. Parsing and interpolation here are
// grounded on OpenSpaceToolkit Physics's
// Coordinate/Frame/Provider/IERS/Finals2000A.cpp, which the Finals2000A
// reader follows column-for-column; the BulletinA reader tokenizes on
// whitespace instead.
package iers

import (
	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/instant"
)

// EOP is one Earth Orientation Parameter record: polar motion components
// in arcseconds, UT1−UTC and its rate of change (length-of-day) in
// seconds.
type EOP struct {
	PolarMotionXArcsec float64
	PolarMotionYArcsec float64
	UT1MinusUTCSec     float64
	LODSec             float64
}

// ErrOutOfRange is returned by a Strict-wrapped Provider when the query
// instant falls outside the provider's table coverage.
var ErrOutOfRange = astroerr.New(astroerr.OutOfRange, "EOP")

// Provider answers EOP queries at a UTC instant.
type Provider interface {
	// EOPAt returns the Earth Orientation Parameters in effect at i.
	EOPAt(i instant.Instant) (EOP, error)
	// Range reports the Modified Julian Date span covered by loaded data.
	// ok is false if the provider has no data loaded.
	Range() (startMJD, endMJD float64, ok bool)
}

// interpolate linearly blends a and b by fraction t, t in [0,1].
func interpolate(a, b, t float64) float64 { return a + t*(b-a) }
