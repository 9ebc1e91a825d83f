// Package instant provides Instant, a point on the timeline tagged to no
// particular scale internally — every Instant is stored canonically on the
// TAI scale and converted on demand, the way DateTime in the original
// OpenSpaceToolkit Physics library canonicalizes on one internal
// representation and exposes every other scale through accessor methods.
//
// Conversions between scales go through package timescale; this package
// owns only the calendar-facing DateTime type and the scale-dispatch table.
package instant

import (
	"fmt"
	"sync"
	"time"

	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/duration"
	"github.com/anupshinde/astrocore/timescale"
)

// Scale names a time scale an Instant can be constructed from or read out
// as.
type Scale int

const (
	// UTC is Coordinated Universal Time, leap-second-adjusted civil time.
	UTC Scale = iota
	// TAI is International Atomic Time, the continuous atomic scale.
	TAI
	// TT is Terrestrial Time, TAI + 32.184s by definition.
	TT
	// UT1 is mean solar time, TT offset by the observed ΔT.
	UT1
	// GPS is GPS system time, a fixed 19s behind TAI since 1980-01-06.
	GPS
	// TDB is Barycentric Dynamical Time, TT plus a sub-2ms periodic term.
	TDB
	// TCG is Geocentric Coordinate Time, TT scaled by a constant rate.
	TCG
)

func (s Scale) String() string {
	switch s {
	case UTC:
		return "UTC"
	case TAI:
		return "TAI"
	case TT:
		return "TT"
	case UT1:
		return "UT1"
	case GPS:
		return "GPS"
	case TDB:
		return "TDB"
	case TCG:
		return "TCG"
	default:
		return "Unknown"
	}
}

// ttMinusTAI is the fixed TT−TAI offset in seconds, by definition.
const ttMinusTAI = 32.184

// gpsMinusTAI is the fixed GPS−TAI offset in seconds.
const gpsMinusTAI = -19.0

// tcgRate is L_G, the constant rate term relating TCG to TT.
const tcgRate = 6.969290134e-10

// j2000JDTT is the Julian Date of the J2000 epoch on the TT scale.
const j2000JDTT = 2451545.0

// DateTime is a calendar decomposition of an Instant on a particular
// Scale. Second may reach into [60, 61) to display an inserted UTC leap
// second; on every other scale it stays within [0, 60).
type DateTime struct {
	Year, Month, Day int
	Hour, Minute     int
	Second           float64
}

func secOfDay(dt DateTime) float64 {
	return float64(dt.Hour)*3600 + float64(dt.Minute)*60 + dt.Second
}

func validateDateTime(dt DateTime) error {
	if dt.Month < 1 || dt.Month > 12 {
		return astroerr.New(astroerr.DomainError, "DateTime.Month")
	}
	if dt.Day < 1 || dt.Day > 31 {
		return astroerr.New(astroerr.DomainError, "DateTime.Day")
	}
	if dt.Hour < 0 || dt.Hour > 23 {
		return astroerr.New(astroerr.DomainError, "DateTime.Hour")
	}
	if dt.Minute < 0 || dt.Minute > 59 {
		return astroerr.New(astroerr.DomainError, "DateTime.Minute")
	}
	if dt.Second < 0 || dt.Second >= 61 {
		return astroerr.New(astroerr.DomainError, "DateTime.Second")
	}
	return nil
}

func decomposeSecOfDay(sod float64) (hour, minute int, second float64) {
	if sod >= timescale.SecPerDay {
		return 23, 59, sod - timescale.SecPerDay + 60
	}
	hour = int(sod / 3600)
	rem := sod - float64(hour)*3600
	minute = int(rem / 60)
	second = rem - float64(minute)*60
	return
}

// Instant is a point on the timeline, stored canonically as a TAI Julian
// Date. The zero value is Undefined; use Zero-argument well-known
// constructors or one of the From* functions to build a defined value.
type Instant struct {
	jdTAI   float64
	defined bool
}

// Undefined returns the distinct undefined Instant.
func Undefined() Instant { return Instant{} }

// IsDefined reports whether i is a defined Instant.
func (i Instant) IsDefined() bool { return i.defined }

func fromTAIJDValue(jdTAI float64) Instant { return Instant{jdTAI: jdTAI, defined: true} }

// UT1Provider supplies the observed UT1−UTC offset (DUT1), in seconds, at a
// UTC Julian Date. A package that loads real IERS Earth Orientation
// Parameters can install itself via SetUT1Provider so toTAIJD/fromTAIJD use
// observed DUT1 for the UT1 scale instead of the static ΔT(year) model.
type UT1Provider interface {
	// UT1MinusUTCSec returns UT1−UTC at jdUTC. ok is false where the
	// provider has no coverage, falling back to the static model.
	UT1MinusUTCSec(jdUTC float64) (sec float64, ok bool)
}

var (
	ut1ProviderMu sync.RWMutex
	ut1Provider   UT1Provider
)

// SetUT1Provider installs the source toTAIJD/fromTAIJD consult for the UT1
// scale. Passing nil reverts to the static ΔT(year) model.
func SetUT1Provider(p UT1Provider) {
	ut1ProviderMu.Lock()
	defer ut1ProviderMu.Unlock()
	ut1Provider = p
}

func currentUT1Provider() UT1Provider {
	ut1ProviderMu.RLock()
	defer ut1ProviderMu.RUnlock()
	return ut1Provider
}

// toTAIJD converts a Julian Date on the given scale to the equivalent TAI
// Julian Date.
func toTAIJD(scale Scale, jd float64) (float64, error) {
	switch scale {
	case TAI:
		return jd, nil
	case UTC:
		return jd + timescale.LeapSecondOffset(jd)/timescale.SecPerDay, nil
	case TT:
		return jd - ttMinusTAI/timescale.SecPerDay, nil
	case UT1:
		if p := currentUT1Provider(); p != nil {
			if dut1, ok := p.UT1MinusUTCSec(jd); ok {
				return toTAIJD(UTC, jd-dut1/timescale.SecPerDay)
			}
		}
		year := 2000.0 + (jd-j2000JDTT)/365.25
		dt := timescale.DeltaT(year)
		jdTT := jd + dt/timescale.SecPerDay
		return jdTT - ttMinusTAI/timescale.SecPerDay, nil
	case GPS:
		return jd - gpsMinusTAI/timescale.SecPerDay, nil
	case TDB:
		jdTT := jd - timescale.TDBMinusTT(jd)/timescale.SecPerDay
		return jdTT - ttMinusTAI/timescale.SecPerDay, nil
	case TCG:
		jdTT := jd - tcgRate*(jd-j2000JDTT)
		return jdTT - ttMinusTAI/timescale.SecPerDay, nil
	default:
		return 0, astroerr.New(astroerr.Unsupported, "Scale")
	}
}

// fromTAIJD is the inverse of toTAIJD: it converts a TAI Julian Date to
// the given scale.
func fromTAIJD(scale Scale, jdTAI float64) (float64, error) {
	switch scale {
	case TAI:
		return jdTAI, nil
	case UTC:
		offset := timescale.LeapSecondOffset(jdTAI)
		jdUTC := jdTAI - offset/timescale.SecPerDay
		offset = timescale.LeapSecondOffset(jdUTC) // refine across a step boundary
		return jdTAI - offset/timescale.SecPerDay, nil
	case TT:
		return jdTAI + ttMinusTAI/timescale.SecPerDay, nil
	case UT1:
		if p := currentUT1Provider(); p != nil {
			jdUTC, err := fromTAIJD(UTC, jdTAI)
			if err != nil {
				return 0, err
			}
			if dut1, ok := p.UT1MinusUTCSec(jdUTC); ok {
				return jdUTC + dut1/timescale.SecPerDay, nil
			}
		}
		jdTT := jdTAI + ttMinusTAI/timescale.SecPerDay
		year := 2000.0 + (jdTT-j2000JDTT)/365.25
		dt := timescale.DeltaT(year)
		return jdTT - dt/timescale.SecPerDay, nil
	case GPS:
		return jdTAI + gpsMinusTAI/timescale.SecPerDay, nil
	case TDB:
		jdTT := jdTAI + ttMinusTAI/timescale.SecPerDay
		return jdTT + timescale.TDBMinusTT(jdTT)/timescale.SecPerDay, nil
	case TCG:
		jdTT := jdTAI + ttMinusTAI/timescale.SecPerDay
		return jdTT + tcgRate*(jdTT-j2000JDTT), nil
	default:
		return 0, astroerr.New(astroerr.Unsupported, "Scale")
	}
}

// FromDateTime constructs an Instant from a calendar DateTime expressed on
// the given scale.
func FromDateTime(dt DateTime, scale Scale) (Instant, error) {
	if err := validateDateTime(dt); err != nil {
		return Undefined(), err
	}
	if scale == UTC {
		jdTAI := timescale.UTCComponentsToTAIJD(dt.Year, dt.Month, dt.Day, secOfDay(dt))
		return fromTAIJDValue(jdTAI), nil
	}
	jd := timescale.CivilToJD(dt.Year, dt.Month, dt.Day, secOfDay(dt))
	jdTAI, err := toTAIJD(scale, jd)
	if err != nil {
		return Undefined(), err
	}
	return fromTAIJDValue(jdTAI), nil
}

// FromJulianDate constructs an Instant from a Julian Date on the given
// scale.
func FromJulianDate(jd float64, scale Scale) (Instant, error) {
	jdTAI, err := toTAIJD(scale, jd)
	if err != nil {
		return Undefined(), err
	}
	return fromTAIJDValue(jdTAI), nil
}

// FromModifiedJulianDate constructs an Instant from a Modified Julian Date
// (JD − 2400000.5) on the given scale.
func FromModifiedJulianDate(mjd float64, scale Scale) (Instant, error) {
	return FromJulianDate(mjd+2400000.5, scale)
}

// J2000 returns the Instant at 2000-01-01 12:00:00 TT, the reference epoch
// most of this module's reference frames are parameterized against.
func J2000() Instant {
	i, _ := FromJulianDate(j2000JDTT, TT)
	return i
}

// Now returns the Instant corresponding to the wall-clock system time.
func Now() Instant {
	i, _ := FromJulianDate(timescale.TimeToJDUTC(time.Now()), UTC)
	return i
}

// GetJulianDate returns i's Julian Date on the given scale.
func (i Instant) GetJulianDate(scale Scale) (float64, error) {
	if !i.defined {
		return 0, astroerr.New(astroerr.Undefined, "Instant")
	}
	return fromTAIJD(scale, i.jdTAI)
}

// GetModifiedJulianDate returns i's Modified Julian Date on the given
// scale.
func (i Instant) GetModifiedJulianDate(scale Scale) (float64, error) {
	jd, err := i.GetJulianDate(scale)
	if err != nil {
		return 0, err
	}
	return jd - 2400000.5, nil
}

// GetDateTime returns i's calendar decomposition on the given scale.
func (i Instant) GetDateTime(scale Scale) (DateTime, error) {
	if !i.defined {
		return DateTime{}, astroerr.New(astroerr.Undefined, "Instant")
	}
	var year, month, day int
	var sod float64
	if scale == UTC {
		year, month, day, sod = timescale.TAIJDToUTCComponents(i.jdTAI)
	} else {
		jd, err := fromTAIJD(scale, i.jdTAI)
		if err != nil {
			return DateTime{}, err
		}
		year, month, day, sod = timescale.JDToCivil(jd)
	}
	hour, minute, second := decomposeSecOfDay(sod)
	return DateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}, nil
}

// GetLeapSecondCount returns TAI−UTC, in seconds, in effect at i.
func (i Instant) GetLeapSecondCount() (float64, error) {
	if !i.defined {
		return 0, astroerr.New(astroerr.Undefined, "Instant")
	}
	jdUTC, err := fromTAIJD(UTC, i.jdTAI)
	if err != nil {
		return 0, err
	}
	return timescale.LeapSecondOffset(jdUTC), nil
}

// Add returns the Instant d after i. A negative Duration moves i earlier.
func (i Instant) Add(d duration.Duration) Instant {
	if !i.defined || !d.IsDefined() {
		return Undefined()
	}
	return fromTAIJDValue(i.jdTAI + d.Seconds()/timescale.SecPerDay)
}

// Sub returns the Duration elapsed from other to i (i − other).
func (i Instant) Sub(other Instant) duration.Duration {
	if !i.defined || !other.defined {
		return duration.Undefined()
	}
	d, err := duration.FromSeconds((i.jdTAI - other.jdTAI) * timescale.SecPerDay)
	if err != nil {
		return duration.Undefined()
	}
	return d
}

// Compare returns -1, 0, or +1 as i is before, simultaneous with, or after
// other.
func (i Instant) Compare(other Instant) int {
	if !i.defined || !other.defined {
		return 0
	}
	switch {
	case i.jdTAI < other.jdTAI:
		return -1
	case i.jdTAI > other.jdTAI:
		return 1
	default:
		return 0
	}
}

// Equal reports whether i and other are the same defined instant.
func (i Instant) Equal(other Instant) bool {
	return i.defined && other.defined && i.jdTAI == other.jdTAI
}

// Before reports whether i is strictly earlier than other.
func (i Instant) Before(other Instant) bool {
	return i.defined && other.defined && i.jdTAI < other.jdTAI
}

// After reports whether i is strictly later than other.
func (i Instant) After(other Instant) bool {
	return i.defined && other.defined && i.jdTAI > other.jdTAI
}

// IsNear reports whether i and other differ by no more than tolerance.
func (i Instant) IsNear(other Instant, tolerance duration.Duration) bool {
	if !i.defined || !other.defined || !tolerance.IsDefined() {
		return false
	}
	return i.Sub(other).Absolute().Compare(tolerance.Absolute()) <= 0
}

// String renders i as an ISO-8601 UTC timestamp with nanosecond precision.
func (i Instant) String() string {
	if !i.defined {
		return "Undefined"
	}
	dt, err := i.GetDateTime(UTC)
	if err != nil {
		return "Undefined"
	}
	wholeSec := int(dt.Second)
	nanos := int((dt.Second - float64(wholeSec)) * 1e9)
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02d.%09dZ",
		dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, wholeSec, nanos)
}
