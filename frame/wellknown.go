package frame

import (
	"fmt"

	"github.com/anupshinde/astrocore/instant"
	"github.com/anupshinde/astrocore/transform"
)

// Well-known frame names.
const (
	NameGCRF  = "GCRF"
	NameJ2000 = "J2000"
	NameMOD   = "MOD"
	NameTOD   = "TOD"
	NameTEME  = "TEME"
	NameCIRF  = "CIRF"
	NameTIRF  = "TIRF"
	NameITRF  = "ITRF"
)

// GCRF returns the Geocentric Celestial Reference Frame, the quasi-inertial
// root of the frame graph. It is constructed once, lazily, on first
// access — concurrent first callers block on the same
// golang.org/x/sync/singleflight group rather than racing to register it
// twice.
func GCRF() (*Frame, error) {
	return managerInstance().once(NameGCRF, func() (*Frame, error) {
		return Construct(NameGCRF, true, nil, IdentityProvider{})
	})
}

// J2000 returns the mean equator and equinox of J2000.0 frame, related to
// GCRF by the small (milliarcsecond) ICRS frame bias rotation.
func J2000() (*Frame, error) {
	return managerInstance().once(NameJ2000, func() (*Frame, error) {
		parent, err := GCRF()
		if err != nil {
			return nil, err
		}
		return Construct(NameJ2000, true, parent, biasProvider())
	})
}

// MOD returns the Mean-of-Date frame: J2000 precessed to the equator and
// equinox of the query instant.
func MOD() (*Frame, error) {
	return managerInstance().once(NameMOD, func() (*Frame, error) {
		parent, err := J2000()
		if err != nil {
			return nil, err
		}
		return Construct(NameMOD, true, parent, precessionProvider())
	})
}

// TOD returns the True-of-Date frame: MOD additionally nutated to the
// true equator and equinox of the query instant.
func TOD() (*Frame, error) {
	return managerInstance().once(NameTOD, func() (*Frame, error) {
		parent, err := MOD()
		if err != nil {
			return nil, err
		}
		return Construct(NameTOD, true, parent, nutationProvider())
	})
}

// TEME returns the True Equator, Mean Equinox frame SGP4 propagates
// satellite state vectors in, parented directly to ITRF: TEME state is
// conventionally compared against Earth-fixed ground truth, not walked
// through the quasi-inertial chain its construction borrows math from.
func TEME() (*Frame, error) {
	return managerInstance().once(NameTEME, func() (*Frame, error) {
		parent, err := ITRF()
		if err != nil {
			return nil, err
		}
		return Construct(NameTEME, true, parent, temeProvider())
	})
}

// CIRF returns the Celestial Intermediate Reference Frame, approximated in
// this module by the true-equator/true-equinox-of-date frame (see
// cirfProvider's doc comment for the CIO-locator simplification this
// entails).
func CIRF() (*Frame, error) {
	return managerInstance().once(NameCIRF, func() (*Frame, error) {
		parent, err := GCRF()
		if err != nil {
			return nil, err
		}
		return Construct(NameCIRF, true, parent, cirfProvider())
	})
}

// TIRF returns the Terrestrial Intermediate Reference Frame: CIRF rotated
// by the Earth Rotation Angle. Not quasi-inertial — it co-rotates with the
// solid Earth.
func TIRF() (*Frame, error) {
	return managerInstance().once(NameTIRF, func() (*Frame, error) {
		parent, err := CIRF()
		if err != nil {
			return nil, err
		}
		return Construct(NameTIRF, false, parent, tirfProvider())
	})
}

// epochToGCRFProvider computes the live transform from src into GCRF at
// whatever instant it is queried at; NewFixedProvider evaluates it once at
// the reference epoch to freeze an *OfEpoch frame's orientation.
type epochToGCRFProvider struct {
	src *Frame
}

func (p epochToGCRFProvider) TransformAt(i instant.Instant) (transform.Transform, error) {
	gcrf, err := GCRF()
	if err != nil {
		return transform.Undefined(), err
	}
	return p.src.TransformTo(gcrf, i)
}

// epochFrame constructs (or returns the already-registered) frame named
// baseName frozen to epoch's orientation relative to GCRF, via wellKnown's
// live transform snapshotted once by FixedProvider.
func epochFrame(baseName string, epoch instant.Instant, wellKnown func() (*Frame, error)) (*Frame, error) {
	jd, err := epoch.GetJulianDate(instant.TAI)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s@%.9f", baseName, jd)
	return managerInstance().once(name, func() (*Frame, error) {
		gcrf, err := GCRF()
		if err != nil {
			return nil, err
		}
		src, err := wellKnown()
		if err != nil {
			return nil, err
		}
		fixed, err := NewFixedProvider(epochToGCRFProvider{src: src}, epoch)
		if err != nil {
			return nil, err
		}
		return Construct(name, true, gcrf, fixed)
	})
}

// TEMEOfEpoch returns the True Equator, Mean Equinox frame of epoch: TEME's
// orientation relative to GCRF frozen at epoch rather than tracked live.
func TEMEOfEpoch(epoch instant.Instant) (*Frame, error) {
	return epochFrame("TEMEOfEpoch", epoch, TEME)
}

// MODOfEpoch returns the Mean-of-Date frame of epoch: MOD's precession
// relative to GCRF frozen at epoch rather than tracked live.
func MODOfEpoch(epoch instant.Instant) (*Frame, error) {
	return epochFrame("MODOfEpoch", epoch, MOD)
}

// TODOfEpoch returns the True-of-Date frame of epoch: TOD's
// precession-nutation relative to GCRF frozen at epoch rather than tracked
// live.
func TODOfEpoch(epoch instant.Instant) (*Frame, error) {
	return epochFrame("TODOfEpoch", epoch, TOD)
}

// ITRF returns the International Terrestrial Reference Frame: TIRF
// corrected for polar motion via the EOP provider installed with
// SetEOPProvider. With no provider installed, ITRF is treated as
// coincident with TIRF.
func ITRF() (*Frame, error) {
	return managerInstance().once(NameITRF, func() (*Frame, error) {
		parent, err := TIRF()
		if err != nil {
			return nil, err
		}
		return Construct(NameITRF, false, parent, itrfProvider())
	})
}
