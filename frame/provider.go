package frame

import (
	"math"
	"sync"

	"github.com/anupshinde/astrocore/coord"
	"github.com/anupshinde/astrocore/duration"
	"github.com/anupshinde/astrocore/iers"
	"github.com/anupshinde/astrocore/instant"
	"github.com/anupshinde/astrocore/transform"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// IdentityProvider is the Provider of a root frame coincident with its
// parent at every instant.
type IdentityProvider struct{}

// TransformAt implements Provider.
func (IdentityProvider) TransformAt(i instant.Instant) (transform.Transform, error) {
	return transform.Identity(i), nil
}

// StaticProvider supplies the same passive transform at every instant,
// re-tagged to whatever instant is queried. It is used for frame-bias
// rotations — small, time-independent offsets such as ICRS↔J2000 — the
// way the teacher's coord package keeps GalacticMatrix and B1950Matrix as
// package-level constants rather than recomputed per call.
type StaticProvider struct {
	Translation     r3.Vec
	Velocity        r3.Vec
	Orientation     quat.Number
	AngularVelocity r3.Vec
}

// TransformAt implements Provider.
func (p StaticProvider) TransformAt(i instant.Instant) (transform.Transform, error) {
	return transform.Passive(i, p.Translation, p.Velocity, p.Orientation, p.AngularVelocity), nil
}

// DynamicProvider wraps a function of instant, for frames whose transform
// genuinely depends on the query time: precession, nutation, Earth
// rotation, polar motion.
type DynamicProvider struct {
	Func func(i instant.Instant) (transform.Transform, error)
}

// TransformAt implements Provider.
func (p DynamicProvider) TransformAt(i instant.Instant) (transform.Transform, error) {
	return p.Func(i)
}

// FixedProvider snapshots another Provider's transform at one reference
// epoch, computed once at construction, and serves that same transform
// re-tagged to whatever instant is later queried. This is how an
// *OfEpoch frame (TEMEOfEpoch, MODOfEpoch, TODOfEpoch) freezes its
// parent-relative orientation to the state it held at a reference epoch
// instead of continuing to track precession/nutation/Earth-rotation as the
// query instant moves — the way Frame::TEMEOfEpoch snapshots
// GCRF()->getTransformTo(TEME(), epoch) once rather than re-evaluating it.
type FixedProvider struct {
	snapshot transform.Transform
}

// NewFixedProvider captures provider's transform at epoch.
func NewFixedProvider(provider Provider, epoch instant.Instant) (FixedProvider, error) {
	t, err := provider.TransformAt(epoch)
	if err != nil {
		return FixedProvider{}, err
	}
	return FixedProvider{snapshot: t}, nil
}

// TransformAt implements Provider: it returns the transform captured at
// construction, re-tagged to i rather than the epoch it was evaluated at.
func (p FixedProvider) TransformAt(i instant.Instant) (transform.Transform, error) {
	return transform.Passive(
		i,
		p.snapshot.Translation(),
		p.snapshot.Velocity(),
		p.snapshot.Orientation(),
		p.snapshot.AngularVelocity(),
	), nil
}

// matrixToQuat converts a 3x3 rotation matrix to the unit quaternion q
// such that rotate(q, v) == m·v, using Shepperd's method (stable across
// the full rotation range, unlike the naive trace formula alone).
func matrixToQuat(m [3][3]float64) quat.Number {
	trace := m[0][0] + m[1][1] + m[2][2]
	switch {
	case trace > 0:
		s := math.Sqrt(trace+1.0) * 2
		return quat.Number{
			Real: 0.25 * s,
			Imag: (m[2][1] - m[1][2]) / s,
			Jmag: (m[0][2] - m[2][0]) / s,
			Kmag: (m[1][0] - m[0][1]) / s,
		}
	case m[0][0] > m[1][1] && m[0][0] > m[2][2]:
		s := math.Sqrt(1.0+m[0][0]-m[1][1]-m[2][2]) * 2
		return quat.Number{
			Real: (m[2][1] - m[1][2]) / s,
			Imag: 0.25 * s,
			Jmag: (m[0][1] + m[1][0]) / s,
			Kmag: (m[0][2] + m[2][0]) / s,
		}
	case m[1][1] > m[2][2]:
		s := math.Sqrt(1.0+m[1][1]-m[0][0]-m[2][2]) * 2
		return quat.Number{
			Real: (m[0][2] - m[2][0]) / s,
			Imag: (m[0][1] + m[1][0]) / s,
			Jmag: 0.25 * s,
			Kmag: (m[1][2] + m[2][1]) / s,
		}
	default:
		s := math.Sqrt(1.0+m[2][2]-m[0][0]-m[1][1]) * 2
		return quat.Number{
			Real: (m[1][0] - m[0][1]) / s,
			Imag: (m[0][2] + m[2][0]) / s,
			Jmag: (m[1][2] + m[2][1]) / s,
			Kmag: 0.25 * s,
		}
	}
}

// rotZQuat returns the unit quaternion rotating a vector by angleRad about
// +Z, matching the Rz(θ) convention coord.go's GAST/ERA rotations use.
func rotZQuat(angleRad float64) quat.Number {
	return quat.Number{Real: math.Cos(angleRad / 2), Kmag: math.Sin(angleRad / 2)}
}

func julianCenturiesTT(i instant.Instant) (float64, error) {
	jdTT, err := i.GetJulianDate(instant.TT)
	if err != nil {
		return 0, err
	}
	return (jdTT - 2451545.0) / 36525.0, nil
}

// angularVelocityFromRotation numerically differentiates rotationAt — a
// function returning the quaternion rotating a vector into the
// destination frame at a given instant — via a one-second forward
// difference, returning the destination-frame angular velocity vector.
// Used where no closed-form dθ/dt exists (the precession-nutation chain
// CIRF approximates), one second being short enough that the resulting
// rotation is a small angle for any theory this slow-moving.
func angularVelocityFromRotation(rotationAt func(instant.Instant) (quat.Number, error), i instant.Instant) (r3.Vec, error) {
	dt, err := duration.FromSeconds(1.0)
	if err != nil {
		return r3.Vec{}, err
	}
	q0, err := rotationAt(i)
	if err != nil {
		return r3.Vec{}, err
	}
	q1, err := rotationAt(i.Add(dt))
	if err != nil {
		return r3.Vec{}, err
	}
	dq := quat.Mul(q1, quat.Conj(q0))
	return r3.Vec{X: 2 * dq.Imag, Y: 2 * dq.Jmag, Z: 2 * dq.Kmag}, nil
}

// biasProvider rotates J2000 into GCRF/ICRS via the frame bias matrix.
// T_{GCRF←J2000} = (ICRSToJ2000Matrix)^T, time-independent.
func biasProvider() Provider {
	q := quat.Conj(matrixToQuat(coord.ICRSToJ2000Matrix))
	return StaticProvider{Orientation: q}
}

// precessionProvider rotates MOD(epoch) into J2000: T_{J2000←MOD}.
func precessionProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		T, err := julianCenturiesTT(i)
		if err != nil {
			return transform.Undefined(), err
		}
		q := matrixToQuat(coord.PrecessionMatrixDateToJ2000(T))
		return transform.Passive(i, r3.Vec{}, r3.Vec{}, q, r3.Vec{}), nil
	}}
}

// nutationProvider rotates TOD(epoch) into MOD(epoch): T_{MOD←TOD}.
func nutationProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		T, err := julianCenturiesTT(i)
		if err != nil {
			return transform.Undefined(), err
		}
		dpsi, deps := coord.NutationAngles(T)
		epsM := coord.MeanObliquity(T)
		q := matrixToQuat(coord.NutationMatrixTrueToMean(dpsi, deps, epsM))
		return transform.Passive(i, r3.Vec{}, r3.Vec{}, q, r3.Vec{}), nil
	}}
}

// equationOfEquinoxesProvider rotates TEME(epoch) into TOD(epoch):
// T_{TOD←TEME}, the same Rz(eq_eq) step coord.TEMEToICRF applies to an
// SGP4 position before undoing nutation and precession.
func equationOfEquinoxesProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		T, err := julianCenturiesTT(i)
		if err != nil {
			return transform.Undefined(), err
		}
		dpsi, _ := coord.NutationAngles(T)
		epsM := coord.MeanObliquity(T)
		eqEq := dpsi * math.Cos(epsM)
		return transform.Passive(i, r3.Vec{}, r3.Vec{}, rotZQuat(eqEq), r3.Vec{}), nil
	}}
}

// temeProvider rotates TEME straight into ITRF: T_{ITRF←TEME}. TEME is
// parented directly to ITRF (the frame SGP4-propagated state is usually
// compared against ground truth, not the quasi-inertial chain it happens to
// share bias/precession/nutation math with), so its provider must supply the
// whole celestial-to-terrestrial composition itself rather than walking the
// frame graph: T_{GCRF←TEME} via the mean-of-date-plus-equation-of-equinoxes
// chain (bias∘precession∘nutation∘equation-of-equinoxes), composed with the
// inverse of T_{GCRF←ITRF} (cirf∘tirf∘itrf).
func temeProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		eqEq, err := equationOfEquinoxesProvider().TransformAt(i) // T_{TOD←TEME}
		if err != nil {
			return transform.Undefined(), err
		}
		nut, err := nutationProvider().TransformAt(i) // T_{MOD←TOD}
		if err != nil {
			return transform.Undefined(), err
		}
		prec, err := precessionProvider().TransformAt(i) // T_{J2000←MOD}
		if err != nil {
			return transform.Undefined(), err
		}
		bias, err := biasProvider().TransformAt(i) // T_{GCRF←J2000}
		if err != nil {
			return transform.Undefined(), err
		}

		modFromTEME, err := nut.Compose(eqEq) // T_{MOD←TEME}
		if err != nil {
			return transform.Undefined(), err
		}
		j2000FromTEME, err := prec.Compose(modFromTEME) // T_{J2000←TEME}
		if err != nil {
			return transform.Undefined(), err
		}
		gcrfFromTEME, err := bias.Compose(j2000FromTEME) // T_{GCRF←TEME}
		if err != nil {
			return transform.Undefined(), err
		}

		cirf, err := cirfProvider().TransformAt(i) // T_{GCRF←CIRF}
		if err != nil {
			return transform.Undefined(), err
		}
		tirf, err := tirfProvider().TransformAt(i) // T_{CIRF←TIRF}
		if err != nil {
			return transform.Undefined(), err
		}
		itrf, err := itrfProvider().TransformAt(i) // T_{TIRF←ITRF}
		if err != nil {
			return transform.Undefined(), err
		}

		cirfFromITRF, err := tirf.Compose(itrf) // T_{CIRF←ITRF}
		if err != nil {
			return transform.Undefined(), err
		}
		gcrfFromITRF, err := cirf.Compose(cirfFromITRF) // T_{GCRF←ITRF}
		if err != nil {
			return transform.Undefined(), err
		}

		return gcrfFromITRF.Inverse().Compose(gcrfFromTEME) // T_{ITRF←TEME}
	}}
}

// cirfOrientation returns the quaternion rotating CIRF into GCRF at i: the
// same bias/precession/nutation chain TOD uses (see cirfProvider's doc
// comment for why CIRF is approximated this way).
func cirfOrientation(i instant.Instant) (quat.Number, error) {
	T, err := julianCenturiesTT(i)
	if err != nil {
		return quat.Number{}, err
	}
	dpsi, deps := coord.NutationAngles(T)
	epsM := coord.MeanObliquity(T)
	nq := matrixToQuat(coord.NutationMatrixTrueToMean(dpsi, deps, epsM))
	pq := matrixToQuat(coord.PrecessionMatrixDateToJ2000(T))
	bq := quat.Conj(matrixToQuat(coord.ICRSToJ2000Matrix))
	return quat.Mul(bq, quat.Mul(pq, nq)), nil
}

// cirfProvider rotates CIRF into GCRF. This module approximates the
// celestial intermediate frame by the true-equator/true-equinox-of-date
// frame (TOD): the retrieved corpus carries no CIO locator (s) series, so
// the distinction between the equinox-based and CIO-based dynamical frames
// — sub-arcsecond — is not modeled. CIRF's provider therefore composes the
// same bias/precession/nutation chain TOD uses. The precession-nutation
// chain has no closed-form rate in this package, so its angular velocity
// (dθ/dt) is estimated by numerical differentiation.
func cirfProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		q, err := cirfOrientation(i)
		if err != nil {
			return transform.Undefined(), err
		}
		omega, err := angularVelocityFromRotation(cirfOrientation, i)
		if err != nil {
			return transform.Undefined(), err
		}
		return transform.Passive(i, r3.Vec{}, r3.Vec{}, q, omega), nil
	}}
}

// earthRotationRateRevPerUT1Day is dERA/dTu, the coefficient of Tu in
// coord.EarthRotationAngle's IAU formula
// ERA = 2π(0.7790572732640 + 1.00273781191135448·Tu): the Earth Rotation
// Angle's rate of change per UT1 day, exact by definition of UT1.
const earthRotationRateRevPerUT1Day = 1.00273781191135448

// tirfProvider rotates TIRF into CIRF via the Earth Rotation Angle:
// T_{CIRF←TIRF} = Rz(-ERA). TIRF's angular velocity relative to CIRF is
// the Earth's physical rotation rate: dERA/dTu converted from per-UT1-day
// to per-SI-second using the EOP provider's length-of-day, since a UT1
// day is 86400+LOD SI seconds long, not exactly 86400.
func tirfProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		jdUT1, err := i.GetJulianDate(instant.UT1)
		if err != nil {
			return transform.Undefined(), err
		}
		eraDeg := coord.EarthRotationAngle(jdUT1)
		eraRad := eraDeg * math.Pi / 180.0

		lodSec := 0.0
		if p := currentEOPProvider(); p != nil {
			eop, err := p.EOPAt(i)
			if err != nil {
				return transform.Undefined(), err
			}
			lodSec = eop.LODSec
		}
		omega := 2 * math.Pi * earthRotationRateRevPerUT1Day / (86400.0 + lodSec)

		return transform.Passive(i, r3.Vec{}, r3.Vec{}, rotZQuat(-eraRad), r3.Vec{Z: omega}), nil
	}}
}

var (
	eopMu       sync.RWMutex
	eopProvider iers.Provider
)

// ut1FromEOP adapts an iers.Provider to instant.UT1Provider, so an installed
// EOP product also drives instant's UT1 scale conversion, not just this
// package's polar motion and Earth-rotation providers.
type ut1FromEOP struct{ p iers.Provider }

func (a ut1FromEOP) UT1MinusUTCSec(jdUTC float64) (float64, bool) {
	i, err := instant.FromJulianDate(jdUTC, instant.UTC)
	if err != nil {
		return 0, false
	}
	eop, err := a.p.EOPAt(i)
	if err != nil {
		return 0, false
	}
	return eop.UT1MinusUTCSec, true
}

// SetEOPProvider installs the Earth Orientation Parameter source the
// ITRF↔TIRF polar-motion provider, the TIRF Earth-rotation provider, and
// instant's UT1 scale conversion all consult. Passing nil reverts TIRF to
// zero polar motion and instant to its static ΔT(year) UT1 model, the
// module's fallback when no EOP product has been loaded.
func SetEOPProvider(p iers.Provider) {
	eopMu.Lock()
	eopProvider = p
	eopMu.Unlock()

	if p == nil {
		instant.SetUT1Provider(nil)
		return
	}
	instant.SetUT1Provider(ut1FromEOP{p})
}

func currentEOPProvider() iers.Provider {
	eopMu.RLock()
	defer eopMu.RUnlock()
	return eopProvider
}

const arcsecToRad = math.Pi / (180.0 * 3600.0)

// itrfProvider rotates ITRF into TIRF via polar motion:
// T_{TIRF←ITRF} ≈ Ry(xp)·Rx(yp), the small-angle polar motion matrix
// (the s' term, sub-milliarcsecond, is omitted).
func itrfProvider() Provider {
	return DynamicProvider{Func: func(i instant.Instant) (transform.Transform, error) {
		p := currentEOPProvider()
		if p == nil {
			return transform.Identity(i), nil
		}
		eop, err := p.EOPAt(i)
		if err != nil {
			return transform.Undefined(), err
		}
		xp := eop.PolarMotionXArcsec * arcsecToRad
		yp := eop.PolarMotionYArcsec * arcsecToRad

		// Ry(xp)*Rx(yp) linearized for small xp, yp.
		m := [3][3]float64{
			{1, 0, xp},
			{0, 1, -yp},
			{-xp, yp, 1},
		}
		q := matrixToQuat(m)
		return transform.Passive(i, r3.Vec{}, r3.Vec{}, q, r3.Vec{}), nil
	}}
}
