// Package transform implements the rigid-body transform algebra that
// chains frame-to-frame conversions: a time-tagged (translation, velocity,
// orientation, angular velocity) tuple, composable and invertible, that
// can be applied to a position, a velocity, or a free vector.
//
// Transforms follow the passive convention internally — translation and
// velocity are added to a source-frame vector before rotation, so they are
// expressed along the source frame's axes (x_B = q·(x_A + t)), and
// orientation rotates a vector from the source frame into the destination
// frame — the same
// convention OpenSpaceToolkit Physics's Transform.cpp normalizes to
// (its Active constructor stores the Passive inverse). Composition order
// matches spec notation T_{C←A} = T_{C←B} ∘ T_{B←A}: Compose is called on
// the outer (B→C) transform with the inner (A→B) transform as its
// argument.
package transform

import (
	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/instant"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a time-tagged rigid-body transform between two reference
// frames. The zero value is not valid; use Identity, Passive, or Active.
type Transform struct {
	at              instant.Instant
	translation     r3.Vec
	velocity        r3.Vec
	orientation     quat.Number
	angularVelocity r3.Vec
	defined         bool
}

// Undefined returns the distinct undefined Transform.
func Undefined() Transform { return Transform{} }

// IsDefined reports whether t is a defined Transform.
func (t Transform) IsDefined() bool { return t.defined }

// At returns the instant t is valid at.
func (t Transform) At() instant.Instant { return t.at }

// Identity returns the transform that leaves every vector unchanged, at
// instant i.
func Identity(i instant.Instant) Transform {
	return Transform{
		at:              i,
		translation:     r3.Vec{},
		velocity:        r3.Vec{},
		orientation:     quat.Number{Real: 1},
		angularVelocity: r3.Vec{},
		defined:         true,
	}
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

// Passive constructs a transform in the passive convention directly:
// translation and velocity are expressed along the source frame's axes and
// added to a source-frame vector before rotation, and orientation rotates a
// source-frame vector into the destination frame.
func Passive(i instant.Instant, translation, velocity r3.Vec, orientation quat.Number, angularVelocity r3.Vec) Transform {
	return Transform{
		at:              i,
		translation:     translation,
		velocity:        velocity,
		orientation:     normalize(orientation),
		angularVelocity: angularVelocity,
		defined:         true,
	}
}

// Active constructs a transform from its active-convention parameters —
// translation and velocity expressed along the destination frame's axes,
// orientation
// rotating the destination frame's axes into the source frame's — by
// building the Passive transform with those parameters and inverting it.
func Active(i instant.Instant, translation, velocity r3.Vec, orientation quat.Number, angularVelocity r3.Vec) Transform {
	return Passive(i, translation, velocity, orientation, angularVelocity).Inverse()
}

// rotate applies the unit quaternion q to vector v: q·v·q⁻¹.
func rotate(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vec{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Compose returns the transform from inner's source frame straight to t's
// destination frame: if t is T_{C←B} and inner is T_{B←A}, Compose returns
// T_{C←A}. t and inner must share the same instant.
func (t Transform) Compose(inner Transform) (Transform, error) {
	if !t.defined || !inner.defined {
		return Undefined(), nil
	}
	if !t.at.Equal(inner.at) {
		return Undefined(), astroerr.New(astroerr.DomainError, "Transform.Compose: mismatched instants")
	}

	rotatedOuterTranslation := rotate(quat.Conj(inner.orientation), t.translation)
	translation := r3.Add(inner.translation, rotatedOuterTranslation)

	rotatedOuterVelocity := rotate(quat.Conj(inner.orientation), t.velocity)
	coriolis := r3.Cross(t.angularVelocity, inner.translation)
	velocity := r3.Add(r3.Add(inner.velocity, rotatedOuterVelocity), coriolis)

	orientation := quat.Mul(t.orientation, inner.orientation)

	angularVelocity := r3.Add(t.angularVelocity, rotate(t.orientation, inner.angularVelocity))

	return Transform{
		at:              t.at,
		translation:     translation,
		velocity:        velocity,
		orientation:     normalize(orientation),
		angularVelocity: angularVelocity,
		defined:         true,
	}, nil
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	if !t.defined {
		return Undefined()
	}
	rotatedTranslation := rotate(t.orientation, t.translation)
	newOrientation := quat.Conj(t.orientation)

	newTranslation := r3.Scale(-1, rotatedTranslation)
	newVelocity := r3.Add(
		r3.Scale(-1, rotate(t.orientation, t.velocity)),
		r3.Cross(t.angularVelocity, rotatedTranslation),
	)
	newAngularVelocity := r3.Scale(-1, rotate(newOrientation, t.angularVelocity))

	return Transform{
		at:              t.at,
		translation:     newTranslation,
		velocity:        newVelocity,
		orientation:     newOrientation,
		angularVelocity: newAngularVelocity,
		defined:         true,
	}
}

// ApplyToPosition maps a source-frame position x into the destination
// frame.
func (t Transform) ApplyToPosition(x r3.Vec) r3.Vec {
	return rotate(t.orientation, r3.Add(x, t.translation))
}

// ApplyToVelocity maps a source-frame (position, velocity) pair into the
// destination frame's velocity.
func (t Transform) ApplyToVelocity(x, v r3.Vec) r3.Vec {
	rotated := rotate(t.orientation, r3.Add(x, t.translation))
	return r3.Sub(rotate(t.orientation, r3.Add(v, t.velocity)), r3.Cross(t.angularVelocity, rotated))
}

// ApplyToVector maps a source-frame free vector (no translation term, e.g.
// a direction or a force) into the destination frame.
func (t Transform) ApplyToVector(v r3.Vec) r3.Vec {
	return rotate(t.orientation, v)
}

// Translation returns t's translation component.
func (t Transform) Translation() r3.Vec { return t.translation }

// Velocity returns t's velocity component.
func (t Transform) Velocity() r3.Vec { return t.velocity }

// Orientation returns t's orientation quaternion.
func (t Transform) Orientation() quat.Number { return t.orientation }

// AngularVelocity returns t's angular velocity component.
func (t Transform) AngularVelocity() r3.Vec { return t.angularVelocity }
