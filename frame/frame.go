// Package frame implements the reference frame graph: a registry of named
// Frames related to each other by parent/child Provider links, a manager
// singleton that resolves any-frame-to-any-frame transforms through their
// lowest common ancestor, and a small library of Provider implementations
// (static, fixed-epoch, dynamic, and the IAU-theory-driven GCRF/CIRF/TIRF/
// ITRF/TEME chain).
//
// The frame graph and its lowest-common-ancestor transform resolution are
// grounded on OpenSpaceToolkit Physics's Coordinate/Frame.cpp and
// Coordinate/Frame/Manager.cpp; this package folds what the original
// splits across Frame, Frame::Manager, and Frame::Provider::* into one
// package, the way this module's teacher keeps each concern to a flat set
// of sibling files rather than a deep namespace.
package frame

import (
	"github.com/anupshinde/astrocore/astroerr"
	"github.com/anupshinde/astrocore/instant"
	"github.com/anupshinde/astrocore/transform"
	"gonum.org/v1/gonum/spatial/r3"
)

// Provider supplies the transform from a Frame to its parent at a given
// instant. A root frame (no parent) is still required to have a Provider
// — by convention Identity — so that isDefined (name set && provider set)
// matches the original's definedness rule.
type Provider interface {
	TransformAt(i instant.Instant) (transform.Transform, error)
}

// Frame is a named node in the reference frame graph. Frames are always
// accessed through pointers returned by Construct or a well-known
// constructor; the zero value is not meaningful.
type Frame struct {
	name          string
	quasiInertial bool
	parent        *Frame
	provider      Provider
}

// Name returns f's registered name.
func (f *Frame) Name() string { return f.name }

// IsQuasiInertial reports whether f was registered as quasi-inertial.
func (f *Frame) IsQuasiInertial() bool { return f.quasiInertial }

// HasParent reports whether f has a parent frame.
func (f *Frame) HasParent() bool { return f.parent != nil }

// Parent returns f's parent frame, or nil if f is a root.
func (f *Frame) Parent() *Frame { return f.parent }

// Provider returns the Provider f was constructed with, the source of its
// parent-relative transform.
func (f *Frame) Provider() Provider { return f.provider }

// Depth returns the number of parent links between f and the root of its
// frame tree.
func (f *Frame) Depth() int {
	d := 0
	for cur := f; cur.parent != nil; cur = cur.parent {
		d++
	}
	return d
}

// AccessAncestor walks degree parent links up from f and returns the
// frame reached. degree 0 returns f itself.
func (f *Frame) AccessAncestor(degree int) (*Frame, error) {
	cur := f
	for k := 0; k < degree; k++ {
		if cur.parent == nil {
			return nil, astroerr.New(astroerr.DomainError, "Frame.AccessAncestor: degree exceeds depth")
		}
		cur = cur.parent
	}
	return cur, nil
}

func findCommonAncestor(a, b *Frame) (*Frame, error) {
	da, db := a.Depth(), b.Depth()
	var err error
	if da > db {
		a, err = a.AccessAncestor(da - db)
	} else if db > da {
		b, err = b.AccessAncestor(db - da)
	}
	if err != nil {
		return nil, err
	}
	for a != b {
		if a.parent == nil || b.parent == nil {
			return nil, astroerr.New(astroerr.DomainError, "Frame: no common ancestor")
		}
		a, b = a.parent, b.parent
	}
	return a, nil
}

// accumulate composes the provider transforms from f up to (but not
// including crossing) ancestor, returning T_{ancestor←f}.
func accumulate(f, ancestor *Frame, i instant.Instant) (transform.Transform, error) {
	acc := transform.Identity(i)
	cur := f
	for cur != ancestor {
		if cur.parent == nil {
			return transform.Undefined(), astroerr.New(astroerr.DomainError, "Frame: ancestor not reached")
		}
		t, err := cur.provider.TransformAt(i)
		if err != nil {
			return transform.Undefined(), err
		}
		acc, err = t.Compose(acc)
		if err != nil {
			return transform.Undefined(), err
		}
		cur = cur.parent
	}
	return acc, nil
}

// TransformTo returns the transform from f to target at instant i,
// resolved through their lowest common ancestor in the frame graph and
// served from the manager's transform cache when available.
func (f *Frame) TransformTo(target *Frame, i instant.Instant) (transform.Transform, error) {
	if f == target {
		return transform.Identity(i), nil
	}
	if cached, ok := managerInstance().cacheGet(f.name, target.name, i); ok {
		return cached, nil
	}

	ancestor, err := findCommonAncestor(f, target)
	if err != nil {
		return transform.Undefined(), err
	}
	toAncestorFromF, err := accumulate(f, ancestor, i)
	if err != nil {
		return transform.Undefined(), err
	}
	toAncestorFromTarget, err := accumulate(target, ancestor, i)
	if err != nil {
		return transform.Undefined(), err
	}
	result, err := toAncestorFromTarget.Inverse().Compose(toAncestorFromF)
	if err != nil {
		return transform.Undefined(), err
	}

	managerInstance().cachePut(f.name, target.name, i, result)
	return result, nil
}

// OriginIn returns f's origin expressed in target at instant i.
func (f *Frame) OriginIn(target *Frame, i instant.Instant) (r3.Vec, error) {
	t, err := f.TransformTo(target, i)
	if err != nil {
		return r3.Vec{}, err
	}
	return t.ApplyToPosition(r3.Vec{}), nil
}

// VelocityIn returns the velocity of f's origin (at rest in f) expressed
// in target at instant i.
func (f *Frame) VelocityIn(target *Frame, i instant.Instant) (r3.Vec, error) {
	t, err := f.TransformTo(target, i)
	if err != nil {
		return r3.Vec{}, err
	}
	return t.ApplyToVelocity(r3.Vec{}, r3.Vec{}), nil
}

// AxesIn returns f's basis — the images of its unit X, Y, Z axes — expressed
// in target at instant i.
func (f *Frame) AxesIn(target *Frame, i instant.Instant) (x, y, z r3.Vec, err error) {
	t, err := f.TransformTo(target, i)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, r3.Vec{}, err
	}
	x = t.ApplyToVector(r3.Vec{X: 1})
	y = t.ApplyToVector(r3.Vec{Y: 1})
	z = t.ApplyToVector(r3.Vec{Z: 1})
	return x, y, z, nil
}
