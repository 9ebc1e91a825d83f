package transform

import (
	"math"
	"testing"

	"github.com/anupshinde/astrocore/duration"
	"github.com/anupshinde/astrocore/instant"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func vecNear(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

// rotationAboutZ returns the unit quaternion rotating a vector by angle
// radians about +Z.
func rotationAboutZ(angle float64) quat.Number {
	return quat.Number{Real: math.Cos(angle / 2), Kmag: math.Sin(angle / 2)}
}

func TestIdentityApply(t *testing.T) {
	i := instant.J2000()
	id := Identity(i)
	x := r3.Vec{X: 1, Y: 2, Z: 3}
	got := id.ApplyToPosition(x)
	if !vecNear(got, x, 1e-12) {
		t.Errorf("Identity.ApplyToPosition(%v) = %v, want unchanged", x, got)
	}
}

func TestRotationApply(t *testing.T) {
	i := instant.J2000()
	q := rotationAboutZ(math.Pi / 2)
	tr := Passive(i, r3.Vec{}, r3.Vec{}, q, r3.Vec{})

	x := r3.Vec{X: 1, Y: 0, Z: 0}
	got := tr.ApplyToPosition(x)
	want := r3.Vec{X: 0, Y: 1, Z: 0}
	if !vecNear(got, want, 1e-9) {
		t.Errorf("90deg rotation about Z: got %v, want %v", got, want)
	}
}

func TestInverseUndoesTransform(t *testing.T) {
	i := instant.J2000()
	q := rotationAboutZ(0.7)
	tr := Passive(i, r3.Vec{X: 10, Y: -5, Z: 2}, r3.Vec{X: 1, Y: 1, Z: 0}, q, r3.Vec{X: 0, Y: 0, Z: 0.1})

	x := r3.Vec{X: 3, Y: 4, Z: 5}
	forward := tr.ApplyToPosition(x)

	back := tr.Inverse().ApplyToPosition(forward)
	if !vecNear(back, x, 1e-9) {
		t.Errorf("Inverse did not undo transform: got %v, want %v", back, x)
	}
}

func TestComposeIdentity(t *testing.T) {
	i := instant.J2000()
	q := rotationAboutZ(1.2)
	tr := Passive(i, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{}, q, r3.Vec{})
	id := Identity(i)

	composed, err := tr.Compose(id)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	x := r3.Vec{X: 5, Y: 6, Z: 7}
	if !vecNear(composed.ApplyToPosition(x), tr.ApplyToPosition(x), 1e-9) {
		t.Error("Compose with Identity changed the transform")
	}
}

func TestComposeMismatchedInstantsErrors(t *testing.T) {
	oneHour, err := duration.FromHours(1)
	if err != nil {
		t.Fatalf("FromHours: %v", err)
	}
	a := Identity(instant.J2000())
	b := Identity(instant.J2000().Add(oneHour))
	if _, err := a.Compose(b); err == nil {
		t.Error("expected error composing transforms at different instants")
	}
}

func TestComposeChainsRotations(t *testing.T) {
	i := instant.J2000()
	outer := Passive(i, r3.Vec{}, r3.Vec{}, rotationAboutZ(math.Pi/2), r3.Vec{})
	inner := Passive(i, r3.Vec{}, r3.Vec{}, rotationAboutZ(math.Pi/2), r3.Vec{})

	composed, err := outer.Compose(inner)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	x := r3.Vec{X: 1, Y: 0, Z: 0}
	got := composed.ApplyToPosition(x)
	want := r3.Vec{X: -1, Y: 0, Z: 0} // two 90deg rotations = 180deg
	if !vecNear(got, want, 1e-9) {
		t.Errorf("chained rotation: got %v, want %v", got, want)
	}
}

func TestApplyToVectorIgnoresTranslation(t *testing.T) {
	i := instant.J2000()
	tr := Passive(i, r3.Vec{X: 100, Y: 100, Z: 100}, r3.Vec{}, quat.Number{Real: 1}, r3.Vec{})
	v := r3.Vec{X: 1, Y: 0, Z: 0}
	got := tr.ApplyToVector(v)
	if !vecNear(got, v, 1e-12) {
		t.Errorf("ApplyToVector should ignore translation: got %v, want %v", got, v)
	}
}

func TestUndefinedPropagation(t *testing.T) {
	u := Undefined()
	if u.IsDefined() {
		t.Error("Undefined() should not be defined")
	}
	composed, err := u.Compose(Identity(instant.J2000()))
	if err != nil {
		t.Fatalf("Compose with undefined should not error: %v", err)
	}
	if composed.IsDefined() {
		t.Error("Compose involving an undefined Transform should stay undefined")
	}
}
