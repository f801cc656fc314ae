package drift

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertNearEps(t *testing.T, name string, got, want, eps float64) {
	t.Helper()
	if math.Abs(got-want) > eps {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, eps)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func TestPlaceTransformTranslation(t *testing.T) {
	assertMatrix(t, "place", placeTransform(10, 20, 0), [6]float64{1, 0, 0, 1, 10, 20})
}

func TestPlaceTransformRotation90(t *testing.T) {
	// cos(90)=0, sin(90)=1 → a=0, b=1, c=-1, d=0
	assertMatrix(t, "rot90", placeTransform(0, 0, math.Pi/2), [6]float64{0, 1, -1, 0, 0, 0})
}

func TestScaleTransform(t *testing.T) {
	assertMatrix(t, "scale", scaleTransform(2), [6]float64{2, 0, 0, 2, 0, 0})
}

func TestMultiplyAffineIdentity(t *testing.T) {
	m := placeTransform(3, 4, 0.7)
	assertMatrix(t, "I*m", multiplyAffine(identityTransform, m), m)
	assertMatrix(t, "m*I", multiplyAffine(m, identityTransform), m)
}

func TestMultiplyAffineScaleThenPlace(t *testing.T) {
	// The DPR base applied to a placed shape scales its translation too.
	m := multiplyAffine(scaleTransform(2), placeTransform(10, 20, 0))
	assertMatrix(t, "base*place", m, [6]float64{2, 0, 0, 2, 20, 40})
}

func TestTransformPoint(t *testing.T) {
	m := placeTransform(100, 50, math.Pi/2)
	x, y := transformPoint(m, 1, 0)
	assertNear(t, "x", x, 100)
	assertNear(t, "y", y, 51)
}

func TestRotateRoundTrip(t *testing.T) {
	x, y := rotate(3, -4, 1.1)
	x, y = rotate(x, y, -1.1)
	assertNear(t, "x", x, 3)
	assertNear(t, "y", y, -4)
}
