package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestLinkTransformZeroTwist(t *testing.T) {
	tf := NewLinkTransform(0, 0, 0, 550)
	test.That(t, tf.Point(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 550})
	test.That(t, tf.ZAxis(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 1})
	test.That(t, tf.At(3, 3), test.ShouldEqual, 1.0)

	tf = NewLinkTransform(math.Pi/2, 825, 0, 0)
	test.That(t, tf.At(0, 0), test.ShouldAlmostEqual, 0)
	test.That(t, tf.At(0, 1), test.ShouldAlmostEqual, -1)
	test.That(t, tf.At(1, 0), test.ShouldAlmostEqual, 1)
	test.That(t, tf.Point().X, test.ShouldEqual, 825.0)
}

func TestLinkTransformTwisted(t *testing.T) {
	// alpha = pi/2 turns the joint axis from z onto -y of the previous frame.
	tf := NewLinkTransform(0, 150, math.Pi/2, 100)
	test.That(t, R3VectorAlmostEqual(tf.ZAxis(), r3.Vector{X: 0, Y: -1, Z: 0}, 1e-12), test.ShouldBeTrue)
	test.That(t, R3VectorAlmostEqual(tf.Point(), r3.Vector{X: 150, Y: -100, Z: 0}, 1e-9), test.ShouldBeTrue)

	// rotation part is orthonormal for any parameters
	tf = NewLinkTransform(0.3, 10, -1.1, 7)
	x, y, z := tf.Axis(0), tf.Axis(1), tf.Axis(2)
	test.That(t, x.Norm(), test.ShouldAlmostEqual, 1)
	test.That(t, x.Dot(y), test.ShouldAlmostEqual, 0)
	test.That(t, R3VectorAlmostEqual(x.Cross(y), z, 1e-12), test.ShouldBeTrue)
}

func TestTransformMul(t *testing.T) {
	a := NewLinkTransform(0, 0, 0, 550)
	b := NewLinkTransform(0, 150, math.Pi/2, 0)
	c := a.Mul(b)
	test.That(t, R3VectorAlmostEqual(c.Point(), r3.Vector{X: 150, Y: 0, Z: 550}, 1e-9), test.ShouldBeTrue)

	// operands are not modified
	test.That(t, a.Point(), test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 550})
	test.That(t, NewIdentityTransform().Mul(c).ApproxEqual(c, 1e-12), test.ShouldBeTrue)
	test.That(t, c.ApproxEqual(a, 1e-12), test.ShouldBeFalse)
}

func TestRoundingPolicy(t *testing.T) {
	p := RoundingPolicy{Decimals: 2, ZeroThreshold: 1e-7}
	test.That(t, p.Apply(6.123e-17), test.ShouldEqual, 0.0)
	test.That(t, p.Apply(-1e-8), test.ShouldEqual, 0.0)
	test.That(t, math.Signbit(p.Apply(-0.001)), test.ShouldBeFalse)
	test.That(t, p.Apply(0.70710678), test.ShouldEqual, 0.71)
	test.That(t, p.Apply(-824.996), test.ShouldEqual, -825.0)

	tf := NewLinkTransform(math.Pi/2, 0, math.Pi/2, 0).Rounded(p)
	rows := tf.Rows()
	test.That(t, rows[0], test.ShouldResemble, []float64{0, -1, 0, 0})
	test.That(t, rows[1], test.ShouldResemble, []float64{0, 0, -1, 0})
	test.That(t, rows[2], test.ShouldResemble, []float64{1, 0, 0, 0})
	test.That(t, rows[3], test.ShouldResemble, []float64{0, 0, 0, 1})
}
