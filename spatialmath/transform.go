package spatialmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transform is an immutable 4x4 homogeneous transform. Every method returns a new value.
type Transform struct {
	mat mgl64.Mat4
}

// NewIdentityTransform returns the identity transform.
func NewIdentityTransform() *Transform {
	return &Transform{mgl64.Ident4()}
}

// NewTransformFromMat4 wraps a homogeneous matrix.
func NewTransformFromMat4(m mgl64.Mat4) *Transform {
	return &Transform{m}
}

// NewLinkTransform returns the modified Denavit-Hartenberg transform from link i-1 to link i
// for joint angle q, link length a, link twist alpha (both angles in radians) and link offset r.
//
//	| cos q           -sin q           0            a           |
//	| sin q cos alpha  cos q cos alpha -sin alpha  -r sin alpha |
//	| sin q sin alpha  cos q sin alpha  cos alpha   r cos alpha |
//	| 0                0                0           1           |
func NewLinkTransform(q, a, alpha, r float64) *Transform {
	sq, cq := math.Sincos(q)
	sa, ca := math.Sincos(alpha)
	// mgl64 matrices are column major.
	return &Transform{mgl64.Mat4{
		cq, sq * ca, sq * sa, 0,
		-sq, cq * ca, cq * sa, 0,
		0, -sa, ca, 0,
		a, -r * sa, r * ca, 1,
	}}
}

// Mul returns t * o, i.e. o expressed in the frame t maps from.
func (t *Transform) Mul(o *Transform) *Transform {
	return &Transform{t.mat.Mul4(o.mat)}
}

// At returns the entry at row, col.
func (t *Transform) At(row, col int) float64 {
	return t.mat.At(row, col)
}

// Mat4 returns a copy of the underlying matrix.
func (t *Transform) Mat4() mgl64.Mat4 {
	return t.mat
}

// Point returns the translation column.
func (t *Transform) Point() r3.Vector {
	return t.Axis(3)
}

// Axis returns the first three entries of column col. Columns 0-2 are the frame's x, y and z
// axes expressed in the parent frame.
func (t *Transform) Axis(col int) r3.Vector {
	c := t.mat.Col(col)
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
}

// ZAxis returns the frame's z axis, which is the rotation axis of a revolute DH joint.
func (t *Transform) ZAxis() r3.Vector {
	return t.Axis(2)
}

// Rows returns the matrix as four row slices.
func (t *Transform) Rows() [][]float64 {
	rows := make([][]float64, 4)
	for r := range rows {
		rows[r] = make([]float64, 4)
		for c := range rows[r] {
			rows[r][c] = t.mat.At(r, c)
		}
	}
	return rows
}

// Rounded returns a copy with the policy applied to every entry.
func (t *Transform) Rounded(policy RoundingPolicy) *Transform {
	var m mgl64.Mat4
	for i, v := range t.mat {
		m[i] = policy.Apply(v)
	}
	return &Transform{m}
}

// ApproxEqual reports whether every entry of t and o differ by less than epsilon.
func (t *Transform) ApproxEqual(o *Transform, epsilon float64) bool {
	for i := range t.mat {
		if math.Abs(t.mat[i]-o.mat[i]) >= epsilon {
			return false
		}
	}
	return true
}

func (t *Transform) String() string {
	return fmt.Sprintf("%v", t.Rows())
}

// RoundingPolicy controls how transforms are prepared for display. Values whose magnitude is
// below ZeroThreshold become exactly 0, everything else is rounded to Decimals places.
type RoundingPolicy struct {
	Decimals      int     `json:"decimals"`
	ZeroThreshold float64 `json:"zero_threshold"`
}

// DefaultRoundingPolicy rounds to 2 decimals and snaps values under 1e-7 to zero.
var DefaultRoundingPolicy = RoundingPolicy{Decimals: 2, ZeroThreshold: 1e-7}

// Apply rounds a single value.
func (p RoundingPolicy) Apply(v float64) float64 {
	if math.Abs(v) < p.ZeroThreshold {
		return 0
	}
	scale := math.Pow(10, float64(p.Decimals))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		// avoid printing -0
		return 0
	}
	return rounded
}

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}
