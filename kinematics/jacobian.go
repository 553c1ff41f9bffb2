package kinematics

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/spatialmath"
)

// Twist is a tool velocity: linear in mm/s and angular in rad/s, both in the base frame.
type Twist struct {
	Linear  r3.Vector
	Angular r3.Vector
}

// Slice returns the twist as [vx, vy, vz, wx, wy, wz].
func (tw Twist) Slice() []float64 {
	return []float64{tw.Linear.X, tw.Linear.Y, tw.Linear.Z, tw.Angular.X, tw.Angular.Y, tw.Angular.Z}
}

// TwistFromSlice is the inverse of Twist.Slice.
func TwistFromSlice(v []float64) (Twist, error) {
	if len(v) != 6 {
		return Twist{}, errors.Errorf("twist must have 6 components, got %d", len(v))
	}
	return Twist{
		Linear:  r3.Vector{X: v[0], Y: v[1], Z: v[2]},
		Angular: r3.Vector{X: v[3], Y: v[4], Z: v[5]},
	}, nil
}

// GeometricJacobian returns the 6xDoF geometric Jacobian for an unrounded chain of DoF joint
// transforms followed by the tool transform. Column i holds z_i x (o_t - o_i) over z_i, where
// z_i and o_i are the axis and origin of joint i and o_t is the tool origin.
func GeometricJacobian(chain []*spatialmath.Transform) (*mat.Dense, error) {
	if len(chain) != referenceframe.DoF+1 {
		return nil, referenceframe.NewIncorrectChainLengthError(len(chain), referenceframe.DoF+1)
	}
	frames := CumulativeChain(chain)
	tool := frames[len(frames)-1].Point()

	jac := mat.NewDense(6, referenceframe.DoF, nil)
	for i := 0; i < referenceframe.DoF; i++ {
		axis := frames[i].ZAxis()
		linear := axis.Cross(tool.Sub(frames[i].Point()))
		jac.SetCol(i, []float64{linear.X, linear.Y, linear.Z, axis.X, axis.Y, axis.Z})
	}
	return jac, nil
}

// JacobianAt builds the chain for q, in degrees, and returns its geometric Jacobian.
func JacobianAt(q []float64, dh referenceframe.DHTable) (*mat.Dense, error) {
	chain, err := BuildChain(q, dh, nil)
	if err != nil {
		return nil, err
	}
	return GeometricJacobian(chain)
}

// ForwardVelocity maps joint velocities dq, in rad/s, to the tool twist J*dq.
func ForwardVelocity(dq []float64, jac mat.Matrix) (Twist, error) {
	rows, cols := jac.Dims()
	if rows != 6 {
		return Twist{}, errors.Errorf("jacobian must have 6 rows, got %d", rows)
	}
	if len(dq) != cols {
		return Twist{}, referenceframe.NewIncorrectDoFError(len(dq), cols)
	}
	var out mat.VecDense
	out.MulVec(jac, mat.NewVecDense(len(dq), append([]float64(nil), dq...)))
	return TwistFromSlice(out.RawVector().Data)
}

// InverseVelocity returns the joint velocities, in rad/s, best producing the twist in the least
// squares sense: pinv(J) * twist. Accuracy degrades near singular configurations; no attempt is
// made to detect them.
func InverseVelocity(twist Twist, jac mat.Matrix) ([]float64, error) {
	if rows, _ := jac.Dims(); rows != 6 {
		return nil, errors.Errorf("jacobian must have 6 rows, got %d", rows)
	}
	pinv, err := PseudoInverse(jac)
	if err != nil {
		return nil, err
	}
	var dq mat.VecDense
	dq.MulVec(pinv, mat.NewVecDense(6, twist.Slice()))
	return dq.RawVector().Data, nil
}

// PseudoInverse returns the Moore-Penrose pseudo-inverse of m, computed from its thin SVD.
// Singular values below max(rows, cols) * eps * sigma_max are treated as zero.
func PseudoInverse(m mat.Matrix) (*mat.Dense, error) {
	rows, cols := m.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, errors.New("singular value decomposition failed")
	}
	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tolerance := 0.
	if len(values) > 0 {
		tolerance = float64(max(rows, cols)) * epsilon * floats.Max(values)
	}
	inverted := make([]float64, len(values))
	for i, s := range values {
		if s > tolerance {
			inverted[i] = 1 / s
		}
	}

	// pinv = V * diag(1/s) * U^T
	var vs mat.Dense
	vs.Mul(&v, mat.NewDiagDense(len(inverted), inverted))
	pinv := mat.NewDense(cols, rows, nil)
	pinv.Mul(&vs, u.T())
	return pinv, nil
}

// epsilon is the float64 machine epsilon.
var epsilon = math.Nextafter(1, 2) - 1
