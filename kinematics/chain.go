// Package kinematics implements the position and velocity kinematics of a 3-DOF articulated arm
// described by a referenceframe.Model.
//
// Joint angles cross the package boundary in degrees and are converted to radians immediately
// before any trigonometry. Positions are in millimetres. Every function is pure.
package kinematics

import (
	"github.com/golang/geo/r3"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/spatialmath"
	"go.viam.com/rx160/utils"
)

// BuildChain returns one link transform per DH row for the joint angles q, in degrees. A 0 angle
// is appended for the fixed tool row, so len(q)+1 must equal len(dh). A non-nil policy rounds
// every transform for display; callers that compute with the chain pass nil.
func BuildChain(q []float64, dh referenceframe.DHTable, policy *spatialmath.RoundingPolicy) ([]*spatialmath.Transform, error) {
	if len(q)+1 != len(dh) {
		return nil, referenceframe.NewIncorrectDoFError(len(q), len(dh)-1)
	}
	angles := append(utils.DegreesToRadians(q), 0)
	chain := make([]*spatialmath.Transform, 0, len(dh))
	for i, row := range dh {
		tf := spatialmath.NewLinkTransform(angles[i], row.A, row.Alpha, row.R)
		if policy != nil {
			tf = tf.Rounded(*policy)
		}
		chain = append(chain, tf)
	}
	return chain, nil
}

// ComposeChain multiplies the chain left to right, giving the base-to-tool transform. An empty
// chain composes to the identity.
func ComposeChain(chain []*spatialmath.Transform) *spatialmath.Transform {
	out := spatialmath.NewIdentityTransform()
	for _, tf := range chain {
		out = out.Mul(tf)
	}
	return out
}

// CumulativeChain returns T_{0,1}, T_{0,2} ... T_{0,n}: the pose of every frame in the base frame.
func CumulativeChain(chain []*spatialmath.Transform) []*spatialmath.Transform {
	frames := make([]*spatialmath.Transform, 0, len(chain))
	acc := spatialmath.NewIdentityTransform()
	for _, tf := range chain {
		acc = acc.Mul(tf)
		frames = append(frames, acc)
	}
	return frames
}

// ExtractPosition returns the translation of a homogeneous transform.
func ExtractPosition(tf *spatialmath.Transform) r3.Vector {
	return tf.Point()
}

// ChainPosition is ExtractPosition(ComposeChain(BuildChain(q, dh, nil))).
func ChainPosition(q []float64, dh referenceframe.DHTable) (r3.Vector, error) {
	chain, err := BuildChain(q, dh, nil)
	if err != nil {
		return r3.Vector{}, err
	}
	return ExtractPosition(ComposeChain(chain)), nil
}
