package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/utils"
)

// JointPoints returns the polyline drawn for the arm at q, in degrees: base, shoulder height,
// shoulder offset, upper arm start after its depth offset, elbow, forearm start after its depth
// offset, and tool. The last point equals Forward(q, links).
func JointPoints(q []float64, links referenceframe.Links) ([]r3.Vector, error) {
	tool, err := Forward(q, links)
	if err != nil {
		return nil, err
	}
	t1, t2 := utils.DegToRad(q[0]), utils.DegToRad(q[1])
	s1, c1 := math.Sincos(t1)
	l1, l2, l3 := links[0], links[1], links[2]

	// unit vectors: along the arm plane, and to its left (t1+pi/2)
	radial := r3.Vector{X: c1, Y: s1}
	lateral := r3.Vector{X: -s1, Y: c1}

	base := r3.Vector{}
	shoulder := r3.Vector{Z: l1.Vertical}
	offset := shoulder.Add(radial.Mul(l1.Horizontal))
	upperStart := offset.Add(lateral.Mul(l2.Depth))
	elbow := upperStart.Add(radial.Mul(l2.Vertical * math.Cos(t2))).Add(r3.Vector{Z: l2.Vertical * math.Sin(t2)})
	foreStart := elbow.Sub(lateral.Mul(l3.Depth))
	return []r3.Vector{base, shoulder, offset, upperStart, elbow, foreStart, tool}, nil
}
