package kinematics

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/utils"
)

// Forward computes the tool position for joint angles q, in degrees, from the closed-form
// model of the arm's link offsets.
func Forward(q []float64, links referenceframe.Links) (r3.Vector, error) {
	if err := referenceframe.CheckJoints(q); err != nil {
		return r3.Vector{}, err
	}
	if len(links) != referenceframe.DoF {
		return r3.Vector{}, referenceframe.NewIncorrectLinkCountError(len(links), referenceframe.DoF)
	}
	t1, t2, t3 := utils.DegToRad(q[0]), utils.DegToRad(q[1]), utils.DegToRad(q[2])
	l1, l2, l3 := links[0], links[1], links[2]

	s1, c1 := math.Sincos(t1)
	// The depth offsets of links 2 and 3 point to either side of the arm plane, at t1+pi/2 and
	// t1-pi/2. They are expanded so that equal offsets cancel exactly.
	reach := l1.Horizontal + l2.Vertical*math.Cos(t2) + l3.Vertical*math.Cos(t2+t3)
	x := c1*reach - l2.Depth*s1 + l3.Depth*s1
	y := s1*reach + l2.Depth*c1 - l3.Depth*c1
	z := l1.Vertical + l2.Vertical*math.Sin(t2) + l3.Vertical*math.Sin(t2+t3)
	return r3.Vector{X: x, Y: y, Z: z}, nil
}
