package kinematics

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/utils"
)

// BaseBranch selects which way the base faces the target.
type BaseBranch int

// The two base branches.
const (
	BaseFront BaseBranch = iota
	BaseBack
)

func (b BaseBranch) String() string {
	if b == BaseBack {
		return "back"
	}
	return "front"
}

// ElbowBranch selects the sign of the elbow angle's sine.
type ElbowBranch int

// The two elbow branches.
const (
	ElbowUp ElbowBranch = iota
	ElbowDown
)

func (e ElbowBranch) String() string {
	if e == ElbowDown {
		return "elbow down"
	}
	return "elbow up"
}

// Branch tags an inverse kinematics solution with the choices that produced it.
type Branch struct {
	Base  BaseBranch
	Elbow ElbowBranch
}

func (b Branch) String() string {
	return fmt.Sprintf("%s, %s", b.Base, b.Elbow)
}

// Solution is one joint configuration reaching an IK target. Angles are in radians.
type Solution struct {
	Branch Branch
	Angles [referenceframe.DoF]float64
}

// Degrees returns the solution's angles in degrees.
func (s Solution) Degrees() []float64 {
	return utils.RadiansToDegrees(s.Angles[:])
}

// Inverse returns every joint configuration placing the tool at target, ordered by base branch
// and then elbow branch. There are at most four; an unreachable target yields none and is not
// an error. Duplicates, e.g. on a workspace boundary, are kept.
func Inverse(target r3.Vector, links referenceframe.Links) ([]Solution, error) {
	if len(links) != referenceframe.DoF {
		return nil, referenceframe.NewIncorrectLinkCountError(len(links), referenceframe.DoF)
	}
	q1 := math.Atan2(target.Y, target.X)
	solutions := make([]Solution, 0, 4)
	for _, base := range []BaseBranch{BaseFront, BaseBack} {
		baseAngle := q1
		if base == BaseBack {
			baseAngle = q1 - math.Pi
		}
		for _, elbow := range []ElbowBranch{ElbowUp, ElbowDown} {
			if sol, ok := solveBranch(target, links, baseAngle, Branch{base, elbow}); ok {
				solutions = append(solutions, sol)
			}
		}
	}
	return solutions, nil
}

// solveBranch reduces the problem to a planar 2-link one in the vertical plane at angle q1.
func solveBranch(target r3.Vector, links referenceframe.Links, q1 float64, branch Branch) (Solution, bool) {
	s1, c1 := math.Sincos(q1)
	z1 := c1*target.X + s1*target.Y - links[0].Horizontal
	z2 := target.Z - links[0].Vertical
	upper, fore := links[1].Vertical, links[2].Vertical

	c3 := (z1*z1 + z2*z2 - upper*upper - fore*fore) / (2 * upper * fore)
	if math.IsNaN(c3) || c3 < -1 || c3 > 1 {
		return Solution{}, false
	}
	c3 = utils.Clamp(c3, -1, 1)
	s3 := math.Sqrt(1 - c3*c3)
	if branch.Elbow == ElbowDown {
		s3 = -s3
	}
	q3 := math.Atan2(s3, c3)

	b1 := upper + fore*c3
	b2 := fore * math.Sin(q3)
	den := b1*b1 + b2*b2
	if den == 0 {
		return Solution{}, false
	}
	s2 := (b1*z2 - b2*z1) / den
	c2 := (b1*z1 + b2*z2) / den
	q2 := math.Atan2(s2, c2)
	return Solution{Branch: branch, Angles: [referenceframe.DoF]float64{q1, q2, q3}}, true
}
