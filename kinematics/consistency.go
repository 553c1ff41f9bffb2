package kinematics

import (
	"math/rand"

	"github.com/pkg/errors"

	"go.viam.com/rx160/referenceframe"
)

// CheckConsistency compares the closed-form forward kinematics with the composed DH chain at the
// zero pose and at samples pseudo-random poses drawn from [-180, 180) degrees per joint. It
// returns an error describing the worst pose if any deviation reaches tolerance, in mm.
func CheckConsistency(model *referenceframe.Model, samples int, seed int64, tolerance float64) error {
	if err := model.Validate(); err != nil {
		return err
	}
	//nolint:gosec
	rnd := rand.New(rand.NewSource(seed))
	poses := [][]float64{{0, 0, 0}}
	for i := 0; i < samples; i++ {
		poses = append(poses, []float64{rnd.Float64()*360 - 180, rnd.Float64()*360 - 180, rnd.Float64()*360 - 180})
	}

	worst, worstPose := 0., []float64(nil)
	for _, q := range poses {
		closed, err := Forward(q, model.Links)
		if err != nil {
			return err
		}
		chained, err := ChainPosition(q, model.DH)
		if err != nil {
			return err
		}
		if dev := closed.Sub(chained).Norm(); dev > worst || worstPose == nil {
			worst, worstPose = dev, q
		}
	}
	if worst >= tolerance {
		return errors.Errorf(
			"model %q: link geometry and DH table disagree by %.6g mm at joints %v (tolerance %g mm)",
			model.Name, worst, worstPose, tolerance)
	}
	return nil
}
