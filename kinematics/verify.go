package kinematics

import (
	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/utils"
)

// VerifyTolerance is the largest position error, in mm, for which an IK solution counts as correct.
const VerifyTolerance = 0.1

// verifyDecimals is how many decimals the re-computed position is rounded to before comparison.
const verifyDecimals = 3

// Verification is the outcome of feeding one IK solution back through forward kinematics.
type Verification struct {
	Solution Solution
	Reached  r3.Vector
	Error    float64
	Correct  bool
}

// Verify solves IK for target and checks every solution by forward kinematics.
func Verify(target r3.Vector, links referenceframe.Links) ([]Verification, error) {
	solutions, err := Inverse(target, links)
	if err != nil {
		return nil, err
	}
	out := make([]Verification, 0, len(solutions))
	for _, sol := range solutions {
		reached, err := Forward(sol.Degrees(), links)
		if err != nil {
			return nil, err
		}
		reached = r3.Vector{
			X: utils.RoundTo(reached.X, verifyDecimals),
			Y: utils.RoundTo(reached.Y, verifyDecimals),
			Z: utils.RoundTo(reached.Z, verifyDecimals),
		}
		dist := reached.Sub(target).Norm()
		out = append(out, Verification{Solution: sol, Reached: reached, Error: dist, Correct: dist < VerifyTolerance})
	}
	return out, nil
}

// VerificationSummary aggregates a set of verifications.
type VerificationSummary struct {
	Count     int
	Correct   int
	MaxError  float64
	MeanError float64
}

// AllCorrect reports whether there was at least one solution and every solution was correct.
func (s VerificationSummary) AllCorrect() bool {
	return s.Count > 0 && s.Correct == s.Count
}

// Summarize aggregates verifications. An empty input gives a zero summary.
func Summarize(vs []Verification) VerificationSummary {
	summary := VerificationSummary{
		Count:   len(vs),
		Correct: lo.CountBy(vs, func(v Verification) bool { return v.Correct }),
	}
	if len(vs) == 0 {
		return summary
	}
	errs := stats.Float64Data(lo.Map(vs, func(v Verification, _ int) float64 { return v.Error }))
	// Max and Mean only fail on empty input.
	summary.MaxError, _ = errs.Max()
	summary.MeanError, _ = errs.Mean()
	return summary
}
