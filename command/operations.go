package command

import (
	"github.com/golang/geo/r3"

	"go.viam.com/rx160/kinematics"
)

// The methods below compute the payload of each operation from explicit inputs. Dispatch uses
// them after resolving inputs from the request and the session history; the HTTP endpoints call
// them directly.

// Matrices returns the link, cumulative and tool transforms at q degrees. Link transforms are
// built with the display rounding policy; products are taken over the exact chain and rounded
// afterwards.
func (d *Dispatcher) Matrices(q []float64) (MatricesData, error) {
	rounded, err := kinematics.BuildChain(q, d.model.DH, &d.display)
	if err != nil {
		return MatricesData{}, err
	}
	chain, err := kinematics.BuildChain(q, d.model.DH, nil)
	if err != nil {
		return MatricesData{}, err
	}
	data := MatricesData{
		Joints:     q,
		Links:      make([][][]float64, 0, len(rounded)),
		Cumulative: make([][][]float64, 0, len(chain)),
		Tool:       kinematics.ComposeChain(chain).Rounded(d.display).Rows(),
	}
	for _, tf := range rounded {
		data.Links = append(data.Links, tf.Rows())
	}
	for _, tf := range kinematics.CumulativeChain(chain) {
		data.Cumulative = append(data.Cumulative, tf.Rounded(d.display).Rows())
	}
	return data, nil
}

// Forward returns the end effector position at q degrees.
func (d *Dispatcher) Forward(q []float64) (ForwardData, error) {
	pos, err := kinematics.Forward(q, d.model.Links)
	if err != nil {
		return ForwardData{}, err
	}
	return ForwardData{Joints: q, Position: pos}, nil
}

// Inverse returns every joint solution reaching target. An unreachable target gives no solutions
// and no error.
func (d *Dispatcher) Inverse(target r3.Vector) (InverseData, error) {
	sols, err := kinematics.Inverse(target, d.model.Links)
	if err != nil {
		return InverseData{}, err
	}
	return InverseData{Position: target, Solutions: solutionData(sols)}, nil
}

// Jacobian returns the geometric Jacobian at q degrees, rounded for display. When dq is not nil
// the end effector twist it produces is included.
func (d *Dispatcher) Jacobian(q, dq []float64) (JacobianData, error) {
	jac, err := kinematics.JacobianAt(q, d.model.DH)
	if err != nil {
		return JacobianData{}, err
	}
	data := JacobianData{Joints: q, Jacobian: denseRows(jac, d.display)}
	if dq != nil {
		twist, err := kinematics.ForwardVelocity(dq, jac)
		if err != nil {
			return JacobianData{}, err
		}
		data.JointVelocities = dq
		data.Twist = twist.Slice()
	}
	return data, nil
}

// InverseVelocity returns the joint velocities producing twist at q degrees.
func (d *Dispatcher) InverseVelocity(q, twist []float64) (InverseVelocityData, error) {
	tw, err := kinematics.TwistFromSlice(twist)
	if err != nil {
		return InverseVelocityData{}, err
	}
	jac, err := kinematics.JacobianAt(q, d.model.DH)
	if err != nil {
		return InverseVelocityData{}, err
	}
	dq, err := kinematics.InverseVelocity(tw, jac)
	if err != nil {
		return InverseVelocityData{}, err
	}
	return InverseVelocityData{Joints: q, Twist: twist, JointVelocities: dq}, nil
}

// Verify checks every IK solution of target against forward kinematics.
func (d *Dispatcher) Verify(target r3.Vector) (VerifyData, error) {
	results, err := kinematics.Verify(target, d.model.Links)
	if err != nil {
		return VerifyData{}, err
	}
	data := VerifyData{Position: target, Results: make([]VerificationData, 0, len(results)), Summary: kinematics.Summarize(results)}
	for _, v := range results {
		data.Results = append(data.Results, VerificationData{
			SolutionData: SolutionData{Branch: v.Solution.Branch.String(), Joints: v.Solution.Degrees()},
			Reached:      v.Reached,
			Error:        v.Error,
			Correct:      v.Correct,
		})
	}
	return data, nil
}

func solutionData(sols []kinematics.Solution) []SolutionData {
	out := make([]SolutionData, 0, len(sols))
	for _, s := range sols {
		out = append(out, SolutionData{Branch: s.Branch.String(), Joints: s.Degrees()})
	}
	return out
}
