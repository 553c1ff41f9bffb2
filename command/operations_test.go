package command

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/rx160/utils"
)

func TestMatricesRounding(t *testing.T) {
	d := newTestDispatcher(t)
	data, err := d.Matrices([]float64{30, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(data.Links), test.ShouldEqual, 4)
	test.That(t, len(data.Cumulative), test.ShouldEqual, 4)

	// link transforms come from the rounded chain
	test.That(t, data.Links[0][0], test.ShouldResemble, []float64{0.87, -0.5, 0, 0})
	test.That(t, data.Links[1][1], test.ShouldResemble, []float64{0, 0, -1, 0})

	// products are taken over the exact chain, 0.87 * 1710 would give 1487.7
	test.That(t, data.Tool[0][3], test.ShouldAlmostEqual, utils.RoundTo(1710*math.Cos(math.Pi/6), 2), 1e-9)
	test.That(t, data.Tool[2][3], test.ShouldEqual, 550.0)
	test.That(t, data.Cumulative[3], test.ShouldResemble, data.Tool)

	_, err = d.Matrices([]float64{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOperationsMatchDispatch(t *testing.T) {
	d := newTestDispatcher(t)
	params := `"q1": 30, "q2": 10, "q3": -20, "q1_dot": 0.1, "q2_dot": -0.2, "q3_dot": 0.3`
	q := []float64{30, 10, -20}

	res, err := dispatchJSON(t, d, "", `{"operacion": "matrices_transformacion", "parametros": {`+params+`}}`)
	test.That(t, err, test.ShouldBeNil)
	matrices, err := d.Matrices(q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Data, test.ShouldResemble, matrices)

	res, err = dispatchJSON(t, d, "", `{"operacion": "jacobiano", "parametros": {`+params+`}}`)
	test.That(t, err, test.ShouldBeNil)
	jac, err := d.Jacobian(q, []float64{0.1, -0.2, 0.3})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Data, test.ShouldResemble, jac)

	noTwist, err := d.Jacobian(q, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, noTwist.Twist, test.ShouldBeNil)
	test.That(t, noTwist.Jacobian, test.ShouldResemble, jac.Jacobian)

	target := r3.Vector{X: 300, Y: 0, Z: 900}
	res, err = dispatchJSON(t, d, "", `{"operacion": "verificacion", "parametros": {"posicion_objetivo": {"x": 300, "y": 0, "z": 900}}}`)
	test.That(t, err, test.ShouldBeNil)
	verify, err := d.Verify(target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, res.Data, test.ShouldResemble, verify)
	test.That(t, len(verify.Results), test.ShouldEqual, 4)

	unreachable, err := d.Verify(r3.Vector{X: 9000})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, unreachable.Results, test.ShouldNotBeNil)
	test.That(t, unreachable.Results, test.ShouldBeEmpty)

	inverse, err := d.Inverse(r3.Vector{X: 9000})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inverse.Solutions, test.ShouldNotBeNil)
	test.That(t, inverse.Solutions, test.ShouldBeEmpty)

	twist := jac.Twist
	back, err := d.InverseVelocity(q, twist)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.JointVelocities[0], test.ShouldAlmostEqual, 0.1, 1e-6)
	test.That(t, back.JointVelocities[1], test.ShouldAlmostEqual, -0.2, 1e-6)
	test.That(t, back.JointVelocities[2], test.ShouldAlmostEqual, 0.3, 1e-6)
	_, err = d.InverseVelocity(q, []float64{1, 2})
	test.That(t, err, test.ShouldNotBeNil)
}
