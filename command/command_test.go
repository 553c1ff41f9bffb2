package command

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/rx160/utils"
)

func decodeJSON(t *testing.T, s string) *Command {
	t.Helper()
	raw := map[string]interface{}{}
	test.That(t, json.Unmarshal([]byte(s), &raw), test.ShouldBeNil)
	cmd, err := Decode(raw)
	test.That(t, err, test.ShouldBeNil)
	return cmd
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations {
		parsed, err := ParseOperation(" " + string(op) + " ")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, op)
	}
	op, err := ParseOperation("Forward")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, op, test.ShouldEqual, OpForward)

	_, err = ParseOperation("dinamica")
	test.That(t, errors.Is(err, ErrUnknownOperation), test.ShouldBeTrue)
}

func TestDecodeAngles(t *testing.T) {
	cmd := decodeJSON(t, `{"operacion": "cinematica_directa",
		"parametros": {"q1": "-pi/2", "q2": 0.5, "q3": "0", "unidad_angular": "radianes"}}`)
	test.That(t, cmd.Operation, test.ShouldEqual, "cinematica_directa")
	q, ok, err := cmd.Parameters.Angles()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, q[0], test.ShouldAlmostEqual, -90)
	test.That(t, q[1], test.ShouldAlmostEqual, utils.RadToDeg(0.5))
	test.That(t, q[2], test.ShouldEqual, 0.0)

	// degrees are the default, partial angles count as missing
	cmd = decodeJSON(t, `{"operacion": "cinematica_directa", "parametros": {"q1": 10, "q2": "", "q3": null}}`)
	_, ok, err = cmd.Parameters.Angles()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)

	cmd = decodeJSON(t, `{"operacion": "x", "parametros": {"q1": 1, "q2": 2, "q3": 3, "unidad_angular": "gradians"}}`)
	_, _, err = cmd.Parameters.Angles()
	test.That(t, errors.Is(err, utils.ErrUnknownUnit), test.ShouldBeTrue)

	cmd = decodeJSON(t, `{"operacion": "x", "parametros": {"q1": "ten", "q2": 2, "q3": 3}}`)
	_, _, err = cmd.Parameters.Angles()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "q1")
}

func TestDecodePositions(t *testing.T) {
	cmd := decodeJSON(t, `{"operacion": "cinematica_inversa",
		"parametros": {"posicion_objetivo": {"x": 171, "y": "0", "z": 55, "unidad_posicion": "cm"}}}`)
	pos, ok, err := cmd.Parameters.TargetPosition()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pos, test.ShouldResemble, r3.Vector{X: 1710, Y: 0, Z: 550})

	// posicion_efector is used when there is no target
	cmd = decodeJSON(t, `{"operacion": "simulacion_3d",
		"parametros": {"posicion_objetivo": {"x": "", "y": "", "z": ""},
		               "posicion_efector": {"x": 1.71, "y": 0, "z": 0.55, "unidad_posicion": "m"}}}`)
	pos, ok, err = cmd.Parameters.TargetPosition()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, pos.X, test.ShouldAlmostEqual, 1710)
	test.That(t, pos.Z, test.ShouldAlmostEqual, 550)

	cmd = decodeJSON(t, `{"operacion": "cinematica_inversa", "parametros": {}}`)
	_, ok, err = cmd.Parameters.TargetPosition()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestDecodeVelocities(t *testing.T) {
	cmd := decodeJSON(t, `{"operacion": "jacobiano", "parametros": {
		"q1_dot": 180, "q2_dot": "90", "q3_dot": 0, "unidad_velocidad": "deg/s",
		"velocidad_efector": {"dx": 1, "dz": "2", "wz": "pi", "unidad_posicion": "cm"}}}`)
	dq, ok, err := cmd.Parameters.JointVelocities()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, dq[0], test.ShouldAlmostEqual, math.Pi)
	test.That(t, dq[1], test.ShouldAlmostEqual, math.Pi/2)

	twist, ok, err := cmd.Parameters.Twist.TwistComponents()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, twist[0], test.ShouldEqual, 10.0)
	test.That(t, twist[1], test.ShouldEqual, 0.0)
	test.That(t, twist[2], test.ShouldEqual, 20.0)
	test.That(t, twist[5], test.ShouldAlmostEqual, math.Pi)

	var none *Velocity
	_, ok, err = none.TwistComponents()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestDecodeUnused(t *testing.T) {
	cmd := decodeJSON(t, `{"operacion": "cinematica_directa", "session": "abc", "confianza": 0.9,
		"parametros": {"q1": 0, "q2": 0, "q3": 0, "comentario": "hola"}}`)
	test.That(t, cmd.Session, test.ShouldEqual, "abc")
	test.That(t, cmd.Unused, test.ShouldResemble, []string{"confianza", "parametros.comentario"})

	_, err := Decode(map[string]interface{}{"parametros": "not a map"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchema(t *testing.T) {
	out, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(out), test.ShouldContainSubstring, "operacion")
	test.That(t, string(out), test.ShouldContainSubstring, "posicion_objetivo")
}
