package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := NewApp(&out, &errOut)
	err := app.Run(append([]string{"rx160"}, args...))
	return out.String(), errOut.String(), err
}

func TestForwardAndInverse(t *testing.T) {
	out, _, err := run(t, "forward", "--joints", "0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "x = 1710.00, y = 0.00, z = 550.00")

	out, _, err = run(t, "--json", "forward", "--joints", "pi/2,0,0", "--angle-unit", "rad")
	test.That(t, err, test.ShouldBeNil)
	var fwd map[string]interface{}
	test.That(t, json.Unmarshal([]byte(out), &fwd), test.ShouldBeNil)
	test.That(t, fwd["joints_deg"].([]interface{})[0], test.ShouldAlmostEqual, 90.0)

	out, _, err = run(t, "inverse", "--position", "30,0,90", "--unit", "cm")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "4 solution(s)")
	test.That(t, out, test.ShouldContainSubstring, "back, elbow down")

	out, _, err = run(t, "inverse", "--position", "9000,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "out of reach")

	_, _, err = run(t, "forward", "--joints", "0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "needs 3 comma separated values")

	_, _, err = run(t, "forward")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestVelocityCommands(t *testing.T) {
	out, _, err := run(t, "--json", "jacobian", "--joints", "10,45,-30", "--joint-velocities", "0.1,-0.2,0.3")
	test.That(t, err, test.ShouldBeNil)
	var jac struct {
		Jacobian [][]float64 `json:"jacobian"`
		Twist    []float64   `json:"twist"`
	}
	test.That(t, json.Unmarshal([]byte(out), &jac), test.ShouldBeNil)
	test.That(t, len(jac.Jacobian), test.ShouldEqual, 6)
	test.That(t, len(jac.Twist), test.ShouldEqual, 6)

	twist, err := json.Marshal(jac.Twist)
	test.That(t, err, test.ShouldBeNil)
	twistFlag := string(twist[1 : len(twist)-1])
	out, _, err = run(t, "--json", "velocity", "--joints", "10,45,-30", "--twist", twistFlag)
	test.That(t, err, test.ShouldBeNil)
	var vel struct {
		JointVelocities []float64 `json:"joint_velocities"`
	}
	test.That(t, json.Unmarshal([]byte(out), &vel), test.ShouldBeNil)
	test.That(t, vel.JointVelocities[0], test.ShouldAlmostEqual, 0.1, 1e-6)
	test.That(t, vel.JointVelocities[1], test.ShouldAlmostEqual, -0.2, 1e-6)
	test.That(t, vel.JointVelocities[2], test.ShouldAlmostEqual, 0.3, 1e-6)

	_, _, err = run(t, "velocity", "--joints", "0,0,0")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestMatricesVerifyCheck(t *testing.T) {
	out, _, err := run(t, "matrices", "--joints", "0,0,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "T04")
	test.That(t, out, test.ShouldContainSubstring, "1710")

	out, _, err = run(t, "verify", "--position", "300,0,900")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "4/4")

	out, _, err = run(t, "check", "--samples", "200")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "ok")

	_, _, err = run(t, "--model", "../referenceframe/testjson/prismatic.json", "check")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestRenderCommandSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arm.png")
	out, _, err := run(t, "render", "--position", "300,0,900", "--view", "all", "-o", path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, path)
	img, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(img[:4]), test.ShouldEqual, "\x89PNG")

	_, _, err = run(t, "render", "--joints", "0,0,0")
	test.That(t, err, test.ShouldNotBeNil)

	out, errOut, err := run(t, "command", `{"operacion": "cinematica_directa", "parametros": {"q1": 0, "q2": 0, "q3": 0}, "extra": 1}`)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "1710.00")
	test.That(t, errOut, test.ShouldContainSubstring, "note: ignored unknown parameters")

	_, _, err = run(t, "command", `{"operacion": "cinematica_inversa", "parametros": {}}`)
	test.That(t, err, test.ShouldNotBeNil)

	out, _, err = run(t, "schema")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "parametros")
}
