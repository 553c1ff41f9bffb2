// Package command turns structured requests, as produced by the language model front end, into
// calls on the kinematics engine.
package command

import (
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/rx160/utils"
)

// Operation names a request type.
type Operation string

// The supported operations. The wire names are the ones the language model emits.
const (
	OpTransformMatrices Operation = "matrices_transformacion"
	OpSimulation        Operation = "simulacion_3d"
	OpForward           Operation = "cinematica_directa"
	OpInverse           Operation = "cinematica_inversa"
	OpJacobian          Operation = "jacobiano"
	OpInverseVelocity   Operation = "velocidad_inversa"
	OpVerify            Operation = "verificacion"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{
	OpTransformMatrices, OpSimulation, OpForward, OpInverse, OpJacobian, OpInverseVelocity, OpVerify,
}

var operationAliases = map[string]Operation{
	"matrices": OpTransformMatrices, "transforms": OpTransformMatrices,
	"simulation": OpSimulation, "render": OpSimulation,
	"forward": OpForward, "forward_kinematics": OpForward,
	"inverse": OpInverse, "inverse_kinematics": OpInverse,
	"jacobian": OpJacobian,
	"inverse_velocity": OpInverseVelocity,
	"verify": OpVerify, "verification": OpVerify,
}

// ParseOperation accepts a wire name or one of its English aliases.
func ParseOperation(name string) (Operation, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, op := range Operations {
		if string(op) == n {
			return op, nil
		}
	}
	if op, ok := operationAliases[n]; ok {
		return op, nil
	}
	return "", errors.Wrapf(ErrUnknownOperation, "%q", name)
}

// Command is a decoded request.
type Command struct {
	//nolint:lll
	Operation  string     `json:"operacion" jsonschema:"enum=matrices_transformacion,enum=simulacion_3d,enum=cinematica_directa,enum=cinematica_inversa,enum=jacobiano,enum=velocidad_inversa,enum=verificacion"`
	Parameters Parameters `json:"parametros"`
	Session    string     `json:"session,omitempty"`

	// Unused lists input keys that matched no field.
	Unused []string `json:"-"`
}

// Parameters carries every value any operation may use. Numeric fields are loosely typed:
// numbers, numeric strings, pi expressions, or empty for "not given".
type Parameters struct {
	Q1           interface{} `json:"q1,omitempty"`
	Q2           interface{} `json:"q2,omitempty"`
	Q3           interface{} `json:"q3,omitempty"`
	AngularUnit  string      `json:"unidad_angular,omitempty"`
	Q1Dot        interface{} `json:"q1_dot,omitempty"`
	Q2Dot        interface{} `json:"q2_dot,omitempty"`
	Q3Dot        interface{} `json:"q3_dot,omitempty"`
	VelocityUnit string      `json:"unidad_velocidad,omitempty"`
	Target       *Position   `json:"posicion_objetivo,omitempty"`
	Effector     *Position   `json:"posicion_efector,omitempty"`
	Twist        *Velocity   `json:"velocidad_efector,omitempty"`
	View         string      `json:"vista,omitempty"`
}

// Position is a cartesian point in some length unit.
type Position struct {
	X    interface{} `json:"x,omitempty"`
	Y    interface{} `json:"y,omitempty"`
	Z    interface{} `json:"z,omitempty"`
	Unit string      `json:"unidad_posicion,omitempty"`
}

// Velocity is a tool twist. Linear components use Unit per second, angular ones rad/s.
type Velocity struct {
	DX   interface{} `json:"dx,omitempty"`
	DY   interface{} `json:"dy,omitempty"`
	DZ   interface{} `json:"dz,omitempty"`
	WX   interface{} `json:"wx,omitempty"`
	WY   interface{} `json:"wy,omitempty"`
	WZ   interface{} `json:"wz,omitempty"`
	Unit string      `json:"unidad_posicion,omitempty"`
}

// Decode builds a Command from a generic map, such as decoded JSON.
func Decode(raw map[string]interface{}) (*Command, error) {
	var cmd Command
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &cmd,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, "malformed command")
	}
	cmd.Unused = md.Unused
	sort.Strings(cmd.Unused)
	return &cmd, nil
}

// numbers parses vals, which must be all present or all absent. ok is false when all are absent.
func numbers(names []string, vals ...interface{}) ([]float64, bool, error) {
	out := make([]float64, 0, len(vals))
	var missing []string
	for i, v := range vals {
		f, ok, err := utils.ParseNumber(v)
		if err != nil {
			return nil, false, errors.Wrapf(err, "parameter %s", names[i])
		}
		if !ok {
			missing = append(missing, names[i])
			continue
		}
		out = append(out, f)
	}
	if len(missing) > 0 {
		// partial input counts as absent so that history can fill it in
		return nil, false, nil
	}
	return out, true, nil
}

// Angles returns q1..q3 in degrees. ok is false unless all three were given.
func (p *Parameters) Angles() ([]float64, bool, error) {
	q, ok, err := numbers([]string{"q1", "q2", "q3"}, p.Q1, p.Q2, p.Q3)
	if err != nil || !ok {
		return nil, false, err
	}
	unit, err := utils.ParseAngularUnit(p.AngularUnit)
	if err != nil {
		return nil, false, err
	}
	for i := range q {
		q[i] = unit.ToDegrees(q[i])
	}
	return q, true, nil
}

// JointVelocities returns q1_dot..q3_dot in rad/s. ok is false unless all three were given.
func (p *Parameters) JointVelocities() ([]float64, bool, error) {
	dq, ok, err := numbers([]string{"q1_dot", "q2_dot", "q3_dot"}, p.Q1Dot, p.Q2Dot, p.Q3Dot)
	if err != nil || !ok {
		return nil, false, err
	}
	unit, err := utils.ParseAngularVelocityUnit(p.VelocityUnit)
	if err != nil {
		return nil, false, err
	}
	for i := range dq {
		dq[i] = unit.ToRadiansPerSecond(dq[i])
	}
	return dq, true, nil
}

// Millimeters returns the position converted to mm. ok is false unless x, y and z were given.
func (pos *Position) Millimeters() (r3.Vector, bool, error) {
	if pos == nil {
		return r3.Vector{}, false, nil
	}
	xyz, ok, err := numbers([]string{"x", "y", "z"}, pos.X, pos.Y, pos.Z)
	if err != nil || !ok {
		return r3.Vector{}, false, err
	}
	unit, err := utils.ParseLengthUnit(pos.Unit)
	if err != nil {
		return r3.Vector{}, false, err
	}
	return r3.Vector{X: unit.ToMillimeters(xyz[0]), Y: unit.ToMillimeters(xyz[1]), Z: unit.ToMillimeters(xyz[2])}, true, nil
}

// TargetPosition returns posicion_objetivo, falling back to posicion_efector.
func (p *Parameters) TargetPosition() (r3.Vector, bool, error) {
	for _, pos := range []*Position{p.Target, p.Effector} {
		v, ok, err := pos.Millimeters()
		if err != nil || ok {
			return v, ok, err
		}
	}
	return r3.Vector{}, false, nil
}

// TwistComponents returns [vx, vy, vz, wx, wy, wz] with the linear part in mm/s. Components
// left out count as zero; ok is false only when none was given.
func (v *Velocity) TwistComponents() ([]float64, bool, error) {
	if v == nil {
		return nil, false, nil
	}
	names := []string{"dx", "dy", "dz", "wx", "wy", "wz"}
	raw := []interface{}{v.DX, v.DY, v.DZ, v.WX, v.WY, v.WZ}
	out := make([]float64, len(raw))
	given := 0
	for i, r := range raw {
		f, ok, err := utils.ParseNumber(r)
		if err != nil {
			return nil, false, errors.Wrapf(err, "parameter %s", names[i])
		}
		if ok {
			out[i] = f
			given++
		}
	}
	if given == 0 {
		return nil, false, nil
	}
	unit, err := utils.ParseLengthUnit(v.Unit)
	if err != nil {
		return nil, false, err
	}
	for i := 0; i < 3; i++ {
		out[i] = unit.ToMillimeters(out[i])
	}
	return out, true, nil
}
