package command

import (
	"bytes"
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/rx160/kinematics"
	"go.viam.com/rx160/logging"
	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/render"
	"go.viam.com/rx160/spatialmath"
)

// Result is the outcome of a dispatched command.
type Result struct {
	Session   string      `json:"session"`
	Operation Operation   `json:"operation"`
	Notes     []string    `json:"notes,omitempty"`
	Text      string      `json:"text"`
	Data      interface{} `json:"data,omitempty"`

	// Image is the PNG produced by simulacion_3d.
	Image []byte `json:"-"`
}

// MatricesData is the payload of matrices_transformacion.
type MatricesData struct {
	Joints     []float64     `json:"joints_deg"`
	Links      [][][]float64 `json:"link_transforms"`
	Cumulative [][][]float64 `json:"cumulative_transforms"`
	Tool       [][]float64   `json:"tool_transform"`
}

// ForwardData is the payload of cinematica_directa.
type ForwardData struct {
	Joints   []float64 `json:"joints_deg"`
	Position r3.Vector `json:"position_mm"`
}

// SolutionData is one inverse kinematics solution.
type SolutionData struct {
	Branch string    `json:"branch"`
	Joints []float64 `json:"joints_deg"`
}

// InverseData is the payload of cinematica_inversa.
type InverseData struct {
	Position  r3.Vector      `json:"position_mm"`
	Solutions []SolutionData `json:"solutions"`
}

// JacobianData is the payload of jacobiano. Twist is set when joint velocities were given.
type JacobianData struct {
	Joints          []float64   `json:"joints_deg"`
	Jacobian        [][]float64 `json:"jacobian"`
	JointVelocities []float64   `json:"joint_velocities,omitempty"`
	Twist           []float64   `json:"twist,omitempty"`
}

// InverseVelocityData is the payload of velocidad_inversa.
type InverseVelocityData struct {
	Joints          []float64 `json:"joints_deg"`
	Twist           []float64 `json:"twist"`
	JointVelocities []float64 `json:"joint_velocities"`
}

// VerificationData is one checked IK solution.
type VerificationData struct {
	SolutionData
	Reached r3.Vector `json:"reached_mm"`
	Error   float64   `json:"error_mm"`
	Correct bool      `json:"correct"`
}

// VerifyData is the payload of verificacion.
type VerifyData struct {
	Position r3.Vector                      `json:"position_mm"`
	Results  []VerificationData             `json:"results"`
	Summary  kinematics.VerificationSummary `json:"summary"`
}

// SimulationData is the payload of simulacion_3d.
type SimulationData struct {
	Joints    []float64      `json:"joints_deg"`
	Points    []r3.Vector    `json:"points_mm"`
	Solutions []SolutionData `json:"solutions,omitempty"`
	View      string         `json:"view"`
}

// Dispatcher runs commands against one arm model and remembers them per session.
type Dispatcher struct {
	model   *referenceframe.Model
	history *History
	display spatialmath.RoundingPolicy
	logger  logging.Logger
}

// NewDispatcher returns a Dispatcher. display controls how transforms are rounded for output.
func NewDispatcher(model *referenceframe.Model, history *History, display spatialmath.RoundingPolicy, logger logging.Logger) *Dispatcher {
	return &Dispatcher{model: model, history: history, display: display, logger: logger}
}

// Model returns the arm model commands run against.
func (d *Dispatcher) Model() *referenceframe.Model {
	return d.model
}

// History returns the session history.
func (d *Dispatcher) History() *History {
	return d.history
}

// Dispatch validates cmd, fills missing inputs from the session history, runs the operation and
// records the request. A command without a session gets a new one.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd *Command) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "command::Dispatcher::Dispatch")
	defer span.End()

	op, err := ParseOperation(cmd.Operation)
	if err != nil {
		return nil, err
	}
	session := cmd.Session
	if session == "" {
		session = d.history.NewSession()
	}
	span.AddAttributes(trace.StringAttribute("operation", string(op)), trace.StringAttribute("session", session))

	res := &Result{Session: session, Operation: op}
	if len(cmd.Unused) > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf("ignored unknown parameters %v", cmd.Unused))
	}

	entry := Entry{Operation: op}
	// remember what the request carried even if the operation fails later
	if q, ok, err := cmd.Parameters.Angles(); err == nil && ok {
		entry.Angles = q
	}
	if pos, ok, err := cmd.Parameters.TargetPosition(); err == nil && ok {
		entry.Position = &pos
	}

	d.logger.CDebugw(ctx, "dispatching command", "operation", op, "session", session)
	err = d.run(ctx, op, &cmd.Parameters, session, res)
	entry.Failed = err != nil
	d.history.Record(session, entry)
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
		d.logger.CDebugw(ctx, "command failed", "operation", op, "error", err)
		return nil, err
	}
	return res, nil
}

func (d *Dispatcher) run(ctx context.Context, op Operation, p *Parameters, session string, res *Result) error {
	switch op {
	case OpTransformMatrices:
		return d.matrices(p, session, res)
	case OpSimulation:
		return d.simulation(ctx, p, session, res)
	case OpForward:
		return d.forward(p, session, res)
	case OpInverse:
		return d.inverse(p, session, res)
	case OpJacobian:
		return d.jacobian(p, session, res)
	case OpInverseVelocity:
		return d.inverseVelocity(p, session, res)
	case OpVerify:
		return d.verify(p, session, res)
	}
	return errors.Wrapf(ErrUnknownOperation, "%q", op)
}

// angles returns the request's joint angles or, failing that, the session's most recent ones.
func (d *Dispatcher) angles(p *Parameters, session string, res *Result) ([]float64, error) {
	q, ok, err := p.Angles()
	if err != nil {
		return nil, err
	}
	if ok {
		return q, nil
	}
	if q, age, found := d.history.LastAngles(session); found {
		res.Notes = append(res.Notes, fmt.Sprintf("joint angles taken from history entry %d: %v deg", age+1, q))
		return q, nil
	}
	return nil, ErrMissingAngles
}

// position is angles for cartesian targets.
func (d *Dispatcher) position(p *Parameters, session string, res *Result) (r3.Vector, error) {
	pos, ok, err := p.TargetPosition()
	if err != nil {
		return r3.Vector{}, err
	}
	if ok {
		return pos, nil
	}
	if pos, age, found := d.history.LastPosition(session); found {
		res.Notes = append(res.Notes, fmt.Sprintf("position taken from history entry %d: %v mm", age+1, pos))
		return pos, nil
	}
	return r3.Vector{}, ErrMissingPosition
}

func (d *Dispatcher) matrices(p *Parameters, session string, res *Result) error {
	q, err := d.angles(p, session, res)
	if err != nil {
		return err
	}
	data, err := d.Matrices(q)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatMatrices(data)
	return nil
}

func (d *Dispatcher) forward(p *Parameters, session string, res *Result) error {
	q, err := d.angles(p, session, res)
	if err != nil {
		return err
	}
	data, err := d.Forward(q)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatForward(data)
	return nil
}

func (d *Dispatcher) inverse(p *Parameters, session string, res *Result) error {
	pos, err := d.position(p, session, res)
	if err != nil {
		return err
	}
	data, err := d.Inverse(pos)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatInverse(data)
	return nil
}

func (d *Dispatcher) jacobian(p *Parameters, session string, res *Result) error {
	q, err := d.angles(p, session, res)
	if err != nil {
		return err
	}
	dq, ok, err := p.JointVelocities()
	if err != nil {
		return err
	}
	if !ok {
		dq = nil
	}
	data, err := d.Jacobian(q, dq)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatJacobian(data)
	return nil
}

func (d *Dispatcher) inverseVelocity(p *Parameters, session string, res *Result) error {
	q, err := d.angles(p, session, res)
	if err != nil {
		return err
	}
	components, ok, err := p.Twist.TwistComponents()
	if err != nil {
		return err
	}
	if !ok {
		return ErrMissingTwist
	}
	data, err := d.InverseVelocity(q, components)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatInverseVelocity(data)
	return nil
}

func (d *Dispatcher) verify(p *Parameters, session string, res *Result) error {
	pos, err := d.position(p, session, res)
	if err != nil {
		return err
	}
	data, err := d.Verify(pos)
	if err != nil {
		return err
	}
	res.Data = data
	res.Text = formatVerify(data)
	return nil
}

// simulation draws the arm from angles or, failing that, from the first IK solution of a
// position. With neither in the request, the most recent of the two in history is used.
func (d *Dispatcher) simulation(ctx context.Context, p *Parameters, session string, res *Result) error {
	_, span := trace.StartSpan(ctx, "command::Dispatcher::simulation")
	defer span.End()

	view, err := render.ParseView(p.View)
	if err != nil {
		return err
	}
	data := SimulationData{View: view.String()}

	q, haveAngles, err := p.Angles()
	if err != nil {
		return err
	}
	pos, havePos, err := p.TargetPosition()
	if err != nil {
		return err
	}
	if !haveAngles && !havePos {
		hq, qAge, qFound := d.history.LastAngles(session)
		hp, pAge, pFound := d.history.LastPosition(session)
		switch {
		case qFound && (!pFound || qAge <= pAge):
			q, haveAngles = hq, true
			res.Notes = append(res.Notes, fmt.Sprintf("joint angles taken from history entry %d: %v deg", qAge+1, q))
		case pFound:
			pos, havePos = hp, true
			res.Notes = append(res.Notes, fmt.Sprintf("position taken from history entry %d: %v mm", pAge+1, pos))
		default:
			return ErrMissingAngles
		}
	}
	if !haveAngles {
		sols, err := kinematics.Inverse(pos, d.model.Links)
		if err != nil {
			return err
		}
		if len(sols) == 0 {
			return errors.Errorf("position %v mm is out of reach, nothing to draw", pos)
		}
		data.Solutions = solutionData(sols)
		q = sols[0].Degrees()
		res.Notes = append(res.Notes, fmt.Sprintf("drawing solution 1 of %d (%s)", len(sols), sols[0].Branch))
	}

	points, err := kinematics.JointPoints(q, d.model.Links)
	if err != nil {
		return err
	}
	data.Joints, data.Points = q, points
	var buf bytes.Buffer
	opts := render.DefaultOptions
	opts.Title = fmt.Sprintf("%s q = %.1f, %.1f, %.1f deg", d.model.Name, q[0], q[1], q[2])
	if err := render.WritePNG(&buf, points, view, opts); err != nil {
		return err
	}
	res.Image = buf.Bytes()
	res.Data = data
	res.Text = formatSimulation(data)
	return nil
}

func denseRows(m mat.Matrix, policy spatialmath.RoundingPolicy) [][]float64 {
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := range rows[i] {
			rows[i][j] = policy.Apply(m.At(i, j))
		}
	}
	return rows
}
