package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/rx160/command"
	"go.viam.com/rx160/config"
	"go.viam.com/rx160/kinematics"
	"go.viam.com/rx160/logging"
	"go.viam.com/rx160/referenceframe"
	"go.viam.com/rx160/spatialmath"
)

// ForwardAction prints the end effector position for --joints.
func ForwardAction(c *cli.Context) error {
	return runOperation(c, command.OpForward)
}

// InverseAction prints every solution reaching --position.
func InverseAction(c *cli.Context) error {
	return runOperation(c, command.OpInverse)
}

// VerifyAction checks the inverse kinematics solutions of --position.
func VerifyAction(c *cli.Context) error {
	return runOperation(c, command.OpVerify)
}

// MatricesAction prints the DH link transforms for --joints.
func MatricesAction(c *cli.Context) error {
	return runOperation(c, command.OpTransformMatrices)
}

// JacobianAction prints the Jacobian at --joints.
func JacobianAction(c *cli.Context) error {
	return runOperation(c, command.OpJacobian)
}

// VelocityAction prints the joint velocities producing --twist.
func VelocityAction(c *cli.Context) error {
	return runOperation(c, command.OpInverseVelocity)
}

// RenderAction draws the arm at --joints, or at the first solution for --position, into --output.
func RenderAction(c *cli.Context) error {
	d, err := newDispatcher(c)
	if err != nil {
		return err
	}
	params, err := paramsFromFlags(c)
	if err != nil {
		return err
	}
	res, err := d.Dispatch(c.Context, &command.Command{Operation: string(command.OpSimulation), Parameters: params})
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String(flagOutput), res.Image, 0o600); err != nil {
		return errors.Wrap(err, "could not write image")
	}
	printNotes(c.App.ErrWriter, res)
	fmt.Fprintf(c.App.Writer, "wrote %s\n", c.String(flagOutput))
	return nil
}

// CheckAction compares the closed form forward kinematics with the composed DH chain.
func CheckAction(c *cli.Context) error {
	model, err := loadModel(c, false)
	if err != nil {
		return err
	}
	samples, seed, tolerance := c.Int(flagSamples), c.Int64(flagSeed), c.Float64(flagTolerance)
	checkErr := kinematics.CheckConsistency(model, samples, seed, tolerance)

	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("consistency of %s", model.Name))
	t.AppendHeader(table.Row{"samples", "seed", "tolerance (mm)", "result"})
	result := "ok"
	if checkErr != nil {
		result = "FAILED"
	}
	t.AppendRow(table.Row{samples, seed, tolerance, result})
	fmt.Fprintln(c.App.Writer, t.Render())
	return checkErr
}

// CommandAction runs a structured command given as the first argument, or on stdin for "-".
func CommandAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one argument: the command JSON, or - to read it from stdin")
	}
	data := []byte(c.Args().First())
	if c.Args().First() == "-" {
		var err error
		if data, err = io.ReadAll(os.Stdin); err != nil {
			return err
		}
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "malformed command")
	}
	cmd, err := command.Decode(raw)
	if err != nil {
		return err
	}
	d, err := newDispatcher(c)
	if err != nil {
		return err
	}
	res, err := d.Dispatch(c.Context, cmd)
	if err != nil {
		return err
	}
	return printResult(c, res)
}

// SchemaAction prints the JSON schema of structured commands.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(command.Schema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(out))
	return nil
}

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(flagDebug) {
		return logging.NewDebugLogger("rx160")
	}
	logger := logging.NewLogger("rx160")
	logger.SetLevel(logging.WARN)
	return logger
}

// loadModel loads --model, or the embedded model. With check set, a model failing the
// consistency check is rejected.
func loadModel(c *cli.Context, check bool) (*referenceframe.Model, error) {
	cfg := config.Default()
	cfg.ModelFile = c.String(flagModel)
	model, err := cfg.LoadModel()
	if err != nil || !check {
		return model, err
	}
	if err := kinematics.CheckConsistency(model, cfg.Consistency.Samples, cfg.Consistency.Seed, cfg.Consistency.ToleranceMM); err != nil {
		return nil, errors.Wrapf(err, "model %q failed the consistency check", model.Name)
	}
	return model, nil
}

func newDispatcher(c *cli.Context) (*command.Dispatcher, error) {
	model, err := loadModel(c, true)
	if err != nil {
		return nil, err
	}
	display := spatialmath.DefaultRoundingPolicy
	display.Decimals = c.Int(flagDecimals)
	return command.NewDispatcher(model, command.NewHistory(1, 0, clock.New()), display, newLogger(c)), nil
}

func runOperation(c *cli.Context, op command.Operation) error {
	d, err := newDispatcher(c)
	if err != nil {
		return err
	}
	params, err := paramsFromFlags(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Bool(flagDebug) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	res, err := d.Dispatch(ctx, &command.Command{Operation: string(op), Parameters: params})
	if err != nil {
		return err
	}
	return printResult(c, res)
}

func printNotes(w io.Writer, res *command.Result) {
	for _, note := range res.Notes {
		fmt.Fprintf(w, "note: %s\n", note)
	}
}

func printResult(c *cli.Context, res *command.Result) error {
	printNotes(c.App.ErrWriter, res)
	if c.Bool(flagJSON) {
		out, err := json.MarshalIndent(res.Data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(out))
		return nil
	}
	fmt.Fprintln(c.App.Writer, res.Text)
	return nil
}

// splitValues splits a comma separated flag into exactly n raw values. Each value is parsed
// later, so pi expressions are accepted.
func splitValues(flagName, s string, n int) ([]interface{}, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("--%s needs %d comma separated values, got %d", flagName, n, len(parts))
	}
	out := make([]interface{}, n)
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out, nil
}

func paramsFromFlags(c *cli.Context) (command.Parameters, error) {
	p := command.Parameters{
		AngularUnit:  c.String(flagAngleUnit),
		VelocityUnit: c.String(flagVelocityUnit),
		View:         c.String(flagView),
	}
	if s := c.String(flagJoints); s != "" {
		q, err := splitValues(flagJoints, s, referenceframe.DoF)
		if err != nil {
			return p, err
		}
		p.Q1, p.Q2, p.Q3 = q[0], q[1], q[2]
	}
	if s := c.String(flagJointVelocities); s != "" {
		dq, err := splitValues(flagJointVelocities, s, referenceframe.DoF)
		if err != nil {
			return p, err
		}
		p.Q1Dot, p.Q2Dot, p.Q3Dot = dq[0], dq[1], dq[2]
	}
	if s := c.String(flagPosition); s != "" {
		xyz, err := splitValues(flagPosition, s, 3)
		if err != nil {
			return p, err
		}
		p.Target = &command.Position{X: xyz[0], Y: xyz[1], Z: xyz[2], Unit: c.String(flagUnit)}
	}
	if s := c.String(flagTwist); s != "" {
		tw, err := splitValues(flagTwist, s, 6)
		if err != nil {
			return p, err
		}
		p.Twist = &command.Velocity{DX: tw[0], DY: tw[1], DZ: tw[2], WX: tw[3], WY: tw[4], WZ: tw[5], Unit: c.String(flagUnit)}
	}
	return p, nil
}
