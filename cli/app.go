// Package cli contains the rx160 command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	flagModel    = "model"
	flagDebug    = "debug"
	flagJSON     = "json"
	flagDecimals = "decimals"

	// Operation flags.
	flagJoints          = "joints"
	flagAngleUnit       = "angle-unit"
	flagPosition        = "position"
	flagUnit            = "unit"
	flagJointVelocities = "joint-velocities"
	flagVelocityUnit    = "velocity-unit"
	flagTwist           = "twist"
	flagView            = "view"
	flagOutput          = "output"
	flagSamples         = "samples"
	flagSeed            = "seed"
	flagTolerance       = "tolerance"
)

var (
	jointsFlag = &cli.StringFlag{
		Name:    flagJoints,
		Aliases: []string{"q"},
		Usage:   "comma separated joint angles q1,q2,q3, e.g. 0,-pi/4,30",
	}
	angleUnitFlag = &cli.StringFlag{
		Name:  flagAngleUnit,
		Value: "deg",
		Usage: "unit of --joints: deg or rad",
	}
	positionFlag = &cli.StringFlag{
		Name:    flagPosition,
		Aliases: []string{"p"},
		Usage:   "comma separated end effector position x,y,z",
	}
	unitFlag = &cli.StringFlag{
		Name:  flagUnit,
		Value: "mm",
		Usage: "length unit of --position and the linear part of --twist: mm, cm or m",
	}
)

var app = &cli.App{
	Name:            "rx160",
	Usage:           "kinematics of the RX160 3-DOF arm",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagModel,
			Aliases: []string{"m"},
			Usage:   "load the arm model from `FILE` instead of the embedded one",
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.BoolFlag{
			Name:  flagJSON,
			Usage: "print results as JSON",
		},
		&cli.IntFlag{
			Name:  flagDecimals,
			Value: 2,
			Usage: "decimals shown in transforms and Jacobians",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "forward",
			Usage:  "end effector position for joint angles",
			Flags:  []cli.Flag{jointsFlag, angleUnitFlag},
			Action: ForwardAction,
		},
		{
			Name:   "inverse",
			Usage:  "every joint configuration reaching a position",
			Flags:  []cli.Flag{positionFlag, unitFlag},
			Action: InverseAction,
		},
		{
			Name:   "verify",
			Usage:  "check inverse kinematics solutions against forward kinematics",
			Flags:  []cli.Flag{positionFlag, unitFlag},
			Action: VerifyAction,
		},
		{
			Name:   "matrices",
			Usage:  "DH link transforms for joint angles",
			Flags:  []cli.Flag{jointsFlag, angleUnitFlag},
			Action: MatricesAction,
		},
		{
			Name:  "jacobian",
			Usage: "geometric Jacobian, and the end effector twist when joint velocities are given",
			Flags: []cli.Flag{
				jointsFlag, angleUnitFlag,
				&cli.StringFlag{
					Name:  flagJointVelocities,
					Usage: "comma separated joint velocities",
				},
				&cli.StringFlag{
					Name:  flagVelocityUnit,
					Value: "rad/s",
					Usage: "unit of --joint-velocities: rad/s or deg/s",
				},
			},
			Action: JacobianAction,
		},
		{
			Name:  "velocity",
			Usage: "joint velocities producing an end effector twist",
			Flags: []cli.Flag{
				jointsFlag, angleUnitFlag, unitFlag,
				&cli.StringFlag{
					Name:     flagTwist,
					Required: true,
					Usage:    "comma separated twist vx,vy,vz,wx,wy,wz",
				},
			},
			Action: VelocityAction,
		},
		{
			Name:  "render",
			Usage: "draw the arm to a PNG file",
			Flags: []cli.Flag{
				jointsFlag, angleUnitFlag, positionFlag, unitFlag,
				&cli.StringFlag{
					Name:  flagView,
					Value: "side",
					Usage: "projection: side, top, front or all",
				},
				&cli.StringFlag{
					Name:     flagOutput,
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "write the image to `FILE`",
				},
			},
			Action: RenderAction,
		},
		{
			Name:  "check",
			Usage: "compare the closed form forward kinematics with the DH chain",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagSamples,
					Value: 1000,
					Usage: "number of random joint configurations",
				},
				&cli.Int64Flag{
					Name:  flagSeed,
					Value: 1,
					Usage: "random seed",
				},
				&cli.Float64Flag{
					Name:  flagTolerance,
					Value: 1e-6,
					Usage: "largest accepted deviation in mm",
				},
			},
			Action: CheckAction,
		},
		{
			Name:      "command",
			Usage:     "run a structured command given as JSON",
			ArgsUsage: "<json|->",
			Action:    CommandAction,
		},
		{
			Name:   "schema",
			Usage:  "print the JSON schema of structured commands",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
