package command

import "github.com/pkg/errors"

var (
	// ErrMissingAngles is returned when an operation needs joint angles and neither the request
	// nor the session history has all three.
	ErrMissingAngles = errors.New("joint angles q1, q2 and q3 are required")
	// ErrMissingPosition is returned when an operation needs a cartesian position and neither the
	// request nor the session history has one.
	ErrMissingPosition = errors.New("a target position x, y, z is required")
	// ErrMissingTwist is returned by velocidad_inversa without an end effector velocity.
	ErrMissingTwist = errors.New("an end effector velocity is required")
	// ErrUnknownOperation is returned for an operation name that is not supported.
	ErrUnknownOperation = errors.New("unknown operation")
)
