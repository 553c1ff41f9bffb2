package referenceframe

import "github.com/pkg/errors"

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// ErrCircularReference is returned when the DH parent chain loops.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNeedOneEndEffector is returned when the DH parent chain does not end in exactly one tool row.
var ErrNeedOneEndEffector = errors.New("need exactly one end effector")

// NewIncorrectDoFError returns an error indicating that the number of joint values does not
// match the degrees of freedom of the arm.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of joint values does not match arm DoF, expected %d but got %d", expected, actual)
}

// NewIncorrectLinkCountError returns an error indicating that the link geometry does not hold
// one entry per joint.
func NewIncorrectLinkCountError(actual, expected int) error {
	return errors.Errorf("link geometry must have %d entries, got %d", expected, actual)
}

// NewIncorrectChainLengthError returns an error indicating that a transform chain or DH table
// has the wrong number of entries.
func NewIncorrectChainLengthError(actual, expected int) error {
	return errors.Errorf("transform chain must have %d entries, got %d", expected, actual)
}

// NewFrameNotInListOfTransformsError returns an error indicating that a DH row names a parent
// that is not in the table.
func NewFrameNotInListOfTransformsError(frameName string) error {
	return errors.Errorf("frame named '%s' not in the list of transforms", frameName)
}

// NewUnsupportedJointTypeError returns an error for a DH row whose sigma is not revolute.
func NewUnsupportedJointTypeError(id string, sigma int) error {
	return errors.Errorf("dh row %q has sigma %d, only revolute joints (sigma 0) are supported", id, sigma)
}
