// Package referenceframe describes the geometry of the arm: its modified Denavit-Hartenberg
// table and the per-link offsets used by the closed-form kinematics.
package referenceframe

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rx160/utils"
)

// DoF is the number of actuated joints of the arm.
const DoF = 3

// World is the reserved name of the base frame the first DH row hangs from.
const World = "world"

// DHParam is one modified-DH row. A is a_{i-1} and R is r_i, both in mm; Alpha is alpha_{i-1}
// in radians. Sigma is the joint type, 0 meaning revolute.
type DHParam struct {
	ID     string
	Parent string
	Sigma  int
	A      float64
	Alpha  float64
	R      float64
}

// DHTable is the ordered list of DH rows. The last row is a fixed virtual joint that closes the
// chain onto the tool frame, so a valid table has DoF+1 rows.
type DHTable []DHParam

// LinkGeometry holds the offsets of one link, in mm: horizontal reach, vertical rise and the
// lateral (depth) offset perpendicular to the arm plane.
type LinkGeometry struct {
	ID         string
	Horizontal float64
	Vertical   float64
	Depth      float64
}

// Links is the per-link geometry, one entry per actuated joint.
type Links []LinkGeometry

// Model is a robot description. DH and Links describe the same arm in two encodings and are
// read-only after loading.
type Model struct {
	Name  string
	DH    DHTable
	Links Links
}

// CheckJoints returns a shape error unless q has one value per joint.
func CheckJoints(q []float64) error {
	if len(q) != DoF {
		return NewIncorrectDoFError(len(q), DoF)
	}
	return nil
}

// Validate checks the shape of the link geometry.
func (links Links) Validate() error {
	if len(links) != DoF {
		return NewIncorrectLinkCountError(len(links), DoF)
	}
	var errs error
	for i, l := range links {
		if !utils.IsFinite(l.Horizontal) || !utils.IsFinite(l.Vertical) || !utils.IsFinite(l.Depth) {
			errs = multierr.Append(errs, errors.Errorf("link %d (%q) has a non-finite offset", i, l.ID))
		}
	}
	return errs
}

// Validate checks the shape of the DH table.
func (dh DHTable) Validate() error {
	var errs error
	if len(dh) != DoF+1 {
		errs = multierr.Append(errs, NewIncorrectChainLengthError(len(dh), DoF+1))
	}
	for i, row := range dh {
		if row.Sigma != 0 {
			errs = multierr.Append(errs, NewUnsupportedJointTypeError(row.ID, row.Sigma))
		}
		if !utils.IsFinite(row.A) || !utils.IsFinite(row.Alpha) || !utils.IsFinite(row.R) {
			errs = multierr.Append(errs, errors.Errorf("dh row %d (%q) has a non-finite parameter", i, row.ID))
		}
	}
	return errs
}

// Validate checks both encodings and reports every problem found.
func (m *Model) Validate() error {
	return multierr.Combine(
		errors.Wrap(m.DH.Validate(), "dhParams"),
		errors.Wrap(m.Links.Validate(), "links"),
	)
}

// JointIDs returns the ids of the actuated joints, i.e. every DH row but the tool.
func (m *Model) JointIDs() []string {
	ids := make([]string, 0, DoF)
	for i, row := range m.DH {
		if i == len(m.DH)-1 {
			break
		}
		ids = append(ids, row.ID)
	}
	return ids
}
