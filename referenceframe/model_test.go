package referenceframe

import (
	"math"
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"
)

func TestModelValidate(t *testing.T) {
	model, err := DefaultModel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Validate(), test.ShouldBeNil)
	test.That(t, model.JointIDs(), test.ShouldResemble, []string{"joint1", "joint2", "joint3"})

	broken := &Model{
		Name: "broken",
		DH: DHTable{
			{ID: "j1", R: 550},
			{ID: "j2", Sigma: 1, A: 150},
			{ID: "tool", A: math.Inf(1)},
		},
		Links: Links{{}, {}, {Depth: math.NaN()}},
	}
	err = broken.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, len(multierr.Errors(err)), test.ShouldEqual, 2)
	test.That(t, err.Error(), test.ShouldContainSubstring, "dhParams")
	test.That(t, err.Error(), test.ShouldContainSubstring, "must have 4 entries, got 3")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"j2" has sigma 1`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `dh row 2 ("tool") has a non-finite parameter`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `links: link 2`)

	dhErrs := multierr.Errors(broken.DH.Validate())
	test.That(t, len(dhErrs), test.ShouldEqual, 3)
}
