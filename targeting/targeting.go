package targeting

import (
	"fmt"
	"slices"
	"strconv"

	xslice "github.com/frantjc/x/slice"
)

// DimensionTargeting is the set of values along one Dimension that
// some content is meant for, together with the alternative values
// that exist elsewhere in the bundle and that the content
// deliberately excludes.
type DimensionTargeting struct {
	Dimension    Dimension
	Values       []string
	Alternatives []string
}

// IsEmpty reports whether the targeting carries neither values
// nor alternatives, i.e. whether the dimension is untargeted.
func (t DimensionTargeting) IsEmpty() bool {
	return len(t.Values) == 0 && len(t.Alternatives) == 0
}

// Validate checks the invariants that hold for every constructed
// DimensionTargeting: values and alternatives must not intersect,
// and every value must be recognized for the dimension.
func (t DimensionTargeting) Validate() error {
	for _, value := range t.Values {
		if xslice.Includes(t.Alternatives, value) {
			return fmt.Errorf("%s targeting has %q as both a value and an alternative", t.Dimension, value)
		}
	}

	for _, value := range append(slices.Clone(t.Values), t.Alternatives...) {
		if err := validateValue(t.Dimension, value); err != nil {
			return err
		}
	}

	return nil
}

func validateValue(dimension Dimension, value string) error {
	if value == "" {
		return fmt.Errorf("empty %s targeting value", dimension)
	}

	switch dimension {
	case DimensionABI:
		if _, found := ABIs[value]; !found {
			return fmt.Errorf("unrecognized abi %q", value)
		}
	case DimensionScreenDensity:
		if _, found := Densities[value]; !found && value != "nodpi" {
			return fmt.Errorf("unrecognized screen density %q", value)
		}
	case DimensionTextureCompressionFormat:
		if !xslice.Includes(TextureCompressionFormats, value) {
			return fmt.Errorf("unrecognized texture compression format %q", value)
		}
	case DimensionDeviceTier:
		if tier, err := strconv.Atoi(value); err != nil || tier < 0 {
			return fmt.Errorf("device tier %q is not a non-negative integer", value)
		}
	}

	return nil
}

// Overlaps reports whether the two targetings, which must be on the
// same dimension, have any value in common.
func (t DimensionTargeting) Overlaps(o DimensionTargeting) bool {
	return xslice.Some(t.Values, func(value string, _ int) bool {
		return xslice.Includes(o.Values, value)
	})
}

// Equal reports whether the two targetings carry the same values
// and alternatives irrespective of order.
func (t DimensionTargeting) Equal(o DimensionTargeting) bool {
	sorted := func(s []string) []string {
		c := slices.Clone(s)
		slices.Sort(c)
		return c
	}

	return t.Dimension == o.Dimension &&
		slices.Equal(sorted(t.Values), sorted(o.Values)) &&
		slices.Equal(sorted(t.Alternatives), sorted(o.Alternatives))
}
