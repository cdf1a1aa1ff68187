package targeting

import (
	"cmp"
	"fmt"
	"slices"

	xslice "github.com/frantjc/x/slice"
)

// VariantTargeting describes one device bucket: the minimum SDK
// version threshold it was generated for, every other threshold
// present in the bundle, and whether the bucket is reserved for
// devices that support the SDK runtime.
//
// The set of VariantTargetings generated for a bundle totally and
// disjointly partitions all supported platform versions.
type VariantTargeting struct {
	SDKVersion             int
	AlternativeSDKVersions []int
	RequiresSDKRuntime     bool
}

// Compare orders variants so that a device qualifying for more
// than one prefers the one that sorts last, i.e. the highest
// threshold wins.
func (v VariantTargeting) Compare(o VariantTargeting) int {
	if c := cmp.Compare(v.SDKVersion, o.SDKVersion); c != 0 {
		return c
	}

	if v.RequiresSDKRuntime == o.RequiresSDKRuntime {
		return 0
	} else if o.RequiresSDKRuntime {
		return -1
	}

	return 1
}

// Matches reports whether a device running the given SDK version
// falls into this variant's bucket: it must meet the variant's
// threshold and must not meet any greater threshold listed in the
// alternatives.
func (v VariantTargeting) Matches(sdkVersion int) bool {
	if sdkVersion < v.SDKVersion {
		return false
	}

	return !xslice.Some(v.AlternativeSDKVersions, func(alternative int, _ int) bool {
		return alternative > v.SDKVersion && alternative <= sdkVersion
	})
}

// Equal reports whether the two variants describe the same
// device bucket.
func (v VariantTargeting) Equal(o VariantTargeting) bool {
	alternatives := func(s []int) []int {
		c := slices.Clone(s)
		slices.Sort(c)
		return c
	}

	return v.SDKVersion == o.SDKVersion &&
		v.RequiresSDKRuntime == o.RequiresSDKRuntime &&
		slices.Equal(alternatives(v.AlternativeSDKVersions), alternatives(o.AlternativeSDKVersions))
}

func (v VariantTargeting) String() string {
	if v.RequiresSDKRuntime {
		return fmt.Sprintf("sdkruntime-%d", v.SDKVersion)
	}

	return fmt.Sprintf("sdk-%d", v.SDKVersion)
}
