package split

import (
	"fmt"
	"slices"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
)

// GenerateVariantTargetings computes the minimal ordered set of
// variants for the bundle's modules: one per distinct effective
// minimum SDK version, each listing every other threshold as an
// alternative so that a device qualifying for several thresholds
// installs the highest one. If any module requires the SDK
// runtime, the variant space is doubled along that axis.
//
// Calling this with no modules is a caller contract violation.
func GenerateVariantTargetings(modules []bundle.Module) ([]targeting.VariantTargeting, error) {
	if len(modules) == 0 {
		return nil, bundoerr.New(fmt.Errorf("generating variants for zero modules"), bundoerr.KindInternal)
	}

	thresholds := []int{}
	for _, module := range modules {
		if threshold := module.EffectiveMinSDKVersion(); !xslice.Includes(thresholds, threshold) {
			thresholds = append(thresholds, threshold)
		}
	}

	slices.Sort(thresholds)

	variants := make([]targeting.VariantTargeting, 0, len(thresholds))
	for _, threshold := range thresholds {
		variants = append(variants, targeting.VariantTargeting{
			SDKVersion: threshold,
			AlternativeSDKVersions: xslice.Filter(thresholds, func(alternative int, _ int) bool {
				return alternative != threshold
			}),
		})
	}

	if xslice.Some(modules, func(module bundle.Module, _ int) bool {
		return module.RequiresSDKRuntime
	}) {
		for _, variant := range slices.Clone(variants) {
			variant.RequiresSDKRuntime = true
			variants = append(variants, variant)
		}
	}

	slices.SortFunc(variants, targeting.VariantTargeting.Compare)

	return variants, nil
}
