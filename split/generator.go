package split

import (
	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/targeting"
)

// GenerateSplitApks runs the module splitter for every (variant,
// applicable module) pair and returns the flat ordered list of
// every generated split, each tagged with its owning variant.
// Modules that require the SDK runtime only populate runtime
// variants and vice versa; a module never appears in a variant
// below its own minimum SDK or above its maximum.
func GenerateSplitApks(bndl *bundle.Bundle) ([]ModuleSplit, error) {
	variants, err := GenerateVariantTargetings(bndl.Modules)
	if err != nil {
		return nil, err
	}

	splits := []ModuleSplit{}

	for _, variant := range variants {
		for i := range bndl.Modules {
			module := &bndl.Modules[i]

			if !Applicable(module, variant) {
				continue
			}

			moduleSplits, err := SplitModule(module, variant, bndl.Config)
			if err != nil {
				return nil, err
			}

			splits = append(splits, moduleSplits...)
		}
	}

	return splits, nil
}

// Applicable reports whether the module participates in the
// variant at all.
func Applicable(module *bundle.Module, variant targeting.VariantTargeting) bool {
	if module.RequiresSDKRuntime != variant.RequiresSDKRuntime {
		return false
	}

	if variant.SDKVersion < module.EffectiveMinSDKVersion() {
		return false
	}

	if module.MaxSDKVersion > 0 && variant.SDKVersion > module.MaxSDKVersion {
		return false
	}

	return true
}
