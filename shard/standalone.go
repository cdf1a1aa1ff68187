package shard

import (
	"context"
	"fmt"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/split"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
)

// collapsedDimensions are the dimensions that standalone APKs
// cannot carry: their content is reduced to the configured
// default value's before splitting.
var collapsedDimensions = []targeting.Dimension{
	targeting.DimensionTextureCompressionFormat,
	targeting.DimensionDeviceTier,
	targeting.DimensionCountrySet,
	targeting.DimensionDeviceGroup,
}

// StandaloneSplits produces the flat split list that sharding
// consumes: every always-installed, non-runtime module of the
// bundle, split for the bundle's lowest variant, with every
// dimension other than ABI, density and language collapsed to its
// configured default. On-demand and conditional modules are
// fetched individually after install and never fuse into a fat
// APK.
func StandaloneSplits(bndl *bundle.Bundle) ([]split.ModuleSplit, error) {
	variants, err := split.GenerateVariantTargetings(bndl.Modules)
	if err != nil {
		return nil, err
	}

	lowest := xslice.Find(variants, func(variant targeting.VariantTargeting, _ int) bool {
		return !variant.RequiresSDKRuntime
	})

	if lowest.SDKVersion == 0 {
		return nil, bundoerr.New(fmt.Errorf("bundle has no variant that standalone devices fall into"), bundoerr.KindConfigConflict)
	}

	splits := []split.ModuleSplit{}

	for _, module := range bndl.Modules {
		if module.RequiresSDKRuntime || module.Delivery != bundle.DeliveryAlwaysInstalled {
			continue
		}

		entries := module.Entries
		for _, dimension := range collapsedDimensions {
			if entries, err = split.FallbackEntries(entries, dimension, bndl.Config.SuffixDefaults.Get(dimension)); err != nil {
				return nil, fmt.Errorf("module %s: %w", module.Name, err)
			}
		}

		collapsed := module
		collapsed.Entries = entries

		moduleSplits, err := split.SplitModule(&collapsed, lowest, bndl.Config)
		if err != nil {
			return nil, err
		}

		splits = append(splits, moduleSplits...)
	}

	return splits, nil
}

// GenerateStandaloneApks computes the shards of the bundle,
// optionally pre-filtered to one device, and merges each into the
// logical content of one fat APK.
func GenerateStandaloneApks(ctx context.Context, bndl *bundle.Bundle, device *targeting.DeviceSpec, merger Merger) ([]MergedApk, error) {
	splits, err := StandaloneSplits(bndl)
	if err != nil {
		return nil, err
	}

	shards, err := ComputeShards(splits, device)
	if err != nil {
		return nil, err
	}

	apks := make([]MergedApk, 0, len(shards))
	for _, shard := range shards {
		apk, err := merger.Merge(ctx, shard)
		if err != nil {
			return nil, err
		}

		apks = append(apks, *apk)
	}

	return apks, nil
}

// GenerateUniversalApk merges every standalone split into one
// APK that serves any device the bundle supports at all.
func GenerateUniversalApk(ctx context.Context, bndl *bundle.Bundle, merger Merger) (*MergedApk, error) {
	splits, err := StandaloneSplits(bndl)
	if err != nil {
		return nil, err
	}

	universal := Shard{Splits: splits}
	sortSplits(universal.Splits)

	return merger.Merge(ctx, universal)
}
