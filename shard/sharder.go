// Package shard regroups generated splits into self-contained
// shards that merge into single fat APKs for devices that cannot
// install split APKs.
package shard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/split"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
)

// Shard is an ordered group of splits meant to be merged into one
// standalone APK: every module's master and language splits plus
// at most one ABI value group and one density value group.
type Shard struct {
	ABI           targeting.DimensionTargeting
	ScreenDensity targeting.DimensionTargeting
	Splits        []split.ModuleSplit
}

// ApkTargeting is the merged targeting of the shard.
func (s Shard) ApkTargeting() targeting.ApkTargeting {
	t := targeting.ApkTargeting{}

	if len(s.ABI.Values) > 0 {
		t = t.With(s.ABI)
	}

	if len(s.ScreenDensity.Values) > 0 {
		t = t.With(s.ScreenDensity)
	}

	return t
}

// Suffix is the artifact name suffix of the shard, e.g.
// "arm64_v8a.xhdpi" or "universal".
func (s Shard) Suffix() string {
	parts := []string{}

	for _, values := range [][]string{s.ABI.Values, s.ScreenDensity.Values} {
		for _, value := range values {
			parts = append(parts, strings.ReplaceAll(value, "-", "_"))
		}
	}

	if len(parts) == 0 {
		return "universal"
	}

	return strings.Join(parts, ".")
}

// ComputeShards partitions the flat split list into the minimal
// set of shards whose union covers every (ABI, density)
// combination present, with no overlap. Master and language
// splits are universal: they join every shard and never drive the
// grouping. When a device spec is given, value groups the device
// cannot use are dropped before the cartesian product, which can
// legitimately collapse it to a single shard.
func ComputeShards(splits []split.ModuleSplit, device *targeting.DeviceSpec) ([]Shard, error) {
	var (
		universal = []split.ModuleSplit{}
		abi       = []split.ModuleSplit{}
		density   = []split.ModuleSplit{}
	)

	for _, s := range splits {
		switch {
		case s.IsMaster, len(s.ApkTargeting.Language.Values) > 0:
			universal = append(universal, s)
		case len(s.ApkTargeting.ABI.Values) > 0:
			abi = append(abi, s)
		case len(s.ApkTargeting.ScreenDensity.Values) > 0:
			density = append(density, s)
		default:
			return nil, bundoerr.New(
				fmt.Errorf("split %s of module %s targets %s, which sharding cannot regroup", s.Suffix(), s.ModuleName, s.ApkTargeting),
				bundoerr.KindInternal,
			)
		}
	}

	if err := verifyUniverses(abi, targeting.DimensionABI); err != nil {
		return nil, err
	}

	if err := verifyUniverses(density, targeting.DimensionScreenDensity); err != nil {
		return nil, err
	}

	if device != nil {
		match := func(s split.ModuleSplit, _ int) bool {
			return device.Matches(s.ApkTargeting)
		}

		abi = xslice.Filter(abi, match)
		density = xslice.Filter(density, match)
	}

	var (
		abiGroups     = groupByValue(abi, targeting.DimensionABI)
		densityGroups = groupByValue(density, targeting.DimensionScreenDensity)
		shards        = []Shard{}
	)

	for _, abiGroup := range abiGroups {
		for _, densityGroup := range densityGroups {
			shard := Shard{
				ABI:           abiGroup.targeting,
				ScreenDensity: densityGroup.targeting,
			}

			shard.Splits = append(shard.Splits, universal...)
			shard.Splits = append(shard.Splits, abiGroup.splits...)
			shard.Splits = append(shard.Splits, densityGroup.splits...)
			sortSplits(shard.Splits)

			shards = append(shards, shard)
		}
	}

	if len(shards) == 0 {
		return nil, bundoerr.New(fmt.Errorf("sharding produced no shards"), bundoerr.KindInternal)
	}

	return shards, nil
}

// verifyUniverses checks that every module producing splits along
// the dimension agrees on the exact same value universe. A merged
// APK cannot offer devices a coherent value set otherwise. The
// validator pipeline checks this upstream for some dimensions,
// but the check spans the split/shard boundary, so it is
// re-verified here before any shard is emitted.
func verifyUniverses(splits []split.ModuleSplit, dimension targeting.Dimension) error {
	universes := map[string][]string{}

	for _, s := range splits {
		for _, value := range s.ApkTargeting.Get(dimension).Values {
			if !xslice.Includes(universes[s.ModuleName], value) {
				universes[s.ModuleName] = append(universes[s.ModuleName], value)
			}
		}
	}

	var (
		first       string
		firstValues []string
	)

	for _, moduleName := range sortedKeys(universes) {
		values := universes[moduleName]
		slices.Sort(values)

		if first == "" {
			first, firstValues = moduleName, values
			continue
		}

		if !slices.Equal(firstValues, values) {
			return bundoerr.New(
				fmt.Errorf("modules %s and %s target different %s universes: %v vs %v", first, moduleName, dimension, firstValues, values),
				bundoerr.KindInconsistent,
			)
		}
	}

	return nil
}

type valueGroup struct {
	targeting targeting.DimensionTargeting
	splits    []split.ModuleSplit
}

// groupByValue partitions the splits by their single targeted
// value along the dimension, ordered by value. An absent
// dimension yields a single synthetic empty group so that the
// cartesian product never collapses to nothing.
func groupByValue(splits []split.ModuleSplit, dimension targeting.Dimension) []valueGroup {
	if len(splits) == 0 {
		return []valueGroup{{targeting: targeting.DimensionTargeting{Dimension: dimension}}}
	}

	byValue := map[string][]split.ModuleSplit{}
	for _, s := range splits {
		value := s.ApkTargeting.Get(dimension).Values[0]
		byValue[value] = append(byValue[value], s)
	}

	groups := []valueGroup{}
	for _, value := range sortedKeys(byValue) {
		groups = append(groups, valueGroup{
			targeting: byValue[value][0].ApkTargeting.Get(dimension),
			splits:    byValue[value],
		})
	}

	return groups
}

// sortSplits orders a shard deterministically: the base module
// before every other module, and each module's master split
// before the rest of its splits.
func sortSplits(splits []split.ModuleSplit) {
	rank := func(s split.ModuleSplit) string {
		name := s.ModuleName
		if name == "base" {
			name = ""
		}

		suffix := s.Suffix()
		if s.IsMaster {
			suffix = ""
		}

		return name + "\x00" + suffix
	}

	slices.SortStableFunc(splits, func(a, b split.ModuleSplit) int {
		return strings.Compare(rank(a), rank(b))
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
