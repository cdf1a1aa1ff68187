package split

import (
	"fmt"
	"slices"
	"strings"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
)

// geometricDimensions are the dimensions whose splitters explode
// a split into one split per targeted value, in pipeline order.
var geometricDimensions = []targeting.Dimension{
	targeting.DimensionABI,
	targeting.DimensionScreenDensity,
	targeting.DimensionLanguage,
	targeting.DimensionTextureCompressionFormat,
	targeting.DimensionDeviceTier,
	targeting.DimensionCountrySet,
	targeting.DimensionDeviceGroup,
}

// strippableDimensions may have a configured default value whose
// content folds into the master split.
var strippableDimensions = []targeting.Dimension{
	targeting.DimensionTextureCompressionFormat,
	targeting.DimensionDeviceTier,
	targeting.DimensionCountrySet,
}

type annotatedEntry struct {
	entry bundle.Entry
	dir   *targeting.TargetedDirectory
}

type workSplit struct {
	targeting targeting.ApkTargeting
	entries   []annotatedEntry
	isMaster  bool
}

// SplitModule produces every split of one module for one variant:
// the master split plus one split per targeted dimension value,
// with correct value/alternatives metadata. The per-dimension
// splitters run as a pipeline, each consuming the previous
// stage's splits.
func SplitModule(module *bundle.Module, variant targeting.VariantTargeting, config bundle.Config) ([]ModuleSplit, error) {
	entries, err := annotate(module)
	if err != nil {
		return nil, err
	}

	entries, err = filter64Bit(module, entries, config)
	if err != nil {
		return nil, err
	}

	splits := []workSplit{{entries: entries, isMaster: true}}

	for _, dimension := range geometricDimensions {
		universe := universeOf(entries, dimension)
		if len(universe) == 0 {
			// Nothing in this module targets the dimension; a
			// configured default has nothing to strip either.
			continue
		}

		defaultValue := ""
		if slices.Contains(strippableDimensions, dimension) {
			defaultValue = config.SuffixDefaults.Get(dimension)
			if defaultValue != "" && !xslice.Includes(universe, defaultValue) {
				return nil, bundoerr.New(
					fmt.Errorf("module %s targets %s values %v, which do not include the configured default %q", module.Name, dimension, universe, defaultValue),
					bundoerr.KindConfigConflict,
				)
			}
		}

		splits = explode(splits, dimension, universe, defaultValue)
	}

	moduleSplits := xslice.Map(splits, func(split workSplit, _ int) ModuleSplit {
		return ModuleSplit{
			ModuleName:       module.Name,
			IsMaster:         split.isMaster,
			ApkTargeting:     split.targeting,
			VariantTargeting: variant,
			Entries: xslice.Map(split.entries, func(entry annotatedEntry, _ int) bundle.Entry {
				return entry.entry
			}),
		}
	})

	moduleSplits = setDexCompression(moduleSplits, variant)

	if err := verifyDisjoint(module.Name, moduleSplits); err != nil {
		return nil, err
	}

	return moduleSplits, nil
}

func annotate(module *bundle.Module) ([]annotatedEntry, error) {
	entries := make([]annotatedEntry, 0, len(module.Entries))

	for _, entry := range module.Entries {
		dir, err := targeting.ExtractTargeting(entry.Path)
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", module.Name, err)
		}

		entries = append(entries, annotatedEntry{entry: entry, dir: dir})
	}

	return entries, nil
}

// filter64Bit drops 64-bit native libraries when the bundle
// disables 64-bit support. A module whose native libraries are
// exclusively 64-bit cannot be served at all then, which is a
// contradiction in the bundle's configuration.
func filter64Bit(module *bundle.Module, entries []annotatedEntry, config bundle.Config) ([]annotatedEntry, error) {
	if !config.Disable64Bit {
		return entries, nil
	}

	is64Bit := func(entry annotatedEntry, _ int) bool {
		t, found := entry.dir.Targeting(targeting.DimensionABI)
		return found && xslice.Every(t.Values, func(abi string, _ int) bool {
			return targeting.ABIs[abi]
		})
	}

	native := xslice.Filter(entries, func(entry annotatedEntry, _ int) bool {
		_, found := entry.dir.Targeting(targeting.DimensionABI)
		return found
	})

	if len(native) > 0 && xslice.Every(native, is64Bit) {
		return nil, bundoerr.New(
			fmt.Errorf("module %s has only 64-bit native libraries while 64-bit support is disabled", module.Name),
			bundoerr.KindConfigConflict,
		)
	}

	return xslice.Filter(entries, func(entry annotatedEntry, i int) bool {
		return !is64Bit(entry, i)
	}), nil
}

// universeOf computes the full sorted set of values targeted along
// the dimension across the module.
func universeOf(entries []annotatedEntry, dimension targeting.Dimension) []string {
	universe := []string{}

	for _, entry := range entries {
		if t, found := entry.dir.Targeting(dimension); found {
			for _, value := range t.Values {
				if !xslice.Includes(universe, value) {
					universe = append(universe, value)
				}
			}
		}
	}

	slices.Sort(universe)

	return universe
}

// explode runs one geometric splitter stage: every input split's
// entries targeted along the dimension move into one new split
// per value, while untouched entries stay where they were. When a
// default value is configured its content folds back into the
// input split instead, which then carries the default as its own
// targeting (the fallback-becomes-master policy).
func explode(splits []workSplit, dimension targeting.Dimension, universe []string, defaultValue string) []workSplit {
	out := []workSplit{}

	for _, split := range splits {
		var (
			byValue = map[string][]annotatedEntry{}
			rest    = []annotatedEntry{}
			folded  bool
		)

		for _, entry := range split.entries {
			t, found := entry.dir.Targeting(dimension)
			if !found {
				rest = append(rest, entry)
				continue
			}

			value := t.Values[0]
			if value == defaultValue {
				rest = append(rest, stripEntry(entry, dimension))
				folded = true
				continue
			}

			byValue[value] = append(byValue[value], entry)
		}

		remainder := split
		remainder.entries = rest

		// Only a split that actually absorbed default-valued
		// content carries the default as its own targeting;
		// a split that merely passed through the stage must
		// stay installable on any device.
		if folded {
			remainder.targeting = remainder.targeting.With(targeting.DimensionTargeting{
				Dimension: dimension,
				Values:    []string{defaultValue},
				Alternatives: xslice.Filter(universe, func(value string, _ int) bool {
					return value != defaultValue
				}),
			})
		}

		out = append(out, remainder)

		for _, value := range universe {
			entries, found := byValue[value]
			if !found {
				continue
			}

			out = append(out, workSplit{
				targeting: split.targeting.With(targeting.DimensionTargeting{
					Dimension: dimension,
					Values:    []string{value},
					Alternatives: xslice.Filter(universe, func(alternative string, _ int) bool {
						return alternative != value
					}),
				}),
				entries: entries,
			})
		}
	}

	return out
}

func stripEntry(entry annotatedEntry, dimension targeting.Dimension) annotatedEntry {
	entry.entry.Path = StripSuffix(entry.entry.Path, dimension)
	return entry
}

// verifyDisjoint asserts that no two splits of one module in one
// variant overlap on any dimension. A violation is a defect in the
// splitters, not in the input.
func verifyDisjoint(moduleName string, splits []ModuleSplit) error {
	for _, dimension := range geometricDimensions {
		targeted := xslice.Filter(splits, func(split ModuleSplit, _ int) bool {
			return len(split.ApkTargeting.Get(dimension).Values) > 0 && !split.IsMaster
		})

		for i := range targeted {
			for j := i + 1; j < len(targeted); j++ {
				var (
					a = targeted[i].ApkTargeting
					b = targeted[j].ApkTargeting
				)

				if a.Get(dimension).Overlaps(b.Get(dimension)) && overlapsElsewhere(a, b, dimension) {
					return bundoerr.New(
						fmt.Errorf("module %s generated overlapping splits %s and %s on %s", moduleName, a, b, dimension),
						bundoerr.KindInternal,
					)
				}
			}
		}
	}

	return nil
}

// overlapsElsewhere reports whether two targetings are compatible
// on every dimension other than the given one, i.e. whether some
// device could match both.
func overlapsElsewhere(a, b targeting.ApkTargeting, dimension targeting.Dimension) bool {
	return xslice.Every(geometricDimensions, func(other targeting.Dimension, _ int) bool {
		if other == dimension {
			return true
		}

		var (
			at = a.Get(other)
			bt = b.Get(other)
		)

		return len(at.Values) == 0 || len(bt.Values) == 0 || at.Overlaps(bt)
	})
}

// StripSuffix removes the targeting token of the given dimension
// from every directory segment of the path, e.g. stripping
// "assets/img#tcf_etc1/x.png" on the texture dimension yields
// "assets/img/x.png".
func StripSuffix(name string, dimension targeting.Dimension) string {
	key := ""
	switch dimension {
	case targeting.DimensionTextureCompressionFormat:
		key = "tcf"
	case targeting.DimensionDeviceTier:
		key = "tier"
	case targeting.DimensionCountrySet:
		key = "countries"
	case targeting.DimensionLanguage:
		key = "lang"
	case targeting.DimensionDeviceGroup:
		key = "group"
	default:
		return name
	}

	segments := strings.Split(name, "/")
	for i, segment := range segments {
		if !strings.Contains(segment, "#") {
			continue
		}

		tokens := strings.Split(segment, "#")
		kept := tokens[:1]
		for _, token := range tokens[1:] {
			if !strings.HasPrefix(token, key+"_") {
				kept = append(kept, token)
			}
		}

		segments[i] = strings.Join(kept, "#")
	}

	return strings.Join(segments, "/")
}
