package targeting

import (
	"fmt"
	"path"
	"strings"

	"github.com/frantjc/bundo/internal/bundoerr"
	xslice "github.com/frantjc/x/slice"
)

// TargetedDirectory is a directory path annotated with the
// targeting encoded by its segments. It is derived purely from
// path syntax and never modified afterwards.
type TargetedDirectory struct {
	Path       string
	Targetings []DimensionTargeting
}

// Targeting returns the directory's targeting along the given
// dimension, if any.
func (td *TargetedDirectory) Targeting(dimension Dimension) (DimensionTargeting, bool) {
	for _, targeting := range td.Targetings {
		if targeting.Dimension == dimension {
			return targeting, true
		}
	}

	return DimensionTargeting{Dimension: dimension}, false
}

// IsTargeted reports whether any segment carried targeting.
func (td *TargetedDirectory) IsTargeted() bool {
	return len(td.Targetings) > 0
}

// Keys of the #<key>_<value> targeting tokens recognized in
// assets directory names.
var assetsTokenDimensions = map[string]Dimension{
	"tcf":       DimensionTextureCompressionFormat,
	"tier":      DimensionDeviceTier,
	"countries": DimensionCountrySet,
	"lang":      DimensionLanguage,
	"group":     DimensionDeviceGroup,
}

// ExtractTargeting parses the directory segments of a module-relative
// file path into the TargetedDirectory of its deepest targeted
// ancestor. Paths whose segments encode no recognized targeting
// yield an untargeted directory; segments that look targeted but do
// not parse are malformed input.
func ExtractTargeting(name string) (*TargetedDirectory, error) {
	var (
		dir      = path.Dir(path.Clean(name))
		segments = strings.Split(dir, "/")
		td       = &TargetedDirectory{Path: dir}
	)

	if dir == "." {
		td.Path = ""
		return td, nil
	}

	for i, segment := range segments {
		switch {
		case i == 1 && segments[0] == "lib":
			if _, found := ABIs[segment]; !found {
				return nil, bundoerr.New(fmt.Errorf("unrecognized abi folder %q in %s", segment, name), bundoerr.KindMalformed)
			}

			if err := td.add(DimensionTargeting{Dimension: DimensionABI, Values: []string{segment}}, name); err != nil {
				return nil, err
			}
		case i == 1 && segments[0] == "res":
			for _, targeting := range parseResourceQualifiers(segment) {
				if err := td.add(targeting, name); err != nil {
					return nil, err
				}
			}
		case strings.Contains(segment, "#"):
			tokens := strings.Split(segment, "#")
			if tokens[0] == "" {
				return nil, bundoerr.New(fmt.Errorf("directory name %q in %s is only targeting tokens", segment, name), bundoerr.KindMalformed)
			}

			for _, token := range tokens[1:] {
				targeting, err := parseToken(token, name)
				if err != nil {
					return nil, err
				}

				if err := td.add(targeting, name); err != nil {
					return nil, err
				}
			}
		}
	}

	return td, nil
}

func (td *TargetedDirectory) add(targeting DimensionTargeting, name string) error {
	if _, found := td.Targeting(targeting.Dimension); found {
		return bundoerr.New(fmt.Errorf("%s is targeted on %s more than once", name, targeting.Dimension), bundoerr.KindMalformed)
	}

	if err := targeting.Validate(); err != nil {
		return bundoerr.New(fmt.Errorf("%s: %w", name, err), bundoerr.KindMalformed)
	}

	td.Targetings = append(td.Targetings, targeting)

	return nil
}

func parseToken(token, name string) (DimensionTargeting, error) {
	key, value, found := strings.Cut(token, "_")
	if !found || value == "" {
		return DimensionTargeting{}, bundoerr.New(fmt.Errorf("targeting token %q in %s has no value", token, name), bundoerr.KindMalformed)
	}

	dimension, found := assetsTokenDimensions[key]
	if !found {
		return DimensionTargeting{}, bundoerr.New(fmt.Errorf("unrecognized targeting key %q in %s", key, name), bundoerr.KindMalformed)
	}

	return DimensionTargeting{Dimension: dimension, Values: []string{value}}, nil
}

// parseResourceQualifiers picks the density and locale qualifiers
// out of a resource directory name such as "drawable-xhdpi" or
// "values-fr-rCA". Qualifiers it does not recognize, like "-v21"
// or "-night", are not targeting and are skipped.
func parseResourceQualifiers(segment string) []DimensionTargeting {
	var (
		qualifiers = strings.Split(segment, "-")
		targetings = []DimensionTargeting{}
	)

	for i := 1; i < len(qualifiers); i++ {
		qualifier := qualifiers[i]

		if _, found := Densities[qualifier]; found || qualifier == "nodpi" {
			targetings = append(targetings, DimensionTargeting{
				Dimension: DimensionScreenDensity,
				Values:    []string{qualifier},
			})
			continue
		}

		if isLanguageQualifier(qualifier) {
			language := qualifier
			// A region qualifier like "rCA" binds to the language
			// before it but does not split further.
			if i+1 < len(qualifiers) && isRegionQualifier(qualifiers[i+1]) {
				i++
			}

			targetings = append(targetings, DimensionTargeting{
				Dimension: DimensionLanguage,
				Values:    []string{language},
			})
		}
	}

	return targetings
}

func isLanguageQualifier(qualifier string) bool {
	if len(qualifier) != 2 && len(qualifier) != 3 {
		return false
	}

	return xslice.Every([]rune(qualifier), func(r rune, _ int) bool {
		return 'a' <= r && r <= 'z'
	})
}

func isRegionQualifier(qualifier string) bool {
	if len(qualifier) != 3 || qualifier[0] != 'r' {
		return false
	}

	return xslice.Every([]rune(qualifier[1:]), func(r rune, _ int) bool {
		return 'A' <= r && r <= 'Z'
	})
}
