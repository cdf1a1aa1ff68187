package targeting

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	xslice "github.com/frantjc/x/slice"
	"gopkg.in/yaml.v3"
)

// DeviceSpec describes one concrete device's capabilities. It is
// only ever used to filter and match generated artifacts, never
// to drive generation.
type DeviceSpec struct {
	SupportedABIs             []string `yaml:"supportedAbis,omitempty" json:"supportedAbis,omitempty"`
	ScreenDensity             int      `yaml:"screenDensity,omitempty" json:"screenDensity,omitempty"`
	SupportedLocales          []string `yaml:"supportedLocales,omitempty" json:"supportedLocales,omitempty"`
	SDKVersion                int      `yaml:"sdkVersion,omitempty" json:"sdkVersion,omitempty"`
	TextureCompressionFormats []string `yaml:"textureCompressionFormats,omitempty" json:"textureCompressionFormats,omitempty"`
	DeviceTier                int      `yaml:"deviceTier,omitempty" json:"deviceTier,omitempty"`
	CountrySet                string   `yaml:"countrySet,omitempty" json:"countrySet,omitempty"`
	DeviceGroups              []string `yaml:"deviceGroups,omitempty" json:"deviceGroups,omitempty"`
}

// DecodeDeviceSpec reads a YAML DeviceSpec document.
func DecodeDeviceSpec(r io.Reader) (*DeviceSpec, error) {
	spec := &DeviceSpec{}
	if err := yaml.NewDecoder(r).Decode(spec); err != nil {
		return nil, fmt.Errorf("decode device spec: %w", err)
	}

	if spec.SDKVersion <= 0 {
		return nil, fmt.Errorf("device spec has no sdkVersion")
	}

	return spec, nil
}

// MatchesVariant reports whether the device falls into the
// variant's bucket.
func (d *DeviceSpec) MatchesVariant(variant VariantTargeting) bool {
	return variant.Matches(d.SDKVersion) && !variant.RequiresSDKRuntime
}

// Matches reports whether the device would be served an APK
// carrying the given targeting: for every dimension the targeting
// constrains, the device's capability must be covered by the
// targeting's values rather than its alternatives.
func (d *DeviceSpec) Matches(t ApkTargeting) bool {
	return xslice.Every(Dimensions, func(dimension Dimension, _ int) bool {
		return d.matchesDimension(t.Get(dimension))
	})
}

func (d *DeviceSpec) matchesDimension(t DimensionTargeting) bool {
	if len(t.Values) == 0 {
		return true
	}

	switch t.Dimension {
	case DimensionABI:
		// The device's ABI list is in preference order; the split
		// serves the device if it covers the most preferred ABI
		// that the bundle targets at all.
		for _, abi := range d.SupportedABIs {
			if xslice.Includes(t.Values, abi) {
				return true
			}

			if xslice.Includes(t.Alternatives, abi) {
				return false
			}
		}

		return false
	case DimensionScreenDensity:
		if d.ScreenDensity == 0 {
			return true
		}

		return bestDensity(t, d.ScreenDensity)
	case DimensionLanguage:
		return xslice.Some(d.SupportedLocales, func(locale string, _ int) bool {
			return xslice.Includes(t.Values, strings.SplitN(locale, "-", 2)[0])
		})
	case DimensionTextureCompressionFormat:
		return xslice.Some(t.Values, func(value string, _ int) bool {
			return xslice.Includes(d.TextureCompressionFormats, value)
		})
	case DimensionDeviceTier:
		return xslice.Includes(t.Values, strconv.Itoa(d.DeviceTier))
	case DimensionCountrySet:
		return xslice.Includes(t.Values, d.CountrySet)
	case DimensionDeviceGroup:
		return xslice.Some(t.Values, func(value string, _ int) bool {
			return xslice.Includes(d.DeviceGroups, value)
		})
	}

	return true
}

// bestDensity reports whether the targeting's values contain the
// density bucket closest to the device's dots-per-inch among every
// bucket the targeting knows about, preferring the denser bucket
// on a tie.
func bestDensity(t DimensionTargeting, dpi int) bool {
	var (
		best         string
		bestDistance int
	)

	for _, value := range append(append([]string{}, t.Values...), t.Alternatives...) {
		valueDPI, found := Densities[value]
		if !found {
			continue
		}

		distance := valueDPI - dpi
		if distance < 0 {
			distance = -distance
		}

		if best == "" || distance < bestDistance || (distance == bestDistance && valueDPI > Densities[best]) {
			best, bestDistance = value, distance
		}
	}

	return xslice.Includes(t.Values, best)
}
