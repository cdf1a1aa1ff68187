package targeting

import (
	"fmt"
	"strings"
)

// ApkTargeting is the targeting attached to one generated split
// or standalone APK: at most one DimensionTargeting per dimension
// other than the SDK version, which lives on VariantTargeting.
//
// The zero value targets every device.
type ApkTargeting struct {
	ABI                      DimensionTargeting
	ScreenDensity            DimensionTargeting
	Language                 DimensionTargeting
	TextureCompressionFormat DimensionTargeting
	DeviceTier               DimensionTargeting
	CountrySet               DimensionTargeting
	DeviceGroup              DimensionTargeting
}

// Get returns the targeting along the given dimension, which is
// empty when the dimension is untargeted.
func (t ApkTargeting) Get(dimension Dimension) DimensionTargeting {
	targeting := DimensionTargeting{Dimension: dimension}

	switch dimension {
	case DimensionABI:
		targeting = t.ABI
	case DimensionScreenDensity:
		targeting = t.ScreenDensity
	case DimensionLanguage:
		targeting = t.Language
	case DimensionTextureCompressionFormat:
		targeting = t.TextureCompressionFormat
	case DimensionDeviceTier:
		targeting = t.DeviceTier
	case DimensionCountrySet:
		targeting = t.CountrySet
	case DimensionDeviceGroup:
		targeting = t.DeviceGroup
	}

	targeting.Dimension = dimension

	return targeting
}

// With returns a copy of the ApkTargeting with the targeting along
// the given dimension replaced. The receiver is not modified.
func (t ApkTargeting) With(targeting DimensionTargeting) ApkTargeting {
	switch targeting.Dimension {
	case DimensionABI:
		t.ABI = targeting
	case DimensionScreenDensity:
		t.ScreenDensity = targeting
	case DimensionLanguage:
		t.Language = targeting
	case DimensionTextureCompressionFormat:
		t.TextureCompressionFormat = targeting
	case DimensionDeviceTier:
		t.DeviceTier = targeting
	case DimensionCountrySet:
		t.CountrySet = targeting
	case DimensionDeviceGroup:
		t.DeviceGroup = targeting
	}

	return t
}

// Dimensions returns the dimensions that carry values, in the
// stable splitter order.
func (t ApkTargeting) Dimensions() []Dimension {
	dimensions := []Dimension{}

	for _, dimension := range Dimensions {
		if len(t.Get(dimension).Values) > 0 {
			dimensions = append(dimensions, dimension)
		}
	}

	return dimensions
}

// IsDeviceUniversal reports whether the targeting constrains no
// dimension at all, values and alternatives included.
func (t ApkTargeting) IsDeviceUniversal() bool {
	for _, dimension := range Dimensions {
		if !t.Get(dimension).IsEmpty() {
			return false
		}
	}

	return true
}

// Suffix derives the artifact name suffix for the targeting, e.g.
// "arm64_v8a" or "xhdpi", or "master" when no dimension carries
// a value.
func (t ApkTargeting) Suffix() string {
	parts := []string{}

	for _, dimension := range t.Dimensions() {
		for _, value := range t.Get(dimension).Values {
			parts = append(parts, strings.ReplaceAll(value, "-", "_"))
		}
	}

	if len(parts) == 0 {
		return "master"
	}

	return strings.Join(parts, ".")
}

func (t ApkTargeting) String() string {
	parts := []string{}

	for _, dimension := range t.Dimensions() {
		parts = append(parts, fmt.Sprintf("%s=%s", dimension, strings.Join(t.Get(dimension).Values, ",")))
	}

	if len(parts) == 0 {
		return "universal"
	}

	return strings.Join(parts, " ")
}
