package bundle

import (
	"fmt"
	"io"

	"github.com/frantjc/bundo/targeting"
	"gopkg.in/yaml.v3"
)

// ConfigName is the name of the bundle configuration document
// at the root of a bundle.
const ConfigName = "BundleConfig.yaml"

// SuffixDefaults configures, per strippable dimension, the default
// value whose directories get folded into the master split instead
// of producing their own. An empty string means no default.
type SuffixDefaults struct {
	TextureCompressionFormat string `yaml:"textureCompressionFormat,omitempty"`
	DeviceTier               string `yaml:"deviceTier,omitempty"`
	CountrySet               string `yaml:"countrySet,omitempty"`
}

// Get returns the configured default for the dimension, which is
// empty both for unconfigured and for non-strippable dimensions.
func (d SuffixDefaults) Get(dimension targeting.Dimension) string {
	switch dimension {
	case targeting.DimensionTextureCompressionFormat:
		return d.TextureCompressionFormat
	case targeting.DimensionDeviceTier:
		return d.DeviceTier
	case targeting.DimensionCountrySet:
		return d.CountrySet
	}

	return ""
}

// Config is the bundle-wide build configuration. It is injected
// into the pipeline explicitly; nothing reads it from ambient
// state.
type Config struct {
	// SuffixDefaults drive suffix stripping and fallback selection.
	SuffixDefaults SuffixDefaults `yaml:"suffixStripping,omitempty"`
	// Disable64Bit drops 64-bit native libraries. A bundle whose
	// only native libraries are 64-bit cannot set this.
	Disable64Bit bool `yaml:"disable64Bit,omitempty"`
}

// DecodeConfig reads a YAML Config document.
func DecodeConfig(r io.Reader) (*Config, error) {
	config := &Config{}
	if err := yaml.NewDecoder(r).Decode(config); err != nil {
		return nil, fmt.Errorf("decode bundle config: %w", err)
	}

	return config, nil
}
