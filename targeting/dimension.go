package targeting

// Dimension is one of the independent axes that the contents
// of a bundle can be targeted along. The set of dimensions is
// closed; it is never extended at runtime.
type Dimension int

const (
	DimensionABI Dimension = iota
	DimensionScreenDensity
	DimensionLanguage
	DimensionTextureCompressionFormat
	DimensionDeviceTier
	DimensionCountrySet
	DimensionDeviceGroup
	DimensionSDKVersion
)

// Dimensions lists every Dimension in the stable order that
// splitters run and artifacts are named in.
var Dimensions = []Dimension{
	DimensionABI,
	DimensionScreenDensity,
	DimensionLanguage,
	DimensionTextureCompressionFormat,
	DimensionDeviceTier,
	DimensionCountrySet,
	DimensionDeviceGroup,
	DimensionSDKVersion,
}

func (d Dimension) String() string {
	switch d {
	case DimensionABI:
		return "abi"
	case DimensionScreenDensity:
		return "screen_density"
	case DimensionLanguage:
		return "language"
	case DimensionTextureCompressionFormat:
		return "texture_compression_format"
	case DimensionDeviceTier:
		return "device_tier"
	case DimensionCountrySet:
		return "country_set"
	case DimensionDeviceGroup:
		return "device_group"
	case DimensionSDKVersion:
		return "sdk_version"
	}

	return "unknown"
}

// ABIs maps every recognized native library folder name to
// whether the ABI it names is 64-bit.
var ABIs = map[string]bool{
	"armeabi":     false,
	"armeabi-v7a": false,
	"arm64-v8a":   true,
	"x86":         false,
	"x86_64":      true,
	"mips":        false,
	"mips64":      true,
	"riscv64":     true,
}

// Densities maps every recognized screen density bucket to
// its dots-per-inch value.
var Densities = map[string]int{
	"ldpi":    120,
	"mdpi":    160,
	"tvdpi":   213,
	"hdpi":    240,
	"xhdpi":   320,
	"xxhdpi":  480,
	"xxxhdpi": 640,
}

// TextureCompressionFormats is every recognized value of the
// tcf targeting token.
var TextureCompressionFormats = []string{
	"astc",
	"atc",
	"dxt1",
	"etc1",
	"etc2",
	"latc",
	"paletted",
	"pvrtc",
	"s3tc",
	"three_dc",
}
