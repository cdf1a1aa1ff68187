package split

import (
	"strings"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/targeting"
	xslice "github.com/frantjc/x/slice"
)

// uncompressedDexSDKVersion is the first SDK version whose
// platform reads uncompressed dex out of an APK directly.
const uncompressedDexSDKVersion = 28

func isDexEntry(entry bundle.Entry) bool {
	return strings.HasPrefix(entry.Path, "dex/") && strings.HasSuffix(entry.Path, ".dex")
}

// setDexCompression is the one splitter stage that is not
// geometric: it never explodes a split, it only decides the
// compression intent of dex entries from the variant's minimum
// SDK version. Devices below the threshold get compressed dex,
// everything else gets uncompressed dex.
func setDexCompression(splits []ModuleSplit, variant targeting.VariantTargeting) []ModuleSplit {
	uncompressed := variant.SDKVersion >= uncompressedDexSDKVersion

	return xslice.Map(splits, func(split ModuleSplit, _ int) ModuleSplit {
		return split.WithEntries(xslice.Map(split.Entries, func(entry bundle.Entry, _ int) bundle.Entry {
			if isDexEntry(entry) {
				entry.ForceUncompressed = uncompressed
			}

			return entry
		}))
	})
}
