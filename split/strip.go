package split

import (
	"fmt"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/targeting"
)

// FallbackEntries selects which content survives when the given
// dimension is collapsed away entirely, as standalone and
// universal APK generation do: untargeted entries always survive,
// the configured default value's entries survive with their
// targeting token stripped, and every other targeted entry is
// dropped.
//
// A dimension that is targeted but has no configured default
// cannot be collapsed; nor can a default that names a value none
// of the entries carry.
func FallbackEntries(entries []bundle.Entry, dimension targeting.Dimension, defaultValue string) ([]bundle.Entry, error) {
	var (
		kept        = []bundle.Entry{}
		sawTargeted bool
		sawDefault  bool
	)

	for _, entry := range entries {
		dir, err := targeting.ExtractTargeting(entry.Path)
		if err != nil {
			return nil, err
		}

		t, found := dir.Targeting(dimension)
		if !found {
			kept = append(kept, entry)
			continue
		}

		sawTargeted = true

		if defaultValue != "" && t.Values[0] == defaultValue {
			sawDefault = true
			entry.Path = StripSuffix(entry.Path, dimension)
			kept = append(kept, entry)
		}
	}

	if sawTargeted && defaultValue == "" {
		return nil, bundoerr.New(
			fmt.Errorf("cannot collapse %s without a configured default value", dimension),
			bundoerr.KindConfigConflict,
		)
	}

	if sawTargeted && !sawDefault {
		return nil, bundoerr.New(
			fmt.Errorf("configured default %s %q matches no content", dimension, defaultValue),
			bundoerr.KindConfigConflict,
		)
	}

	return kept, nil
}
