package split_test

import (
	"testing"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/split"
	"github.com/frantjc/bundo/targeting"
	"github.com/google/go-cmp/cmp"
)

func TestStripSuffix(t *testing.T) {
	for name, expected := range map[string]string{
		"assets/img#tcf_etc1/tex.png":        "assets/img/tex.png",
		"assets/img#tcf_etc1#tier_1/tex.png": "assets/img#tier_1/tex.png",
		"assets/img/tex.png":                 "assets/img/tex.png",
	} {
		if got := split.StripSuffix(name, targeting.DimensionTextureCompressionFormat); got != expected {
			t.Errorf("%s: expected %s, got %s", name, expected, got)
		}
	}
}

func TestFallbackEntries(t *testing.T) {
	entries := []bundle.Entry{
		entry("assets/img#tcf_etc1/tex.png", "etc1"),
		entry("assets/img#tcf_astc/tex.png", "astc"),
		entry("assets/other/readme.txt", "hi"),
	}

	kept, err := split.FallbackEntries(entries, targeting.DimensionTextureCompressionFormat, "etc1")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"assets/img/tex.png", "assets/other/readme.txt"}, paths(kept)); diff != "" {
		t.Errorf("unexpected surviving entries:\n%s", diff)
	}

	if _, err = split.FallbackEntries(entries, targeting.DimensionTextureCompressionFormat, ""); err == nil {
		t.Error("expected error collapsing a targeted dimension without a default")
	} else if kind := bundoerr.KindOf(err); kind != bundoerr.KindConfigConflict {
		t.Errorf("expected configuration conflict, got %s", kind)
	}

	if _, err = split.FallbackEntries(entries, targeting.DimensionTextureCompressionFormat, "pvrtc"); err == nil {
		t.Error("expected error for a default matching no content")
	}

	// Collapsing an untargeted dimension keeps everything.
	kept, err = split.FallbackEntries(entries, targeting.DimensionDeviceTier, "")
	if err != nil {
		t.Fatal(err)
	}

	if len(kept) != 3 {
		t.Errorf("expected every entry to survive, got %d", len(kept))
	}
}
