package split_test

import (
	"io"
	"sort"
	"testing"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/split"
	"github.com/frantjc/bundo/targeting"
	"github.com/google/go-cmp/cmp"
)

func entry(path, content string) bundle.Entry {
	return bundle.Entry{Path: path, Content: bundle.BytesContent(content)}
}

func paths(entries []bundle.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Path)
	}

	sort.Strings(out)

	return out
}

func findSplit(t *testing.T, splits []split.ModuleSplit, suffix string) split.ModuleSplit {
	t.Helper()

	for _, s := range splits {
		if s.Suffix() == suffix {
			return s
		}
	}

	t.Fatalf("no split with suffix %q among %d splits", suffix, len(splits))

	return split.ModuleSplit{}
}

func TestSplitModuleABI(t *testing.T) {
	module := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("dex/classes.dex", "dex"),
			entry("lib/arm64-v8a/libfoo.so", "arm64"),
			entry("lib/x86/libfoo.so", "x86"),
			entry("assets/raw/data.bin", "data"),
		},
	}

	splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 21}, bundle.Config{})
	if err != nil {
		t.Fatal(err)
	}

	if len(splits) != 3 {
		t.Fatalf("expected master plus 2 abi splits, got %d", len(splits))
	}

	master := findSplit(t, splits, "master")
	if !master.IsMaster {
		t.Error("expected master split to be marked master")
	}

	if diff := cmp.Diff([]string{"assets/raw/data.bin", "dex/classes.dex"}, paths(master.Entries)); diff != "" {
		t.Errorf("unexpected master entries:\n%s", diff)
	}

	arm64 := findSplit(t, splits, "arm64_v8a")
	if diff := cmp.Diff([]string{"lib/arm64-v8a/libfoo.so"}, paths(arm64.Entries)); diff != "" {
		t.Errorf("unexpected arm64 entries:\n%s", diff)
	}

	abi := arm64.ApkTargeting.ABI
	if diff := cmp.Diff([]string{"x86"}, abi.Alternatives); diff != "" {
		t.Errorf("unexpected arm64 alternatives:\n%s", diff)
	}
}

func TestSplitModuleSuffixStripping(t *testing.T) {
	module := &bundle.Module{
		Name: "assetpack",
		Entries: []bundle.Entry{
			entry("assets/img#tcf_etc1/tex.png", "etc1 texture"),
			entry("assets/img#tcf_astc/tex.png", "astc texture"),
			entry("assets/other/readme.txt", "hi"),
		},
	}

	config := bundle.Config{
		SuffixDefaults: bundle.SuffixDefaults{TextureCompressionFormat: "etc1"},
	}

	splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 1}, config)
	if err != nil {
		t.Fatal(err)
	}

	if len(splits) != 2 {
		t.Fatalf("expected master plus one astc split, got %d", len(splits))
	}

	master := findSplit(t, splits, "master")
	if diff := cmp.Diff([]string{"assets/img/tex.png", "assets/other/readme.txt"}, paths(master.Entries)); diff != "" {
		t.Errorf("unexpected master entries:\n%s", diff)
	}

	// The fallback-becomes-master policy: the master carries the
	// default value's targeting.
	if diff := cmp.Diff([]string{"etc1"}, master.ApkTargeting.TextureCompressionFormat.Values); diff != "" {
		t.Errorf("unexpected master texture targeting:\n%s", diff)
	}

	// Round-trip: the folded content is byte-identical to the
	// default directory's original entries.
	for _, s := range master.Entries {
		if s.Path != "assets/img/tex.png" {
			continue
		}

		rc, err := s.Content.Open()
		if err != nil {
			t.Fatal(err)
		}

		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}

		if string(b) != "etc1 texture" {
			t.Errorf("unexpected folded content %q", b)
		}
	}

	astc := findSplit(t, splits, "astc")
	if diff := cmp.Diff([]string{"assets/img#tcf_astc/tex.png"}, paths(astc.Entries)); diff != "" {
		t.Errorf("unexpected astc entries:\n%s", diff)
	}
}

// Only the split that folded the default value's content carries
// the fallback targeting; an abi split passing through the texture
// stage untouched must stay installable on any device.
func TestSplitModuleSuffixStrippingLeavesOtherSplitsAlone(t *testing.T) {
	module := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("lib/arm64-v8a/libfoo.so", "arm64"),
			entry("assets/img#tcf_etc1/tex.png", "etc1 texture"),
			entry("assets/img#tcf_astc/tex.png", "astc texture"),
		},
	}

	config := bundle.Config{
		SuffixDefaults: bundle.SuffixDefaults{TextureCompressionFormat: "etc1"},
	}

	splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 21}, config)
	if err != nil {
		t.Fatal(err)
	}

	if len(splits) != 3 {
		t.Fatalf("expected master, arm64 and astc splits, got %d", len(splits))
	}

	arm64 := findSplit(t, splits, "arm64_v8a")
	if len(arm64.ApkTargeting.TextureCompressionFormat.Values) > 0 {
		t.Errorf("abi split must not carry texture targeting, got %v", arm64.ApkTargeting.TextureCompressionFormat.Values)
	}

	master := findSplit(t, splits, "master")
	if diff := cmp.Diff([]string{"etc1"}, master.ApkTargeting.TextureCompressionFormat.Values); diff != "" {
		t.Errorf("unexpected master texture targeting:\n%s", diff)
	}

	astcDevice := &targeting.DeviceSpec{
		SupportedABIs:             []string{"arm64-v8a"},
		ScreenDensity:             480,
		SDKVersion:                30,
		TextureCompressionFormats: []string{"astc"},
	}

	if !astcDevice.Matches(arm64.ApkTargeting) {
		t.Error("expected an astc-only device to still match the abi split")
	}
}

func TestSplitModuleSuffixDefaultUnsupported(t *testing.T) {
	module := &bundle.Module{
		Name: "assetpack",
		Entries: []bundle.Entry{
			entry("assets/img#tcf_astc/tex.png", "astc texture"),
		},
	}

	config := bundle.Config{
		SuffixDefaults: bundle.SuffixDefaults{TextureCompressionFormat: "etc1"},
	}

	_, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 1}, config)
	if err == nil {
		t.Fatal("expected error")
	}

	if kind := bundoerr.KindOf(err); kind != bundoerr.KindConfigConflict {
		t.Errorf("expected configuration conflict, got %s", kind)
	}
}

func TestSplitModuleLanguageAndDensity(t *testing.T) {
	module := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("res/drawable-mdpi/icon.png", "mdpi"),
			entry("res/drawable-xhdpi/icon.png", "xhdpi"),
			entry("res/values-fr/strings.xml", "fr"),
			entry("res/values/strings.xml", "default"),
		},
	}

	splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 21}, bundle.Config{})
	if err != nil {
		t.Fatal(err)
	}

	// master, mdpi, xhdpi, fr.
	if len(splits) != 4 {
		t.Fatalf("expected 4 splits, got %d", len(splits))
	}

	fr := findSplit(t, splits, "fr")
	if len(fr.ApkTargeting.ScreenDensity.Values) > 0 {
		t.Error("language split must not carry density targeting")
	}

	master := findSplit(t, splits, "master")
	if diff := cmp.Diff([]string{"res/values/strings.xml"}, paths(master.Entries)); diff != "" {
		t.Errorf("unexpected master entries:\n%s", diff)
	}
}

// No device may match two splits of the same module in the same
// variant along one dimension.
func TestSplitModuleDisjoint(t *testing.T) {
	module := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("lib/arm64-v8a/libfoo.so", "a"),
			entry("lib/armeabi-v7a/libfoo.so", "b"),
			entry("res/drawable-hdpi/icon.png", "c"),
			entry("res/drawable-xxhdpi/icon.png", "d"),
			entry("assets/tex#tcf_etc2/t.bin", "e"),
		},
	}

	splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: 21}, bundle.Config{})
	if err != nil {
		t.Fatal(err)
	}

	for _, dimension := range []targeting.Dimension{
		targeting.DimensionABI,
		targeting.DimensionScreenDensity,
		targeting.DimensionTextureCompressionFormat,
	} {
		for i := range splits {
			for j := i + 1; j < len(splits); j++ {
				var (
					a = splits[i].ApkTargeting.Get(dimension)
					b = splits[j].ApkTargeting.Get(dimension)
				)

				if len(a.Values) > 0 && a.Overlaps(b) {
					t.Errorf("splits %s and %s overlap on %s", splits[i].Suffix(), splits[j].Suffix(), dimension)
				}
			}
		}
	}
}

func TestSplitModuleDexCompression(t *testing.T) {
	module := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("dex/classes.dex", "dex"),
		},
	}

	for variantSDK, uncompressed := range map[int]bool{
		1:  false,
		21: false,
		28: true,
		33: true,
	} {
		splits, err := split.SplitModule(module, targeting.VariantTargeting{SDKVersion: variantSDK}, bundle.Config{})
		if err != nil {
			t.Fatal(err)
		}

		if len(splits) != 1 {
			t.Fatalf("expected the dex stage to never explode, got %d splits", len(splits))
		}

		if got := splits[0].Entries[0].ForceUncompressed; got != uncompressed {
			t.Errorf("variant sdk %d: expected uncompressed=%t, got %t", variantSDK, uncompressed, got)
		}
	}
}

func TestSplitModule64BitDisabled(t *testing.T) {
	only64 := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("lib/arm64-v8a/libfoo.so", "a"),
			entry("lib/x86_64/libfoo.so", "b"),
		},
	}

	_, err := split.SplitModule(only64, targeting.VariantTargeting{SDKVersion: 21}, bundle.Config{Disable64Bit: true})
	if err == nil {
		t.Fatal("expected error")
	}

	if kind := bundoerr.KindOf(err); kind != bundoerr.KindConfigConflict {
		t.Errorf("expected configuration conflict, got %s", kind)
	}

	mixed := &bundle.Module{
		Name: "base",
		Entries: []bundle.Entry{
			entry("lib/arm64-v8a/libfoo.so", "a"),
			entry("lib/armeabi-v7a/libfoo.so", "b"),
		},
	}

	splits, err := split.SplitModule(mixed, targeting.VariantTargeting{SDKVersion: 21}, bundle.Config{Disable64Bit: true})
	if err != nil {
		t.Fatal(err)
	}

	if len(splits) != 2 {
		t.Fatalf("expected master and one 32-bit abi split, got %d", len(splits))
	}

	findSplit(t, splits, "armeabi_v7a")
}
