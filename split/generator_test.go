package split_test

import (
	"testing"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/split"
	"github.com/google/go-cmp/cmp"
)

func TestGenerateSplitApks(t *testing.T) {
	bndl := &bundle.Bundle{
		Modules: []bundle.Module{
			{
				Name:          "base",
				MinSDKVersion: 1,
				Entries: []bundle.Entry{
					entry("dex/classes.dex", "dex"),
					entry("lib/arm64-v8a/x.so", "a"),
				},
			},
			{
				Name:          "feature",
				MinSDKVersion: 21,
				Entries: []bundle.Entry{
					entry("assets/a.bin", "a"),
				},
			},
		},
	}

	splits, err := split.GenerateSplitApks(bndl)
	if err != nil {
		t.Fatal(err)
	}

	type tagged struct {
		Variant string
		Module  string
		Suffix  string
	}

	got := make([]tagged, 0, len(splits))
	for _, s := range splits {
		got = append(got, tagged{
			Variant: s.VariantTargeting.String(),
			Module:  s.ModuleName,
			Suffix:  s.Suffix(),
		})
	}

	// The feature module does not participate in the sdk 1
	// variant, which is below its own minimum.
	expected := []tagged{
		{Variant: "sdk-1", Module: "base", Suffix: "master"},
		{Variant: "sdk-1", Module: "base", Suffix: "arm64_v8a"},
		{Variant: "sdk-21", Module: "base", Suffix: "master"},
		{Variant: "sdk-21", Module: "base", Suffix: "arm64_v8a"},
		{Variant: "sdk-21", Module: "feature", Suffix: "master"},
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("unexpected splits:\n%s", diff)
	}
}

func TestGenerateSplitApksSDKRuntimeExclusion(t *testing.T) {
	bndl := &bundle.Bundle{
		Modules: []bundle.Module{
			{
				Name:          "base",
				MinSDKVersion: 21,
				Entries: []bundle.Entry{
					entry("dex/classes.dex", "dex"),
				},
			},
			{
				Name:               "sdk",
				MinSDKVersion:      21,
				RequiresSDKRuntime: true,
				Entries: []bundle.Entry{
					entry("dex/classes.dex", "dex"),
				},
			},
		},
	}

	splits, err := split.GenerateSplitApks(bndl)
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range splits {
		switch {
		case s.ModuleName == "sdk" && !s.VariantTargeting.RequiresSDKRuntime:
			t.Errorf("sdk module leaked into non-runtime variant %s", s.VariantTargeting)
		case s.ModuleName == "base" && s.VariantTargeting.RequiresSDKRuntime:
			t.Errorf("base module leaked into runtime variant %s", s.VariantTargeting)
		}
	}

	if len(splits) != 2 {
		t.Errorf("expected one master split per (module, variant) pairing, got %d", len(splits))
	}
}
