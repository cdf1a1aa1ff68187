// Package split generates, for every variant of the device space,
// the minimal per-module splits that together cover a bundle.
package split

import (
	"fmt"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/targeting"
)

// ModuleSplit is one generated split: a filtered view of one
// module's entries for one variant, annotated with the targeting
// that the split serves. Immutable; corrections are expressed by
// the With* copies.
type ModuleSplit struct {
	ModuleName       string
	IsMaster         bool
	ApkTargeting     targeting.ApkTargeting
	VariantTargeting targeting.VariantTargeting
	Entries          []bundle.Entry
}

// Suffix is the artifact name suffix of the split, e.g. "master",
// "arm64_v8a" or "fr".
func (s ModuleSplit) Suffix() string {
	if s.IsMaster {
		return "master"
	}

	return s.ApkTargeting.Suffix()
}

// SplitName is the split identifier that ends up in the split's
// manifest, e.g. "base" or "base.config.arm64_v8a".
func (s ModuleSplit) SplitName() string {
	if s.IsMaster {
		return s.ModuleName
	}

	return fmt.Sprintf("%s.config.%s", s.ModuleName, s.Suffix())
}

// WithEntries returns a copy of the split holding the given
// entries instead.
func (s ModuleSplit) WithEntries(entries []bundle.Entry) ModuleSplit {
	s.Entries = entries
	return s
}

// WithApkTargeting returns a copy of the split with its targeting
// replaced along one dimension.
func (s ModuleSplit) WithApkTargeting(t targeting.DimensionTargeting) ModuleSplit {
	s.ApkTargeting = s.ApkTargeting.With(t)
	return s
}

// WithVariantTargeting returns a copy of the split owned by the
// given variant.
func (s ModuleSplit) WithVariantTargeting(v targeting.VariantTargeting) ModuleSplit {
	s.VariantTargeting = v
	return s
}
