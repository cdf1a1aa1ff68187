package bundle

import (
	"fmt"
	"strings"

	"github.com/frantjc/bundo/internal/bundoerr"
	xslice "github.com/frantjc/x/slice"
)

// Entry is one file inside a module: its module-relative path,
// its lazily-opened content, and whether it must be stored
// uncompressed in the archive it ends up in.
type Entry struct {
	Path              string
	Content           Content
	ForceUncompressed bool
}

// ModuleType distinguishes what a module delivers.
type ModuleType int

const (
	// TypeFeature is a module carrying code and resources.
	TypeFeature ModuleType = iota
	// TypeAsset is a module carrying only assets.
	TypeAsset
	// TypeSDKDependency is a module standing in for a runtime-enabled
	// SDK that the app depends on.
	TypeSDKDependency
)

func (t ModuleType) String() string {
	switch t {
	case TypeAsset:
		return "asset"
	case TypeSDKDependency:
		return "sdk-dependency"
	}

	return "feature"
}

// DeliveryMode is a module's install-time delivery policy.
type DeliveryMode int

const (
	DeliveryAlwaysInstalled DeliveryMode = iota
	DeliveryOnDemand
	DeliveryConditional
)

func (d DeliveryMode) String() string {
	switch d {
	case DeliveryOnDemand:
		return "on-demand"
	case DeliveryConditional:
		return "conditional"
	}

	return "always-installed"
}

// Module is one module of an app bundle: an ordered, path-unique
// collection of entries plus the facts about the module that split
// generation needs. Modules are read once at load time and never
// modified; splits reference their entries without owning them.
type Module struct {
	Name               string
	Type               ModuleType
	Delivery           DeliveryMode
	MinSDKVersion      int
	MaxSDKVersion      int
	DeclaresCode       bool
	RequiresSDKRuntime bool
	Entries            []Entry
}

// EffectiveMinSDKVersion is the module's minimum SDK clamped to
// the lowest version that exists.
func (m *Module) EffectiveMinSDKVersion() int {
	if m.MinSDKVersion < 1 {
		return 1
	}

	return m.MinSDKVersion
}

// Validate checks the module invariants that the rest of the
// engine assumes: a name, and entry paths that are unique, clean
// and relative.
func (m *Module) Validate() error {
	if m.Name == "" {
		return bundoerr.New(fmt.Errorf("module has no name"), bundoerr.KindMalformed)
	}

	seen := map[string]struct{}{}
	for _, entry := range m.Entries {
		if entry.Path == "" || strings.HasPrefix(entry.Path, "/") || strings.Contains(entry.Path, "..") {
			return bundoerr.New(fmt.Errorf("module %s has entry with invalid path %q", m.Name, entry.Path), bundoerr.KindMalformed)
		}

		if _, found := seen[entry.Path]; found {
			return bundoerr.New(fmt.Errorf("module %s has duplicate entry %s", m.Name, entry.Path), bundoerr.KindMalformed)
		}

		seen[entry.Path] = struct{}{}
	}

	return nil
}

// FindEntry returns the entry at the given path, if any.
func (m *Module) FindEntry(path string) (Entry, bool) {
	entry := xslice.Find(m.Entries, func(entry Entry, _ int) bool {
		return entry.Path == path
	})

	return entry, entry.Path != ""
}
