package bundle

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/frantjc/bundo/internal/bundoerr"
)

// Bundle is a fully loaded app bundle: its modules in name order
// and its build configuration. Read-only after ReadBundle.
type Bundle struct {
	Modules []Module
	Config  Config
}

// Module returns the named module, if any.
func (b *Bundle) Module(name string) (*Module, bool) {
	for i := range b.Modules {
		if b.Modules[i].Name == name {
			return &b.Modules[i], true
		}
	}

	return nil, false
}

type zipContent struct {
	file *zip.File
}

func (c *zipContent) Open() (io.ReadCloser, error) {
	return c.file.Open()
}

func (c *zipContent) Size() int64 {
	return int64(c.file.UncompressedSize64)
}

// ReadBundle loads an app bundle from the zip container at name.
// Every top-level directory in the container is a module; the
// optional BundleConfig.yaml at the root configures the build.
// Entry content stays inside the container and is opened lazily,
// so the returned Bundle is only valid as long as the underlying
// file exists.
func ReadBundle(name string) (*Bundle, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("open bundle %s: %w", name, err)
	}

	return readBundle(&zr.Reader)
}

func readBundle(zr *zip.Reader) (*Bundle, error) {
	var (
		bndl    = &Bundle{}
		modules = map[string]*Module{}
	)

	for _, file := range zr.File {
		if file.FileInfo().IsDir() {
			continue
		}

		name := strings.TrimPrefix(file.Name, "/")

		if name == ConfigName {
			rc, err := file.Open()
			if err != nil {
				return nil, err
			}

			config, err := DecodeConfig(rc)
			rc.Close()
			if err != nil {
				return nil, bundoerr.New(err, bundoerr.KindMalformed)
			}

			bndl.Config = *config
			continue
		}

		moduleName, entryPath, found := strings.Cut(name, "/")
		if !found {
			return nil, bundoerr.New(fmt.Errorf("file %s is outside of any module", name), bundoerr.KindMalformed)
		}

		module, found := modules[moduleName]
		if !found {
			module = &Module{Name: moduleName, MinSDKVersion: 1}
			modules[moduleName] = module
		}

		if entryPath == ManifestName {
			if err := readManifest(module, file); err != nil {
				return nil, err
			}
			continue
		}

		module.Entries = append(module.Entries, Entry{
			Path:    entryPath,
			Content: &zipContent{file: file},
		})
	}

	for _, name := range sortedKeys(modules) {
		module := modules[name]

		sort.Slice(module.Entries, func(i, j int) bool {
			return module.Entries[i].Path < module.Entries[j].Path
		})

		if err := module.Validate(); err != nil {
			return nil, err
		}

		bndl.Modules = append(bndl.Modules, *module)
	}

	if len(bndl.Modules) == 0 {
		return nil, bundoerr.New(fmt.Errorf("bundle has no modules"), bundoerr.KindMalformed)
	}

	return bndl, nil
}

func readManifest(module *Module, file *zip.File) error {
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	manifest := &Manifest{}
	if err := xml.NewDecoder(rc).Decode(manifest); err != nil {
		return bundoerr.New(fmt.Errorf("module %s: decode manifest: %w", module.Name, err), bundoerr.KindMalformed)
	}

	module.MinSDKVersion = manifest.MinSDKVersion()
	module.MaxSDKVersion = manifest.MaxSDKVersion()
	module.DeclaresCode = manifest.HasCode()
	module.RequiresSDKRuntime = manifest.RequiresSDKRuntime()
	module.Delivery = manifest.Delivery()

	if module.RequiresSDKRuntime {
		module.Type = TypeSDKDependency
	} else if !module.DeclaresCode && module.Name != "base" {
		module.Type = TypeAsset
	}

	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	return keys
}
