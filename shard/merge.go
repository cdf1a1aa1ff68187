package shard

import (
	"context"
	// Registers the algorithm behind digest.Canonical.
	_ "crypto/sha256"
	"fmt"

	"github.com/frantjc/bundo/bundle"
	"github.com/frantjc/bundo/internal/bundoerr"
	"github.com/frantjc/bundo/targeting"
	"github.com/opencontainers/go-digest"
)

// MergedApk is the logical content of one fat APK produced from a
// shard: its name suffix, the union targeting of the shard, and
// its entries in path order.
type MergedApk struct {
	Suffix    string
	Targeting targeting.ApkTargeting
	Entries   []bundle.Entry
}

// Merger merges one shard into one fat APK.
type Merger interface {
	Merge(context.Context, Shard) (*MergedApk, error)
}

// NewMerger returns the default Merger, which concatenates the
// shard's entries last-writer-wins but refuses to resolve a path
// collision whose contents are not byte-identical.
func NewMerger() Merger {
	return &digestMerger{}
}

type digestMerger struct{}

func (m *digestMerger) Merge(ctx context.Context, shard Shard) (*MergedApk, error) {
	entries := map[string]bundle.Entry{}

	for _, s := range shard.Splits {
		for _, entry := range s.Entries {
			previous, found := entries[entry.Path]
			if found {
				identical, err := contentEqual(previous.Content, entry.Content)
				if err != nil {
					return nil, err
				}

				if !identical {
					return nil, bundoerr.New(
						fmt.Errorf("shard %s merges conflicting contents for %s", shard.Suffix(), entry.Path),
						bundoerr.KindInconsistent,
					)
				}
			}

			entries[entry.Path] = entry
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	merged := &MergedApk{
		Suffix:    shard.Suffix(),
		Targeting: shard.ApkTargeting(),
	}

	for _, path := range sortedKeys(entries) {
		merged.Entries = append(merged.Entries, entries[path])
	}

	return merged, nil
}

func contentEqual(a, b bundle.Content) (bool, error) {
	if a.Size() != b.Size() {
		return false, nil
	}

	digests := make([]digest.Digest, 0, 2)
	for _, content := range []bundle.Content{a, b} {
		rc, err := content.Open()
		if err != nil {
			return false, err
		}

		d, err := digest.FromReader(rc)
		rc.Close()
		if err != nil {
			return false, err
		}

		digests = append(digests, d)
	}

	return digests[0] == digests[1], nil
}
