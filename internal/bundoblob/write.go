package bundoblob

import (
	"archive/zip"
	"context"
	"io"

	"github.com/frantjc/bundo/bundle"
	"gocloud.dev/blob"
	"gopkg.in/yaml.v3"
)

// WriteAPK writes the given entries as a zip archive under the key
// in the bucket. Entries with an uncompressed intent are stored
// rather than deflated.
func WriteAPK(ctx context.Context, bucket *blob.Bucket, key string, entries []bundle.Entry) error {
	bw, err := bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return err
	}
	defer bw.Close()

	zw := zip.NewWriter(bw)

	for _, entry := range entries {
		method := zip.Deflate
		if entry.ForceUncompressed {
			method = zip.Store
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   entry.Path,
			Method: method,
		})
		if err != nil {
			return err
		}

		rc, err := entry.Content.Open()
		if err != nil {
			return err
		}

		if _, err = io.Copy(w, rc); err != nil {
			rc.Close()
			return err
		}

		if err = rc.Close(); err != nil {
			return err
		}
	}

	if err = zw.Close(); err != nil {
		return err
	}

	return bw.Close()
}

// TOC is the table of contents written alongside the generated
// APKs, mapping every artifact to the targeting it serves.
type TOC struct {
	Splits      []TOCEntry `yaml:"splits,omitempty"`
	Standalones []TOCEntry `yaml:"standalones,omitempty"`
	Universal   string     `yaml:"universal,omitempty"`
}

type TOCEntry struct {
	Key       string `yaml:"key"`
	Module    string `yaml:"module,omitempty"`
	Variant   string `yaml:"variant,omitempty"`
	Targeting string `yaml:"targeting,omitempty"`
}

// WriteTOC writes the table of contents to the bucket.
func WriteTOC(ctx context.Context, bucket *blob.Bucket, toc *TOC) error {
	bw, err := bucket.NewWriter(ctx, TOCKey(), nil)
	if err != nil {
		return err
	}
	defer bw.Close()

	enc := yaml.NewEncoder(bw)
	if err = enc.Encode(toc); err != nil {
		return err
	}

	if err = enc.Close(); err != nil {
		return err
	}

	return bw.Close()
}
