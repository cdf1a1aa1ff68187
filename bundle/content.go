package bundle

import (
	"bytes"
	"io"
)

// Content is a lazily-opened blob of entry content. Open must be
// callable any number of times, each call yielding a fresh reader,
// so that several splits and shards can reference one physical
// file concurrently.
type Content interface {
	Open() (io.ReadCloser, error)
	Size() int64
}

// BytesContent is an in-memory Content.
type BytesContent []byte

func (c BytesContent) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(c)), nil
}

func (c BytesContent) Size() int64 {
	return int64(len(c))
}
