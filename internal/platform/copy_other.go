//go:build !linux

package platform

import "os"

// chunkCopier uses positional read/write outside Linux.
type chunkCopier struct {
	src, dst *os.File
	method   CopyMethod
}

func newChunkCopier(src, dst *os.File) *chunkCopier {
	return &chunkCopier{src: src, dst: dst, method: ReadWrite}
}

func (c *chunkCopier) copy(off, n int64) (int64, error) {
	return copyReadWrite(c.src, c.dst, off, n)
}
