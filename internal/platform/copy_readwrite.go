package platform

import (
	"io"
	"os"
	"sync"
)

const bufferSize = 1 << 20 // 1 MiB

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, bufferSize)
		return &b
	},
}

// copyReadWrite copies n bytes at off using positional reads and writes with
// a pooled buffer.
func copyReadWrite(src, dst *os.File, off, n int64) (int64, error) {
	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	var total int64
	for total < n {
		want := min(n-total, int64(len(buf)))
		r, err := src.ReadAt(buf[:want], off+total)
		if r > 0 {
			if _, werr := dst.WriteAt(buf[:r], off+total); werr != nil {
				return total, werr
			}
			total += int64(r)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
