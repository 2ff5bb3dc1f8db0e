package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/bamsammich/xfer/internal/platform"
)

// HashFile computes the BLAKE3 hash of the file at path, returning the hex-encoded digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	digest := h.Sum(nil)
	return hex.EncodeToString(digest), nil
}

// VerifyFile compares the BLAKE3 digests of src and dst. A difference is a
// *TransferError of kind ErrChecksumMismatch naming dst.
func VerifyFile(src, dst string) error {
	srcHash, err := HashFile(src)
	if err != nil {
		return err
	}
	dstHash, err := HashFile(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return &TransferError{
			Kind: ErrChecksumMismatch,
			Op:   "verify",
			Path: dst,
			Code: platform.GenFailure,
			Err:  fmt.Errorf("source %s, destination %s", srcHash[:16], dstHash[:16]),
		}
	}
	return nil
}
