package utils

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Digest summarizes the bytes written to a file
type Digest struct {
	SHA256 string
	Size   int64
}

// countingWriter counts bytes passing through it
type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// WriteFileAtomic calls fill with a writer backed by a temporary file in the
// same directory as destPath, then renames the temporary file to destPath.
// If fill or any file operation fails the temporary file is removed and
// destPath is left as it was.
func WriteFileAtomic(destPath string, perm os.FileMode, fill func(w io.Writer) error) (d Digest, err error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".mnistmock-*")
	if err != nil {
		return Digest{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{}
	bw := bufio.NewWriter(tmpFile)

	if err = fill(io.MultiWriter(bw, hasher, counter)); err != nil {
		return Digest{}, err
	}
	if err = bw.Flush(); err != nil {
		return Digest{}, fmt.Errorf("failed to flush temp file: %w", err)
	}
	if err = tmpFile.Chmod(perm); err != nil {
		return Digest{}, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err = tmpFile.Close(); err != nil {
		return Digest{}, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, destPath); err != nil {
		return Digest{}, fmt.Errorf("failed to move file to destination: %w", err)
	}

	return Digest{
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
		Size:   counter.n,
	}, nil
}
