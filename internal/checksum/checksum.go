// Package checksum computes content digests over byte streams without
// disturbing the stream's read position.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// Digest constructs a fresh hash state for a single computation. The
// algorithm is a parameter so the stream handling never changes when the
// digest does.
type Digest func() hash.Hash

var (
	MD5    Digest = md5.New
	SHA1   Digest = sha1.New
	SHA256 Digest = sha256.New
)

// ByName resolves an algorithm name to its digest constructor.
func ByName(name string) (Digest, error) {
	switch strings.ToLower(name) {
	case "md5":
		return MD5, nil
	case "sha1":
		return SHA1, nil
	case "sha256":
		return SHA256, nil
	default:
		return nil, fmt.Errorf("unknown digest algorithm %q", name)
	}
}

// Sum digests rs from its current position to EOF and returns the digest as
// a lowercase hex string. The position is restored before returning, on
// error paths too, so the same handle can be reused by the caller.
func Sum(rs io.ReadSeeker, digest Digest) (string, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", fmt.Errorf("failed to record stream position: %w", err)
	}

	h := digest()
	_, readErr := io.Copy(h, rs)

	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to restore stream position: %w", err)
	}
	if readErr != nil {
		return "", fmt.Errorf("failed to read stream: %w", readErr)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile opens path and returns the digest of its full content.
func SumFile(path string, digest Digest) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return Sum(file, digest)
}

// Equal reports whether two hex checksums are the same, ignoring case.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
