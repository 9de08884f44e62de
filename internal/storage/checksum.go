package storage

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// HashAlgorithm names a checksum algorithm.
type HashAlgorithm string

const (
	MD5    HashAlgorithm = "md5"
	SHA256 HashAlgorithm = "sha256"
)

// Hasher computes hex checksums.
type Hasher struct {
	algorithm HashAlgorithm
}

// NewHasher creates a hasher. Unknown algorithms fall back to SHA-256.
func NewHasher(algorithm HashAlgorithm) *Hasher {
	if algorithm != MD5 {
		algorithm = SHA256
	}
	return &Hasher{algorithm: algorithm}
}

// DefaultHasher returns a SHA-256 hasher.
func DefaultHasher() *Hasher {
	return NewHasher(SHA256)
}

// Algorithm returns the algorithm in use.
func (h *Hasher) Algorithm() HashAlgorithm {
	return h.algorithm
}

func (h *Hasher) newHash() hash.Hash {
	if h.algorithm == MD5 {
		return md5.New()
	}
	return sha256.New()
}

// Hash returns the hex checksum of data.
func (h *Hasher) Hash(data []byte) string {
	sum := h.newHash()
	sum.Write(data)
	return hex.EncodeToString(sum.Sum(nil))
}

// HashReader returns the hex checksum of everything read from r.
func (h *Hasher) HashReader(r io.Reader) (string, error) {
	sum := h.newHash()
	if _, err := io.Copy(sum, r); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}

// HashFile returns the hex checksum of the file at path.
func (h *Hasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return h.HashReader(f)
}

// Checksum is shorthand for NewHasher(algorithm).Hash(data).
func Checksum(data []byte, algorithm HashAlgorithm) string {
	return NewHasher(algorithm).Hash(data)
}
