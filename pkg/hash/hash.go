package hash

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

type HashAlgorithm string

const (
	MD5    HashAlgorithm = "md5"
	SHA1   HashAlgorithm = "sha1"
	SHA256 HashAlgorithm = "sha256"
	SHA512 HashAlgorithm = "sha512"
)

type Hasher interface {
	Calculate(data []byte) (string, error)
	CalculateReader(reader io.Reader) (string, error)
}

type FileHasher struct {
	algorithm HashAlgorithm
}

func NewFileHasher(algorithm HashAlgorithm) (*FileHasher, error) {
	h := &FileHasher{algorithm: algorithm}
	if _, err := h.newHash(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *FileHasher) Algorithm() HashAlgorithm {
	return h.algorithm
}

func (h *FileHasher) Calculate(data []byte) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", err
	}

	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (h *FileHasher) CalculateReader(reader io.Reader) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(hasher, reader); err != nil {
		return "", fmt.Errorf("failed to read data: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (h *FileHasher) newHash() (hash.Hash, error) {
	switch h.algorithm {
	case MD5:
		return md5.New(), nil
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA512:
		return sha512.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", h.algorithm)
	}
}
