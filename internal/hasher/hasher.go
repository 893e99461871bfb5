// Package hasher computes content fingerprints for the two-stage duplicate
// detection pipeline: a partial fingerprint over at most the first 4KB of a
// file, and a full fingerprint streamed over the entire content.
package hasher

import (
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// BlockSize is the buffer size used for streaming full-content reads.
const BlockSize = 32 * 1024

// PartialSize is how many leading bytes the partial fingerprint covers.
// PartialSum never reads beyond this bound.
const PartialSize = 4 * 1024

// ErrUnreadable wraps open or read failures on a specific file. Callers
// check it with errors.Is and skip the file rather than aborting the run.
var ErrUnreadable = errors.New("file unreadable")

// Algorithm selects the digest used for both fingerprint stages.
type Algorithm string

const (
	AlgoXXHash Algorithm = "xxhash"
	AlgoBLAKE3 Algorithm = "blake3"
	AlgoSHA3   Algorithm = "sha3-256"
)

// ParseAlgorithm resolves a user-supplied algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(name)); a {
	case AlgoXXHash, AlgoBLAKE3, AlgoSHA3:
		return a, nil
	default:
		return "", fmt.Errorf("unknown hash algorithm %q (expected xxhash, blake3 or sha3-256)", name)
	}
}

// Hasher computes hex-encoded fingerprints with a fixed algorithm.
// Digest state and streaming buffers are pooled across calls, so a single
// Hasher is safe and cheap to share between hashing workers.
type Hasher struct {
	algo    Algorithm
	digests sync.Pool
	buffers sync.Pool
}

// New returns a Hasher for the given algorithm.
func New(algo Algorithm) (*Hasher, error) {
	var newDigest func() hash.Hash
	switch algo {
	case AlgoXXHash:
		newDigest = func() hash.Hash { return xxhash.New() }
	case AlgoBLAKE3:
		newDigest = func() hash.Hash { return blake3.New() }
	case AlgoSHA3:
		newDigest = sha3.New256
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algo)
	}

	return &Hasher{
		algo:    algo,
		digests: sync.Pool{New: func() any { return newDigest() }},
		buffers: sync.Pool{New: func() any {
			b := make([]byte, BlockSize)
			return &b
		}},
	}, nil
}

// Algorithm reports which digest the hasher was built with.
func (h *Hasher) Algorithm() Algorithm { return h.algo }

// PartialSum fingerprints at most the first PartialSize bytes of the file.
// Shorter files are fingerprinted over exactly the bytes they contain, so
// two empty files share a partial fingerprint.
func (h *Hasher) PartialSum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", unreadable(path, err)
	}
	defer file.Close()

	buf := make([]byte, PartialSize)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", unreadable(path, err)
	}

	d := h.digests.Get().(hash.Hash)
	defer h.digests.Put(d)
	d.Reset()
	_, _ = d.Write(buf[:n])
	return hex.EncodeToString(d.Sum(nil)), nil
}

// FullSum fingerprints the entire file content, streaming it through the
// digest in BlockSize chunks so arbitrarily large files never have to fit
// in memory.
func (h *Hasher) FullSum(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", unreadable(path, err)
	}
	defer file.Close()

	d := h.digests.Get().(hash.Hash)
	defer h.digests.Put(d)
	d.Reset()

	bufPtr := h.buffers.Get().(*[]byte)
	defer h.buffers.Put(bufPtr)

	if _, err := io.CopyBuffer(d, file, *bufPtr); err != nil {
		return "", unreadable(path, err)
	}
	return hex.EncodeToString(d.Sum(nil)), nil
}

func unreadable(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnreadable, path, err)
}
