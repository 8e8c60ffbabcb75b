// Package hash wraps xxHash64 for payload fingerprints and container checksums.
package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// SumBlocks computes the xxHash64 of the concatenation of blocks without
// materializing the concatenation.
func SumBlocks(blocks ...[]byte) uint64 {
	d := xxhash.New()
	for _, b := range blocks {
		_, _ = d.Write(b)
	}

	return d.Sum64()
}
