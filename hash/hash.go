// Package hash is the digest used for state identities.
package hash

import (
	"sync"

	"github.com/zeebo/blake3"
)

// Size of the digest in bytes.
const Size = 32

var hashers = sync.Pool{
	New: func() any { return blake3.New() },
}

// GetHasher takes a hasher from the pool. Return it with PutHasher.
func GetHasher() *blake3.Hasher {
	return hashers.Get().(*blake3.Hasher)
}

func PutHasher(hh *blake3.Hasher) {
	hh.Reset()
	hashers.Put(hh)
}

// Sum computes the digest of the concatenation of chunks.
func Sum(chunks ...[]byte) (rst [Size]byte) {
	hh := GetHasher()
	defer PutHasher(hh)
	for _, chunk := range chunks {
		hh.Write(chunk)
	}
	hh.Sum(rst[:0])
	return rst
}
