package rangesync

import (
	"encoding/hex"
	"slices"
	"sync"

	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/profilesync/common/types"
)

// FingerprintSize is the size of a range fingerprint.
const FingerprintSize = 12

// Fingerprint is the XOR of the hashes in a range, truncated to FingerprintSize bytes.
type Fingerprint [FingerprintSize]byte

// Update includes the hash into the fingerprint.
func (fp *Fingerprint) Update(h types.Hash32) {
	for i := range fp {
		fp[i] ^= h[i]
	}
}

// String implements fmt.Stringer.
func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:])
}

// EncodeScale implements scale.Encodable.
func (fp *Fingerprint) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, fp[:])
}

// DecodeScale implements scale.Decodable.
func (fp *Fingerprint) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, fp[:])
}

// RangeInfo contains information about a range of items in the Set.
type RangeInfo struct {
	// Fingerprint of the interval
	Fingerprint Fingerprint
	// Number of items in the interval
	Count int
	// Items in the interval, starting from the lower bound.
	Items []types.Hash32
}

// Set is an ordered set of hashes that can be reconciled with a remote peer.
// It is safe for concurrent use.
type Set struct {
	mu   sync.RWMutex
	keys []types.Hash32
}

// NewSet creates a set containing the keys.
func NewSet(keys ...types.Hash32) *Set {
	s := &Set{}
	s.Add(keys...)
	return s
}

func compareHashes(a, b types.Hash32) int {
	return a.Compare(b)
}

// Add adds the keys to the set.
func (s *Set) Add(keys ...types.Hash32) {
	if len(keys) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(keys) < 16 {
		for _, k := range keys {
			pos, found := slices.BinarySearchFunc(s.keys, k, compareHashes)
			if !found {
				s.keys = slices.Insert(s.keys, pos, k)
			}
		}
		return
	}
	s.keys = append(s.keys, keys...)
	slices.SortFunc(s.keys, compareHashes)
	s.keys = slices.Compact(s.keys)
}

// Delete removes the keys from the set. Unknown keys are ignored.
func (s *Set) Delete(keys ...types.Hash32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		pos, found := slices.BinarySearchFunc(s.keys, k, compareHashes)
		if found {
			s.keys = slices.Delete(s.keys, pos, pos+1)
		}
	}
}

// Has returns true if the key is in the set.
func (s *Set) Has(k types.Hash32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, found := slices.BinarySearchFunc(s.keys, k, compareHashes)
	return found
}

// Len returns the number of keys in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Items returns the sorted keys of the set.
func (s *Set) Items() []types.Hash32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.keys)
}

// Copy makes a snapshot of the set.
func (s *Set) Copy() *Set {
	return &Set{keys: s.Items()}
}

func (s *Set) pos(k types.Hash32) int {
	pos, _ := slices.BinarySearchFunc(s.keys, k, compareHashes)
	return pos
}

// GetRangeInfo returns RangeInfo for the item range in the set, bounded by [x, y).
// x == y indicates the whole set.
// x < y indicates a normal range starting with x and ending below y.
// x > y indicates a wrapped around range, that is from x (inclusive) to then end
// of the set and from the beginning of the set to y, non-inclusive.
func (s *Set) GetRangeInfo(x, y types.Hash32) RangeInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := s.pos(x)
	end := s.pos(y)
	var items []types.Hash32
	if x.Compare(y) < 0 {
		items = s.keys[start:end]
	} else {
		items = make([]types.Hash32, 0, len(s.keys)-start+end)
		items = append(items, s.keys[start:]...)
		items = append(items, s.keys[:end]...)
	}
	ri := RangeInfo{Count: len(items), Items: slices.Clone(items)}
	for _, k := range items {
		ri.Fingerprint.Update(k)
	}
	return ri
}

// SplitRange returns the key that divides the range [x, y) into two halves.
// It returns false if the range has less than 2 items.
func (s *Set) SplitRange(x, y types.Hash32) (types.Hash32, bool) {
	ri := s.GetRangeInfo(x, y)
	if ri.Count < 2 {
		return types.Hash32{}, false
	}
	return ri.Items[ri.Count/2], true
}
