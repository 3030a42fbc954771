// Package clock generates temporary record identifiers.
package clock

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// TempIDSource produces strictly increasing temporary identifiers derived
// from the wall clock. The high bits carry the Unix millisecond timestamp so
// ids sort by creation time; the low bits are randomized so that many records
// created in the same tick (bulk import) still get distinct values.
type TempIDSource struct {
	mu   sync.Mutex
	last uint64
}

// tickBits is the number of low bits reserved for same-tick disambiguation.
const tickBits = 16

// Next returns the next temporary identifier. Values are unique and strictly
// increasing for the lifetime of the source.
func (s *TempIDSource) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := uint64(time.Now().UnixMilli())<<tickBits | randomSuffix()
	if v <= s.last {
		v = s.last + 1
	}
	s.last = v
	return v
}

// randomSuffix returns random low bits, zero on entropy failure (Next still
// guarantees uniqueness through the monotonic check).
func randomSuffix() uint64 {
	var b [2]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return 0
	}
	return uint64(binary.BigEndian.Uint16(b[:]))
}
