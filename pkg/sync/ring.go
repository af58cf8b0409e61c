package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring over stripe indices
type ring struct {
	points *treemap.Map

	// first caches the stripe at the lowest point, since treemap.Map.Min() is O(log n)
	first int
}

// newRing returns a consistent hash ring placing each of the stripes at
// pointsPerStripe positions
func newRing(stripes, pointsPerStripe uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	for stripe := 0; stripe < int(stripes); stripe++ {
		stripeHash, _ := murmur3.Sum128([]byte(fmt.Sprintf("entry%d", stripe)))

		var buf [12]byte
		binary.LittleEndian.PutUint64(buf[:8], stripeHash)

		for i := uint32(0); i < uint32(pointsPerStripe); i++ {
			binary.LittleEndian.PutUint32(buf[8:], i)
			point, _ := murmur3.Sum128(buf[:])
			points.Put(int64(point), stripe)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

// stripe consistently hashes the key onto the ring and returns the owning stripe
func (r *ring) stripe(key []byte) int {
	raw, _ := murmur3.Sum128(key)
	_, stripe := r.points.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.first
}
