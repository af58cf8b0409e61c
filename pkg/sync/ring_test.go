package sync

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_Consistency(t *testing.T) {
	r := newRing(64, pointsPerStripe)

	for i := 0; i < 256; i++ {
		key := []byte(fmt.Sprintf("key%d", i))
		stripe := r.stripe(key)

		assert.True(t, stripe >= 0 && stripe < 64)
		for j := 0; j < 16; j++ {
			assert.Equal(t, stripe, r.stripe(key))
		}
	}
}

func TestRing_Distribution(t *testing.T) {
	stripeCount := 5
	iterations := 500000
	marginOfError := 0.1
	expectedFrequency := iterations / stripeCount

	r := newRing(uint(stripeCount), pointsPerStripe)

	hits := make(map[int]int)
	for i := 0; i < iterations; i++ {
		hits[r.stripe([]byte(fmt.Sprintf("key%d", i)))]++
	}

	assert.Len(t, hits, stripeCount)
	for _, hitCount := range hits {
		assert.True(t, math.Abs(float64(hitCount-expectedFrequency)) <= marginOfError*float64(expectedFrequency))
	}
}
