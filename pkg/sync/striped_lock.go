package sync

import (
	base "sync"
)

const (
	pointsPerStripe = 200
)

// StripedLock consistently maps an unbounded key space, such as pool
// addresses, onto a fixed set of locks. Operations on the same key are always
// serialized, while most operations on distinct keys proceed concurrently.
type StripedLock struct {
	locks []base.RWMutex
	ring  *ring
}

// NewStripedLock returns a new StripedLock with a static number of stripes
func NewStripedLock(stripes uint) *StripedLock {
	if stripes == 0 {
		stripes = 1
	}

	return &StripedLock{
		locks: make([]base.RWMutex, stripes),
		ring:  newRing(stripes, pointsPerStripe),
	}
}

// Get gets the lock for a key
func (l *StripedLock) Get(key []byte) *base.RWMutex {
	return &l.locks[l.ring.stripe(key)]
}
