package memory

import (
	"context"
	"sync"
	"time"

	"github.com/code-payments/zk-liquidity-pool/pkg/code/data/pool"
)

type store struct {
	mu      sync.Mutex
	records []*pool.Record
	last    uint64
}

// New returns a new in memory pool.Store
func New() pool.Store {
	return &store{}
}

// Create implements pool.Store.Create
func (s *store) Create(_ context.Context, data *pool.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(data.Address); item != nil {
		return pool.ErrPoolAlreadyExists
	}
	if item := s.findByMint(data.Mint); item != nil {
		return pool.ErrPoolAlreadyExists
	}

	s.last++

	data.Id = s.last
	data.TotalStaked = 0
	data.LastDepositAt = time.Time{}
	data.CreatedAt = time.Now()
	data.LastUpdatedAt = data.CreatedAt

	s.records = append(s.records, data.Clone())

	return nil
}

// Get implements pool.Store.Get
func (s *store) Get(_ context.Context, address string) (*pool.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(address); item != nil {
		return item.Clone(), nil
	}
	return nil, pool.ErrPoolNotFound
}

// GetByMint implements pool.Store.GetByMint
func (s *store) GetByMint(_ context.Context, mint string) (*pool.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByMint(mint); item != nil {
		return item.Clone(), nil
	}
	return nil, pool.ErrPoolNotFound
}

// ApplyDelta implements pool.Store.ApplyDelta
func (s *store) ApplyDelta(_ context.Context, address string, delta int64) (*pool.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findByAddress(address)
	if item == nil {
		return nil, pool.ErrPoolNotFound
	}

	updated, err := item.ApplyDelta(delta)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	item.TotalStaked = updated
	item.LastUpdatedAt = now
	if delta > 0 {
		item.LastDepositAt = now
	}

	return item.Clone(), nil
}

func (s *store) findByAddress(address string) *pool.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findByMint(mint string) *pool.Record {
	for _, item := range s.records {
		if item.Mint == mint {
			return item
		}
	}
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
