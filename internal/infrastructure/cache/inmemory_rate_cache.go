package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/purchase-discount/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

type entry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// InMemoryRateCache implements RateCache with a process-local map.
// Expired entries are swept by a background goroutine until Close.
type InMemoryRateCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryRateCache creates a cache sweeping expired rates every interval
func NewInMemoryRateCache(interval time.Duration) *InMemoryRateCache {
	c := &InMemoryRateCache{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}
	if interval <= 0 {
		interval = time.Minute
	}
	c.wg.Add(1)
	go c.cleanupLoop(interval)
	return c
}

// Get implements RateCache
func (c *InMemoryRateCache) Get(_ context.Context, currency valueobject.Currency, date time.Time) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[rateKey(currency, date)]
	if !ok || time.Now().After(e.expiresAt) {
		return decimal.Zero, false, nil
	}
	return e.rate, true, nil
}

// Set implements RateCache
func (c *InMemoryRateCache) Set(_ context.Context, currency valueobject.Currency, date time.Time, rate decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[rateKey(currency, date)] = entry{rate: rate, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *InMemoryRateCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the sweeper
func (c *InMemoryRateCache) Close() {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
}

func (c *InMemoryRateCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stopChan:
			return
		}
	}
}

func (c *InMemoryRateCache) sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

var _ RateCache = (*InMemoryRateCache)(nil)
