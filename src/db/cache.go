package db

import (
	"sync"
	"time"

	"wealth-server/src/models"

	"github.com/dgraph-io/ristretto"
)

const cacheTTL = 5 * time.Minute

// Cache holds per-owner read models. Keys are tracked per owner so every cached view of an
// owner can be dropped after a mutation. Each owner also has a generation that moves on every
// invalidation; a read model built under an older generation is never stored.
type Cache struct {
	store   *ristretto.Cache
	mu      sync.Mutex
	keys    map[string]map[string]struct{}
	gens    map[string]uint64
	cleared uint64
	next    uint64
}

func NewCache(maxCost int64) (*Cache, error) {
	if maxCost <= 0 {
		maxCost = 10000
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxCost * 10, // number of keys to track frequency of
		MaxCost:     maxCost,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &Cache{
		store: store,
		keys:  make(map[string]map[string]struct{}),
		gens:  make(map[string]uint64),
	}, nil
}

func accountsKey(ownerID string) string { return "accounts:" + ownerID }

// budgetKey scopes the summary to a calendar month so a new month never reads last month's totals.
func budgetKey(ownerID string, at time.Time) string {
	return "budget:" + ownerID + ":" + at.Format("2006-01")
}

// Generation returns the owner's current generation. Capture it before reading the store and
// pass it to the matching Set call.
func (c *Cache) Generation(ownerID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation(ownerID)
}

func (c *Cache) generation(ownerID string) uint64 {
	if gen := c.gens[ownerID]; gen > c.cleared {
		return gen
	}
	return c.cleared
}

func (c *Cache) GetAccounts(ownerID string) ([]models.Account, bool) {
	v, ok := c.store.Get(accountsKey(ownerID))
	if !ok {
		return nil, false
	}
	accounts, ok := v.([]models.Account)
	return accounts, ok
}

func (c *Cache) SetAccounts(ownerID string, gen uint64, accounts []models.Account) {
	c.set(ownerID, gen, accountsKey(ownerID), accounts)
}

func (c *Cache) GetBudget(ownerID string, at time.Time) (*models.BudgetSummary, bool) {
	v, ok := c.store.Get(budgetKey(ownerID, at))
	if !ok {
		return nil, false
	}
	summary, ok := v.(*models.BudgetSummary)
	return summary, ok
}

func (c *Cache) SetBudget(ownerID string, gen uint64, at time.Time, summary *models.BudgetSummary) {
	c.set(ownerID, gen, budgetKey(ownerID, at), summary)
}

// InvalidateOwner drops every cached view belonging to the owner and moves its generation,
// so reads that started before the mutation cannot store their results.
func (c *Cache) InvalidateOwner(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	c.gens[ownerID] = c.next
	c.store.Wait()
	for key := range c.keys[ownerID] {
		c.store.Del(key)
	}
	delete(c.keys, ownerID)
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.next++
	c.cleared = c.next
	c.store.Clear()
	c.keys = make(map[string]map[string]struct{})
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

func (c *Cache) Close() {
	c.store.Close()
}

func (c *Cache) set(ownerID string, gen uint64, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation(ownerID) {
		return
	}
	if c.keys[ownerID] == nil {
		c.keys[ownerID] = make(map[string]struct{})
	}
	c.keys[ownerID][key] = struct{}{}
	c.store.SetWithTTL(key, value, 1, cacheTTL)
}
