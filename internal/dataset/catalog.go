package dataset

import (
	"sync"
	"time"
)

// Catalog holds the current normalized batch in memory. A (re)load
// replaces the batch wholesale; nothing is persisted. The generation
// counter gives last-load-wins semantics: a load that was superseded by
// a newer one must not apply its result.
type Catalog struct {
	mu         sync.RWMutex
	records    []Scholarship
	rawText    string
	loaded     bool
	loadedAt   time.Time
	nextGen    uint64
	appliedGen uint64
}

func NewCatalog() *Catalog {
	return &Catalog{}
}

// BeginLoad reserves a generation for a load that is about to start.
// Later generations always win over earlier ones, regardless of
// completion order.
func (c *Catalog) BeginLoad() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextGen++
	return c.nextGen
}

// Replace installs a freshly normalized batch along with the raw source
// text it came from. It reports whether the batch was applied; a stale
// generation is discarded.
func (c *Catalog) Replace(gen uint64, records []Scholarship, rawText string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen <= c.appliedGen {
		return false
	}
	c.appliedGen = gen
	c.records = records
	c.rawText = rawText
	c.loaded = true
	c.loadedAt = time.Now()
	return true
}

// Records returns the current batch. The slice header is shared with
// the catalog; callers must treat it as read-only.
func (c *Catalog) Records() []Scholarship {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.records
}

// RawText returns the raw dataset text for use as assistant context.
func (c *Catalog) RawText() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rawText
}

// Ready reports whether at least one load has completed. Callers use it
// to distinguish "still loading" from a genuine zero-match result.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// LoadedAt returns when the current batch was installed.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Len returns the size of the current batch.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
