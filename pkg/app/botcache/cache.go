package botcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/TrustCloak/pkg/domain/classification"
	"github.com/sirupsen/logrus"
)

// Cache holds permanent BOT verdicts keyed by client IP. HUMAN verdicts are
// never stored.
type Cache interface {
	Get(ip string) (*classification.CacheEntry, bool)
	Put(ip string, verdict classification.Verdict) bool
	IncrementHit(ip string)
	Stats() classification.Stats
	Clear()
	Remove(ip string) bool
	Entries() []classification.CacheEntry
	Load(ctx context.Context) error
	Close(ctx context.Context) error
}

type Options struct {
	Debounce time.Duration
	MaxWait  time.Duration
	Now      func() time.Time
}

const (
	DefaultDebounce = 2 * time.Second
	DefaultMaxWait  = 20 * time.Second
)

type cache struct {
	logger    *logrus.Logger
	mu        sync.RWMutex
	entries   map[string]*classification.CacheEntry
	lastReset time.Time
	hits      atomic.Int64
	misses    atomic.Int64
	saved     atomic.Int64
	persister *persister
	now       func() time.Time
}

// NewCache builds an in-memory cache. A nil store disables persistence.
func NewCache(logger *logrus.Logger, store classification.SnapshotStore, opts Options) Cache {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = DefaultMaxWait
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	c := &cache{
		logger:    logger,
		entries:   make(map[string]*classification.CacheEntry),
		lastReset: opts.Now(),
		now:       opts.Now,
	}
	if store != nil {
		c.persister = newPersister(logger, store, c.snapshot, opts.Debounce, opts.MaxWait)
	}
	return c
}

// Cacheable reports whether verdicts for ip may be stored at all.
func Cacheable(ip string) bool {
	_, ok := normalizeIP(ip)
	return ok
}

func normalizeIP(ip string) (string, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() {
		return "", false
	}
	return parsed.String(), true
}

func (c *cache) Get(ip string) (*classification.CacheEntry, bool) {
	key, ok := normalizeIP(ip)
	if !ok {
		return nil, false
	}
	c.mu.RLock()
	entry, found := c.entries[key]
	var out classification.CacheEntry
	if found {
		out = *entry
	}
	c.mu.RUnlock()

	if !found {
		c.misses.Add(1)
		c.schedule()
		return nil, false
	}
	c.hits.Add(1)
	c.schedule()
	return &out, true
}

func (c *cache) Put(ip string, verdict classification.Verdict) bool {
	if !verdict.IsBot() {
		return false
	}
	key, ok := normalizeIP(ip)
	if !ok {
		return false
	}
	now := c.now()

	c.mu.Lock()
	if entry, exists := c.entries[key]; exists {
		entry.HitCount++
		entry.LastHit = now
	} else {
		c.entries[key] = classification.NewCacheEntry(key, verdict, now)
	}
	c.mu.Unlock()

	c.schedule()
	return true
}

func (c *cache) IncrementHit(ip string) {
	key, ok := normalizeIP(ip)
	if !ok {
		return
	}
	c.mu.Lock()
	entry, exists := c.entries[key]
	if exists {
		entry.HitCount++
		entry.LastHit = c.now()
	}
	c.mu.Unlock()

	if exists {
		c.saved.Add(1)
		c.schedule()
	}
}

func (c *cache) Stats() classification.Stats {
	c.mu.RLock()
	total := len(c.entries)
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses)
	}
	return classification.Stats{
		TotalCached: total,
		Hits:        hits,
		Misses:      misses,
		HitRate:     rate,
		Saved:       c.saved.Load(),
	}
}

func (c *cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*classification.CacheEntry)
	c.lastReset = c.now()
	c.hits.Store(0)
	c.misses.Store(0)
	c.saved.Store(0)
	c.mu.Unlock()

	c.logger.Info("bot cache cleared")
	c.schedule()
}

func (c *cache) Remove(ip string) bool {
	key, ok := normalizeIP(ip)
	if !ok {
		return false
	}
	c.mu.Lock()
	_, exists := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if exists {
		c.schedule()
	}
	return exists
}

func (c *cache) Entries() []classification.CacheEntry {
	c.mu.RLock()
	out := make([]classification.CacheEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, *entry)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CachedAt.Before(out[j].CachedAt)
	})
	return out
}

// Load replaces the in-memory state with the persisted snapshot. A missing
// snapshot is not an error.
func (c *cache) Load(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	data, err := c.persister.store.Load(ctx)
	if err != nil {
		if errors.Is(err, classification.ErrSnapshotNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load bot cache snapshot: %w", err)
	}

	var snap classification.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode bot cache snapshot: %w", err)
	}

	entries := make(map[string]*classification.CacheEntry, len(snap.Bots))
	for ip, entry := range snap.Bots {
		if entry == nil || entry.Classification != classification.Bot {
			continue
		}
		key, ok := normalizeIP(ip)
		if !ok {
			continue
		}
		entry.IP = key
		entries[key] = entry
	}

	c.mu.Lock()
	c.entries = entries
	if !snap.Stats.LastReset.IsZero() {
		c.lastReset = snap.Stats.LastReset
	}
	c.hits.Store(snap.Stats.Hits)
	c.misses.Store(snap.Stats.Misses)
	c.saved.Store(snap.Stats.TotalSaved)
	c.mu.Unlock()

	c.logger.WithField("entries", len(entries)).Info("bot cache loaded")
	return nil
}

func (c *cache) Close(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	return c.persister.close(ctx)
}

func (c *cache) schedule() {
	if c.persister != nil {
		c.persister.schedule()
	}
}

func (c *cache) snapshot() ([]byte, error) {
	c.mu.RLock()
	snap := classification.Snapshot{
		Bots: make(map[string]*classification.CacheEntry, len(c.entries)),
		Stats: classification.SnapshotStats{
			Hits:       c.hits.Load(),
			Misses:     c.misses.Load(),
			TotalSaved: c.saved.Load(),
			LastReset:  c.lastReset,
		},
	}
	for ip, entry := range c.entries {
		e := *entry
		snap.Bots[ip] = &e
	}
	c.mu.RUnlock()

	return json.Marshal(snap)
}
