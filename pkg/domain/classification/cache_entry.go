package classification

import "time"

// CacheEntry is a permanent BOT verdict for a single IP address.
type CacheEntry struct {
	IP             string         `json:"ip"`
	Classification Classification `json:"classification"`
	Reason         string         `json:"reason"`
	TrustLevel     int            `json:"trustLevel"`
	ClientInfo     ClientInfo     `json:"clientInfo"`
	CachedAt       time.Time      `json:"cached_at"`
	HitCount       int64          `json:"hit_count"`
	LastHit        time.Time      `json:"last_hit"`
}

func NewCacheEntry(ip string, v Verdict, now time.Time) *CacheEntry {
	entry := &CacheEntry{
		IP:             ip,
		Classification: v.Classification,
		Reason:         v.Reason,
		TrustLevel:     v.TrustLevel,
		CachedAt:       now,
		HitCount:       1,
		LastHit:        now,
	}
	if v.ClientInfo != nil {
		entry.ClientInfo = *v.ClientInfo
	}
	return entry
}

// Verdict rebuilds the verdict served from the cache.
func (e *CacheEntry) Verdict() Verdict {
	info := e.ClientInfo
	return Verdict{
		Classification: e.Classification,
		Source:         SourceCache,
		Reason:         e.Reason,
		TrustLevel:     e.TrustLevel,
		ClientInfo:     &info,
	}
}

type Stats struct {
	TotalCached int     `json:"totalCached"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hitRate"`
	Saved       int64   `json:"saved"`
}

// Snapshot is the persisted form of the whole cache.
type Snapshot struct {
	Bots  map[string]*CacheEntry `json:"bots"`
	Stats SnapshotStats          `json:"stats"`
}

type SnapshotStats struct {
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	TotalSaved int64     `json:"totalSaved"`
	LastReset  time.Time `json:"lastReset"`
}
