// GatherLens - Venue Marketing Analytics Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gatherlens

// Package cache provides a thread-safe in-memory TTL cache for analytics
// responses.
//
// Every metric fetcher consults this cache before issuing an upstream call,
// keyed by the fetcher name and its argument tuple (see GenerateKey). The
// default TTL covers standard report queries; realtime active-user counts are
// stored with a shorter per-entry TTL via SetWithTTL, so one store serves
// both cases.
//
// The cache is process-local. In a multi-instance deployment each process
// holds an independent cache, which only costs duplicate upstream calls;
// writes for a given key are idempotent.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/gatherlens/internal/metrics"
)

// Store is the cache contract consumed by the metric fetchers. It is
// satisfied by *Cache; tests substitute recording fakes.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	SetWithTTL(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Entry represents a cached item with its expiration time.
type Entry struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a thread-safe in-memory cache with per-entry TTL support.
// Expired entries are removed lazily on Get and swept periodically by a
// background cleanup goroutine.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	name    string
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source. Tests use this to expire entries
// deterministically without sleeping.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithName sets the cache namespace used for metrics labels.
func WithName(name string) Option {
	return func(c *Cache) {
		c.name = name
	}
}

// New creates a cache whose entries expire ttl after they are set, and
// starts a background goroutine sweeping expired entries every 5 minutes.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		name:    "analytics",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves a value by key. A hit within the TTL returns (data, true).
// An expired entry is deleted and reported as a miss.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		return nil, false
	}

	if c.now().After(entry.ExpiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return entry.Data, true
}

// Set stores a value with the default TTL configured at construction.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL. Overwrites any existing
// entry for the key.
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
}

// Delete removes a single entry. No-op if the key does not exist.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	metrics.CacheEvictions.WithLabelValues(c.name).Inc()
}

// Clear removes all entries in one operation.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

// Len returns the number of entries currently stored, including any that
// have expired but not yet been swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}

func (c *Cache) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			metrics.CacheEvictions.WithLabelValues(c.name).Inc()
		}
	}
}

// GenerateKey derives a deterministic cache key from a fetcher name and its
// argument tuple. Structurally equal arguments always serialize to the same
// key, so repeated queries hit the cache instead of the upstream API.
func GenerateKey(method string, args ...interface{}) string {
	data, err := json.Marshal(args)
	if err != nil {
		// Fallback to a formatted key; correctness over compactness.
		return fmt.Sprintf("%s:%v", method, args)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
