// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"sync"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// IndexCache is a read-through cache of fitted engines keyed by the
// document's content hash. Identical documents reuse one fitted model;
// a changed document hashes differently and forces a rebuild. Safe for
// concurrent use.
type IndexCache struct {
	mu      sync.Mutex
	cfg     types.RetrievalConfig
	engines map[string]*Engine
}

// NewIndexCache returns an empty cache building engines with cfg.
func NewIndexCache(cfg types.RetrievalConfig) *IndexCache {
	return &IndexCache{
		cfg:     cfg.Normalized(),
		engines: make(map[string]*Engine),
	}
}

// Engine returns the cached engine for the document's current content,
// fitting and caching one on first sight of that content.
func (c *IndexCache) Engine(doc *types.Document) (*Engine, error) {
	hash, err := doc.ContentHash()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if engine, ok := c.engines[hash]; ok {
		return engine, nil
	}
	engine := NewEngine(doc, c.cfg)
	c.engines[hash] = engine
	return engine, nil
}

// Invalidate drops the cached engine for a content hash, if present.
func (c *IndexCache) Invalidate(hash string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.engines, hash)
}

// Len returns the number of cached engines.
func (c *IndexCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.engines)
}
