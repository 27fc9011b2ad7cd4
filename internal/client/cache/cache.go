// Package cache keeps the last successfully fetched snapshot of documents and
// categories. Refresh fetches both lists concurrently and replaces the
// snapshot only when both succeed.
package cache

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/docvault/internal/client/models"
	"github.com/dmitrijs2005/docvault/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Fetcher is the read side of the API used by Refresh.
type Fetcher interface {
	ListDocuments(ctx context.Context, token string) ([]models.Document, error)
	ListCategories(ctx context.Context, token string) ([]models.Category, error)
}

type snapshot struct {
	docs []models.Document
	cats []models.Category
}

type Cache struct {
	fetcher Fetcher
	logger  logging.Logger

	mu      sync.RWMutex
	snap    snapshot
	refresh atomic.Int32
}

func New(f Fetcher, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Cache{fetcher: f, logger: logger}
}

// Refresh refetches both lists. On any failure the previous snapshot is kept
// and the first error is returned.
func (c *Cache) Refresh(ctx context.Context, token string) error {
	c.refresh.Add(1)
	defer c.refresh.Add(-1)

	var next snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := c.fetcher.ListDocuments(gctx, token)
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		next.docs = docs
		return nil
	})
	g.Go(func() error {
		cats, err := c.fetcher.ListCategories(gctx, token)
		if err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		next.cats = cats
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.mu.Lock()
	c.snap = next
	c.mu.Unlock()

	c.logger.Debug(ctx, "cache refreshed", "documents", len(next.docs), "categories", len(next.cats))
	return nil
}

// Loading is true while at least one Refresh is in flight.
func (c *Cache) Loading() bool {
	return c.refresh.Load() > 0
}

// Clear drops the snapshot.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.snap = snapshot{}
	c.mu.Unlock()
}

func (c *Cache) Documents() []models.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Document, len(c.snap.docs))
	for i, d := range c.snap.docs {
		out[i] = copyDocument(d)
	}
	return out
}

func (c *Cache) Categories() []models.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Category, len(c.snap.cats))
	for i, cat := range c.snap.cats {
		out[i] = copyCategory(cat)
	}
	return out
}

func (c *Cache) Document(id int64) (models.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, d := range c.snap.docs {
		if d.ID == id {
			return copyDocument(d), true
		}
	}
	return models.Document{}, false
}

func (c *Cache) Category(id int64) (models.Category, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, cat := range c.snap.cats {
		if cat.ID == id {
			return copyCategory(cat), true
		}
	}
	return models.Category{}, false
}

// CategoryName returns the name of category id, or "" when unknown.
func (c *Cache) CategoryName(id int64) string {
	cat, ok := c.Category(id)
	if !ok {
		return ""
	}
	return cat.Name
}

// DocumentCount counts the cached documents referencing categoryID.
func (c *Cache) DocumentCount(categoryID int64) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, d := range c.snap.docs {
		if d.CategoryID == categoryID {
			n++
		}
	}
	return n
}

// SubcategoryCount is the total number of subcategories over all categories.
func (c *Cache) SubcategoryCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, cat := range c.snap.cats {
		n += len(cat.Subcategories)
	}
	return n
}

func copyDocument(d models.Document) models.Document {
	d.Tags = slices.Clone(d.Tags)
	return d
}

func copyCategory(c models.Category) models.Category {
	c.Subcategories = slices.Clone(c.Subcategories)
	return c
}
