// Package genes deduplicates Gene items by natural key within one extractor run.
package genes

import (
	"context"
	"regexp"

	"github.com/LegumeFederation/intermine-legfed/pkg/items"
)

// Cache is run-scoped and owned by a single extractor. It is not safe for
// concurrent use.
type Cache struct {
	byKey map[string]*items.Item
	order []*items.Item
}

func NewCache() *Cache {
	return &Cache{byKey: make(map[string]*items.Item)}
}

// Resolve returns the gene cached under key, or builds, caches and returns a
// new one. build is not called for a cached key.
func (c *Cache) Resolve(key string, build func() (*items.Item, error)) (gene *items.Item, created bool, err error) {
	if g, ok := c.byKey[key]; ok {
		return g, false, nil
	}
	g, err := build()
	if err != nil {
		return nil, false, err
	}
	c.byKey[key] = g
	c.order = append(c.order, g)
	return g, true, nil
}

func (c *Cache) Get(key string) (*items.Item, bool) {
	g, ok := c.byKey[key]
	return g, ok
}

func (c *Cache) Len() int { return len(c.order) }

// All returns the cached genes in creation order.
func (c *Cache) All() []*items.Item {
	out := make([]*items.Item, len(c.order))
	copy(out, c.order)
	return out
}

// Flush stores every cached gene.
func (c *Cache) Flush(ctx context.Context, sink items.Sink) error {
	return sink.Store(ctx, c.order...)
}

var isoformSuffix = regexp.MustCompile(`\.[0-9]+$`)

// TruncatedKey derives a gene name from a polypeptide name of the form
// <gene>.<isoform>. ok is false when name has no isoform suffix, in which case
// name is returned unchanged.
func TruncatedKey(name string) (key string, ok bool) {
	loc := isoformSuffix.FindStringIndex(name)
	if loc == nil || loc[0] == 0 {
		return name, false
	}
	return name[:loc[0]], true
}

// CompositeKey combines unique name and display name so that distinct features
// sharing a display name stay distinct.
func CompositeKey(uniqueName, name string) string {
	return uniqueName + "xxx" + name
}
