package manifest

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// Cache memoizes [Parse] results by the content of their source. The zero
// Cache is ready to use and safe for concurrent use. Options given to
// [Cache.Parse] only affect logging, so they are not part of the key.
type Cache struct {
	docs sync.Map // uint64 -> *Document
	size atomic.Int64
}

// Parse returns the cached document for src, parsing it on a miss. Two
// sources hash to the same entry only when their text is identical; a hash
// collision between different texts is detected and parsed afresh.
func (c *Cache) Parse(ctx context.Context, src string, opts ...Option) *Document {
	key := xxh3.HashString(src)

	if v, ok := c.docs.Load(key); ok {
		if doc := v.(*Document); doc.source == src {
			makeConfig(opts...).logger.TraceContext(ctx, "parse cache hit",
				slog.String("key", strconv.FormatUint(key, 36)),
			)

			return doc
		}

		return Parse(ctx, src, opts...)
	}

	doc := Parse(ctx, src, opts...)

	if v, loaded := c.docs.LoadOrStore(key, doc); loaded {
		if cached := v.(*Document); cached.source == src {
			return cached
		}

		return doc
	}

	c.size.Add(1)

	return doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int { return int(c.size.Load()) }

// Clear removes every cached document.
func (c *Cache) Clear() {
	c.docs.Range(func(key, _ any) bool {
		if _, ok := c.docs.LoadAndDelete(key); ok {
			c.size.Add(-1)
		}

		return true
	})
}
