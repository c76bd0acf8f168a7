package manifest

import (
	"context"
	"strconv"
	"sync"
	"testing"
)

func TestCache(t *testing.T) {
	var c Cache

	ctx := context.Background()

	a := c.Parse(ctx, "A;")
	if c.Parse(ctx, "A;") != a {
		t.Error("second Parse of the same text returned a different document")
	}

	b := c.Parse(ctx, "B;")
	if b == a {
		t.Error("different texts share a document")
	}

	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d", c.Len())
	}

	if c.Parse(ctx, "A;") == a {
		t.Error("Clear kept the document")
	}
}

func TestCache_Concurrent(t *testing.T) {
	var (
		c  Cache
		wg sync.WaitGroup
	)

	const sources = 8

	for i := range 64 {
		wg.Go(func() {
			src := "A " + strconv.Itoa(i%sources) + "u8;"

			doc := c.Parse(context.Background(), src)
			if doc.Source() != src {
				t.Errorf("Parse(%q) returned document for %q", src, doc.Source())
			}
		})
	}

	wg.Wait()

	if c.Len() != sources {
		t.Errorf("Len() = %d, want %d", c.Len(), sources)
	}
}
