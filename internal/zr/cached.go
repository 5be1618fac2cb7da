package zr

import (
	"context"
	"fmt"
	"time"

	"github.com/zirconconsole/zircon/internal/cachemanager"
	"github.com/zirconconsole/zircon/internal/ui/styles"
)

const cachedHighlightTTL = 5 * time.Minute

type highlightInput struct {
	source string
	colors *styles.SyntaxColors
}

// Cached memoises a highlighter by palette and source. The wrapped
// highlighter must be pure; the cache never changes its output.
type Cached struct {
	rt *cachemanager.ReadThroughCache[string, string, highlightInput]
}

// NewCached wraps inner with a go-cache backed memo.
func NewCached(inner Highlighter) *Cached {
	cache := cachemanager.NewInMemoryCacheManager[string, string]("highlight", cachedHighlightTTL, 2*cachedHighlightTTL)
	return &Cached{
		rt: cachemanager.NewReadThroughCache(cache, func(_ context.Context, in highlightInput) (string, error) {
			return inner.Highlight(in.source, in.colors), nil
		}, cachedHighlightTTL),
	}
}

// Highlight implements Highlighter.
func (c *Cached) Highlight(source string, colors *styles.SyntaxColors) string {
	out, _ := c.rt.Get(context.Background(), cacheKey(source, colors), highlightInput{source: source, colors: colors})
	return out
}

func cacheKey(source string, colors *styles.SyntaxColors) string {
	if colors == nil {
		return "default\x00" + source
	}
	return fmt.Sprintf("%v\x00%s", *colors, source)
}
