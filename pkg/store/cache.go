package store

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/coolbeans/lagref/pkg/types"
)

// CachedReader is a read-through cache over a Reader for the lookups the
// validator repeats: document existence, status, title and provision
// existence. Other reads pass straight through. Failed lookups are not cached.
type CachedReader struct {
	Reader
	cache *gocache.Cache
}

// NewCachedReader wraps r with an in-memory cache.
func NewCachedReader(r Reader, ttl, cleanupInterval time.Duration) *CachedReader {
	return &CachedReader{
		Reader: r,
		cache:  gocache.New(ttl, cleanupInterval),
	}
}

func cached[T any](c *CachedReader, key string, load func() (T, error)) (T, error) {
	if val, found := c.cache.Get(key); found {
		return val.(T), nil
	}
	val, err := load()
	if err != nil {
		return val, err
	}
	c.cache.SetDefault(key, val)
	return val, nil
}

// DocumentExists implements Reader.
func (c *CachedReader) DocumentExists(ctx context.Context, documentID string) (bool, error) {
	return cached(c, "exists:"+documentID, func() (bool, error) {
		return c.Reader.DocumentExists(ctx, documentID)
	})
}

// ProvisionExists implements Reader.
func (c *CachedReader) ProvisionExists(ctx context.Context, documentID, provisionRef string) (bool, error) {
	return cached(c, "provision:"+versionKey(documentID, provisionRef), func() (bool, error) {
		return c.Reader.ProvisionExists(ctx, documentID, provisionRef)
	})
}

// DocumentStatus implements Reader.
func (c *CachedReader) DocumentStatus(ctx context.Context, documentID string) (types.DocumentStatus, error) {
	return cached(c, "status:"+documentID, func() (types.DocumentStatus, error) {
		return c.Reader.DocumentStatus(ctx, documentID)
	})
}

// DocumentTitle implements Reader.
func (c *CachedReader) DocumentTitle(ctx context.Context, documentID string) (string, error) {
	return cached(c, "title:"+documentID, func() (string, error) {
		return c.Reader.DocumentTitle(ctx, documentID)
	})
}

// Invalidate drops every cached entry for a document.
func (c *CachedReader) Invalidate(documentID string) {
	c.cache.Delete("exists:" + documentID)
	c.cache.Delete("status:" + documentID)
	c.cache.Delete("title:" + documentID)
	prefix := "provision:" + documentID + "#"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}
