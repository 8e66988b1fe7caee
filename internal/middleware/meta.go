package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	metaKey      = "response_meta"
	metaStartKey = "response_meta_start"
	cacheHitKey  = "cache_hit"
)

// WithResponseMeta opens a per-request meta map that handlers fill and pass
// to response.JSON.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether the payload was served from Redis.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, cacheHitKey, hit)
}

func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	meta := stored(c)
	if meta == nil {
		meta = map[string]interface{}{}
		c.Set(metaKey, meta)
	}
	meta[key] = value
}

// ExtractMeta returns the meta map, stamped with processing_time_ms measured
// up to the call. Nil when nothing was recorded and no timer is running.
func ExtractMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	meta := stored(c)
	if v, ok := c.Get(metaStartKey); ok {
		if start, ok := v.(time.Time); ok {
			if meta == nil {
				meta = map[string]interface{}{}
				c.Set(metaKey, meta)
			}
			meta["processing_time_ms"] = time.Since(start).Milliseconds()
		}
	}
	return meta
}

func stored(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(metaKey); ok {
		if meta, ok := v.(map[string]interface{}); ok {
			return meta
		}
	}
	return nil
}
