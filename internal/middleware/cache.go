package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/faculty-directory-api/internal/service"
)

const cacheKeyPrefix = "fd:resp:"

type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Cache serves public GET responses from Redis. Only 200 responses are
// stored; anything else passes through untouched. A nil client disables
// caching entirely.
func Cache(client *redis.Client, ttl time.Duration, metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKeyPrefix + c.Request.URL.RequestURI()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		cached, err := client.Get(ctx, key).Bytes()
		cancel()
		if err == nil {
			metricsSvc.RecordCacheOperation(true)
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}
		metricsSvc.RecordCacheOperation(false)

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if c.Writer.Status() == http.StatusOK && writer.body.Len() > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			client.Set(ctx, key, writer.body.Bytes(), ttl)
			cancel()
		}
	}
}

// InvalidateCache drops all cached responses. Write handlers call this
// after a successful mutation so reads never serve stale rows.
func InvalidateCache(client *redis.Client) {
	if client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	iter := client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
