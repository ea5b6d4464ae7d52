package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

const keyPrefix = "summariser:summary:"

// SummaryCache keeps final summaries in Valkey, keyed by model and input.
type SummaryCache struct {
	client valkey.Client
	ttl    time.Duration
}

func NewSummaryCache(client valkey.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) Get(ctx context.Context, modelID, text string) (string, bool, error) {
	summary, err := c.client.Do(ctx, c.client.B().Get().Key(Key(modelID, text)).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("[SummaryCache] get: %w", err)
	}
	return summary, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, modelID, text, summary string) error {
	key := Key(modelID, text)
	cmd := c.client.B().Set().Key(key).Value(summary).ExSeconds(int64(c.ttl/time.Second)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("[SummaryCache] set: %w", err)
	}

	slog.Debug("[SummaryCache] Stored summary",
		slog.String("key", key),
		slog.Duration("ttl", c.ttl))
	return nil
}

func (c *SummaryCache) Close() {
	c.client.Close()
}

// Key hashes the input so large texts never become Valkey keys.
func Key(modelID, text string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
