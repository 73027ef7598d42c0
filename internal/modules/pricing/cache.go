// README: Redis cache of computed quotes keyed by a request fingerprint.
package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "pricing:quote:"

type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

// Get returns the cached quote for req; ok is false on a miss.
func (c *Cache) Get(ctx context.Context, req BookingRequest) (Quote, bool, error) {
	data, err := c.redis.Get(ctx, quoteKey(req)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, fmt.Errorf("redis get quote: %w", err)
	}
	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false, fmt.Errorf("unmarshal quote: %w", err)
	}
	return q, true, nil
}

func (c *Cache) Set(ctx context.Context, req BookingRequest, q Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := c.redis.Set(ctx, quoteKey(req), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set quote: %w", err)
	}
	return nil
}

func quoteKey(req BookingRequest) string {
	return quoteKeyPrefix + fingerprint(req)
}

// fingerprint hashes every field that affects the price.
func fingerprint(req BookingRequest) string {
	parts := []string{
		strconv.FormatFloat(req.HourlyFee, 'g', -1, 64),
		strconv.FormatFloat(req.DurationHours, 'g', -1, 64),
		strconv.FormatBool(req.IsWeekendOrHoliday),
		req.StartTime,
		strconv.Itoa(req.StudentCount),
		strconv.Itoa(req.TotalWeeks),
		req.Options.String(),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
