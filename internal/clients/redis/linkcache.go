package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/happypath-backend/internal/logger"
)

// LinkCache memoizes guardian-link membership checks, the hottest path in the
// access-control layer. It is strictly an accelerator: the guardian service
// treats a miss or an error as "ask the database".
type LinkCache interface {
	Get(ctx context.Context, parentID, studentID uuid.UUID) (linked bool, ok bool)
	Set(ctx context.Context, parentID, studentID uuid.UUID, linked bool)
	InvalidateStudent(ctx context.Context, studentID uuid.UUID)
	Close() error
}

type linkCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewLinkCache returns nil (no cache) when REDIS_ADDR is unset.
func NewLinkCache(log *logger.Logger) (LinkCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &linkCache{
		log: log.With("service", "RedisLinkCache"),
		rdb: rdb,
		ttl: 30 * time.Second,
	}, nil
}

func linkKey(parentID, studentID uuid.UUID) string {
	return fmt.Sprintf("guardian:link:%s:%s", parentID, studentID)
}

func studentSetKey(studentID uuid.UUID) string {
	return fmt.Sprintf("guardian:student:%s", studentID)
}

func (c *linkCache) Get(ctx context.Context, parentID, studentID uuid.UUID) (bool, bool) {
	val, err := c.rdb.Get(ctx, linkKey(parentID, studentID)).Result()
	if err != nil {
		return false, false
	}
	return val == "1", true
}

func (c *linkCache) Set(ctx context.Context, parentID, studentID uuid.UUID, linked bool) {
	key := linkKey(parentID, studentID)
	val := "0"
	if linked {
		val = "1"
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, val, c.ttl)
	// Track keys per student so assign/unassign can drop every cached answer
	// about that student, whichever parent asked.
	pipe.SAdd(ctx, studentSetKey(studentID), key)
	pipe.Expire(ctx, studentSetKey(studentID), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Debug("link cache set failed", "error", err)
	}
}

func (c *linkCache) InvalidateStudent(ctx context.Context, studentID uuid.UUID) {
	setKey := studentSetKey(studentID)
	keys, err := c.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		c.log.Debug("link cache invalidate failed", "error", err)
		return
	}
	keys = append(keys, setKey)
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Debug("link cache invalidate failed", "error", err)
	}
}

func (c *linkCache) Close() error {
	return c.rdb.Close()
}
