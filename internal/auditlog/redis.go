package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key structure:
//
//	relay:delivery:{email} - List of record JSON documents, oldest first
//	relay:status:{email}   - Hash with the latest status and sent_at (epoch ms)
const (
	redisHistoryPrefix = "relay:delivery:"
	redisStatusPrefix  = "relay:status:"
)

// RedisRecorder appends records to Redis.
type RedisRecorder struct {
	redis *redis.Client
}

func NewRedisRecorder(redisURL string) (*RedisRecorder, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &RedisRecorder{redis: client}, nil
}

// NewRedisRecorderFromClient creates a recorder from an existing Redis connection.
func NewRedisRecorderFromClient(client *redis.Client) *RedisRecorder {
	return &RedisRecorder{redis: client}
}

func (r *RedisRecorder) Type() string {
	return "redis"
}

func (r *RedisRecorder) Record(ctx context.Context, rec Record) error {
	doc, err := json.Marshal(struct {
		Email  string `json:"emailId"`
		Status string `json:"status"`
		SentAt int64  `json:"sentAt"`
	}{rec.Email, rec.Status, rec.SentAtMillis()})
	if err != nil {
		return fmt.Errorf("marshal delivery record: %w", err)
	}

	pipe := r.redis.TxPipeline()
	pipe.RPush(ctx, redisHistoryPrefix+rec.Email, doc)
	pipe.HSet(ctx, redisStatusPrefix+rec.Email, map[string]interface{}{
		"status":  rec.Status,
		"sent_at": strconv.FormatInt(rec.SentAtMillis(), 10),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Close() error {
	return r.redis.Close()
}
