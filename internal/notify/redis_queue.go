package notify

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPollInterval = time.Second

// RedisQueue stores pending notifications in a Redis list so they survive
// process restarts.
type RedisQueue struct {
	client *redis.Client
	key    string
	closed atomic.Bool
}

// NewRedisQueue wraps a list under key. The client is owned by the caller.
func NewRedisQueue(client *redis.Client, key string) *RedisQueue {
	return &RedisQueue{client: client, key: key}
}

// Enqueue pushes onto the head of the list.
func (q *RedisQueue) Enqueue(ctx context.Context, n Notification) error {
	if q.closed.Load() {
		return ErrQueueClosed
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, q.key, payload).Err()
}

// Dequeue pops from the tail, polling so cancellation is observed. Once the
// queue is closed and the list is empty it returns ErrQueueClosed.
func (q *RedisQueue) Dequeue(ctx context.Context) (Notification, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Notification{}, err
		}
		res, err := q.client.BRPop(ctx, redisPollInterval, q.key).Result()
		if errors.Is(err, redis.Nil) {
			if q.closed.Load() {
				return Notification{}, ErrQueueClosed
			}
			continue
		}
		if err != nil {
			return Notification{}, err
		}
		if len(res) != 2 {
			return Notification{}, fmt.Errorf("unexpected BRPOP reply %v", res)
		}
		var n Notification
		if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
			return Notification{}, fmt.Errorf("decode notification: %w", err)
		}
		return n, nil
	}
}

// Close stops new enqueues. Items already in Redis stay there.
func (q *RedisQueue) Close() error {
	q.closed.Store(true)
	return nil
}
