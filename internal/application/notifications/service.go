package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Notification is one message on a worker's queue.
type Notification struct {
	WorkerID    uint   `json:"worker_id"`
	Type        string `json:"n_type"`
	Description string `json:"description"`
}

// Service delivers per-worker notifications over redis lists.
type Service struct {
	RDB *redis.Client
}

func key(workerID uint) string {
	return fmt.Sprintf("notifications:%d", workerID)
}

// Push queues a notification for a worker.
func (s *Service) Push(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return s.RDB.LPush(ctx, key(n.WorkerID), payload).Err()
}

// Pop takes the next notification for a worker, waiting up to a second.
// Returns nil when the queue stays empty.
func (s *Service) Pop(ctx context.Context, workerID uint) (*Notification, error) {
	res, err := s.RDB.BLPop(ctx, time.Second, key(workerID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// BLPop returns the key followed by the value.
	var n Notification
	if err := json.Unmarshal([]byte(res[1]), &n); err != nil {
		return nil, err
	}
	return &n, nil
}
