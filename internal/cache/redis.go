package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lazarnikolic5396/Razmenime/internal/config"
)

func NewClient(ctx context.Context, cfg config.RedisConf) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

const unreadTTL = 5 * time.Minute

// UnreadCounts caches per-conversation unread counters so conversation
// list polling does not hit Mongo for every row.
type UnreadCounts struct {
	client *redis.Client
}

func NewUnreadCounts(client *redis.Client) *UnreadCounts {
	return &UnreadCounts{client: client}
}

func unreadKey(conversationID, viewerID string) string {
	return fmt.Sprintf("unread:%s:%s", conversationID, viewerID)
}

func (u *UnreadCounts) GetUnread(ctx context.Context, conversationID, viewerID string) (int64, bool) {
	n, err := u.client.Get(ctx, unreadKey(conversationID, viewerID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (u *UnreadCounts) SetUnread(ctx context.Context, conversationID, viewerID string, n int64) {
	u.client.Set(ctx, unreadKey(conversationID, viewerID), n, unreadTTL)
}

// InvalidateUnread drops cached counters for both participants after a
// write to the conversation.
func (u *UnreadCounts) InvalidateUnread(ctx context.Context, conversationID string, participantIDs ...string) {
	keys := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		keys = append(keys, unreadKey(conversationID, id))
	}
	if len(keys) > 0 {
		u.client.Del(ctx, keys...)
	}
}
