package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key 前缀
	sessionKeyPrefix = "session:"

	// 会话过期时间：断线后超过这个时间不再允许重连
	sessionExpiration = 24 * time.Hour
)

// RedisStore Redis 存储
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 创建 Redis 存储
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// PlayerSessionData 玩家会话数据（用于 Redis 序列化）
type PlayerSessionData struct {
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ReconnectToken string `json:"token"`
	RoomCode       string `json:"room_code"`
	IsOnline       bool   `json:"is_online"`
	DisconnectedAt int64  `json:"disconnected_at,omitempty"`
}

// SaveSession 保存会话到 Redis
func (rs *RedisStore) SaveSession(ctx context.Context, session *PlayerSessionData) error {
	data := map[string]any{
		"player_id":   session.PlayerID,
		"player_name": session.PlayerName,
		"token":       session.ReconnectToken,
		"room_code":   session.RoomCode,
		"is_online":   session.IsOnline,
	}

	if session.DisconnectedAt != 0 {
		data["disconnected_at"] = session.DisconnectedAt
	}

	key := sessionKeyPrefix + session.PlayerID
	if err := rs.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return rs.client.Expire(ctx, key, sessionExpiration).Err()
}

// LoadSession 从 Redis 加载会话，不存在时返回 (nil, nil)
func (rs *RedisStore) LoadSession(ctx context.Context, playerID string) (*PlayerSessionData, error) {
	key := sessionKeyPrefix + playerID
	data, err := rs.client.HGetAll(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	session := &PlayerSessionData{
		PlayerID:       data["player_id"],
		PlayerName:     data["player_name"],
		ReconnectToken: data["token"],
		RoomCode:       data["room_code"],
		IsOnline:       data["is_online"] == "1",
	}

	return session, nil
}

// DeleteSession 删除会话
func (rs *RedisStore) DeleteSession(ctx context.Context, playerID string) error {
	key := sessionKeyPrefix + playerID
	return rs.client.Del(ctx, key).Err()
}
