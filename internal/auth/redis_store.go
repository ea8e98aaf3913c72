package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRedisTTL  = 24 * 30 * time.Hour
	sessionKeyPrefix = "fitcoach-session||"
	devicesSetKey    = "fitcoach-session-devices"
)

// RedisStore shares sessions between kiosk devices. Each device id owns one
// session key; the set of devices with a session is tracked for cleanup.
type RedisStore struct {
	redisClient *redis.Client
	deviceID    string
	ttl         time.Duration
}

func NewRedisStore(redisClient *redis.Client, deviceID string, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisStore{
		redisClient: redisClient,
		deviceID:    deviceID,
		ttl:         ttl,
	}
}

func (s *RedisStore) key() string {
	return sessionKeyPrefix + s.deviceID
}

func (s *RedisStore) Load(ctx context.Context) (*StoredSession, error) {
	cmd := s.redisClient.Get(ctx, s.key())
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	session := &StoredSession{}
	if err := json.Unmarshal([]byte(cmd.Val()), session); err != nil {
		return nil, fmt.Errorf("decode stored session: %w", err)
	}
	return session, nil
}

func (s *RedisStore) Save(ctx context.Context, session StoredSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := s.redisClient.Set(ctx, s.key(), string(raw), s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.redisClient.SAdd(ctx, devicesSetKey, s.deviceID).Err(); err != nil {
		return fmt.Errorf("track session device: %w", err)
	}

	log.Debugf("redis store: session saved for device %s", s.deviceID)
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redisClient.Del(ctx, s.key()).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := s.redisClient.SRem(ctx, devicesSetKey, s.deviceID).Err(); err != nil {
		return fmt.Errorf("untrack session device: %w", err)
	}
	return nil
}

// ScanAndClean drops device entries whose session key already expired.
func (s *RedisStore) ScanAndClean(ctx context.Context) {
	cmd := s.redisClient.SMembers(ctx, devicesSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("redis store: scan and clean, get devices: %s", err)
		return
	}

	for _, deviceID := range cmd.Val() {
		exists := s.redisClient.Exists(ctx, sessionKeyPrefix+deviceID)
		if err := exists.Err(); err != nil {
			log.Errorf("redis store: scan and clean device %s: %s", deviceID, err)
			continue
		}
		if exists.Val() > 0 {
			continue
		}
		log.Debugf("redis store: removing expired device %s", deviceID)
		if err := s.redisClient.SRem(ctx, devicesSetKey, deviceID).Err(); err != nil {
			log.Errorf("redis store: clean device %s: %s", deviceID, err)
		}
	}
}

// Close is a no-op: the redis client is owned by the caller.
func (s *RedisStore) Close() error {
	return nil
}
