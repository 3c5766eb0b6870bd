package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Role selects which collection, screens and session key apply.
type Role string

const (
	RoleRider  Role = "user"
	RoleDriver Role = "driver"
)

// Key returns the per-device session key for the role. The key names
// mirror the client's persisted storage keys.
func (r Role) Key(device string) string {
	if r == RoleDriver {
		return "driverSession:" + device
	}
	return "userSession:" + device
}

// Other returns the opposite role.
func (r Role) Other() Role {
	if r == RoleDriver {
		return RoleRider
	}
	return RoleDriver
}

// Record is the persisted proof of a prior successful login. Driver
// records may carry name and profile image snapshots alongside the email.
type Record struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

var ErrNotFound = errors.New("session not found")

// KV is the minimal key-value surface the store needs. Get returns
// ErrNotFound for an absent key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}

type redisKV struct {
	rdb *redis.Client
}

// NewRedisKV adapts a Redis client to the KV surface. Values are written
// without a TTL: a session lives until it is explicitly torn down.
func NewRedisKV(rdb *redis.Client) KV {
	return redisKV{rdb: rdb}
}

func (r redisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return val, nil
}

func (r redisKV) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r redisKV) Del(ctx context.Context, keys ...string) error {
	return r.rdb.Del(ctx, keys...).Err()
}

// Store keeps one session record per role per device.
type Store struct {
	kv KV
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Establish writes the role's session record and removes the opposite
// role's key for the same device. Enforcing single-active-identity at the
// write site is what keeps a device from holding a rider and a driver
// session at once.
func (s *Store) Establish(ctx context.Context, role Role, device string, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, role.Key(device), string(b)); err != nil {
		return err
	}
	return s.kv.Del(ctx, role.Other().Key(device))
}

// Lookup reads the role's session record. A missing key is not an error.
func (s *Store) Lookup(ctx context.Context, role Role, device string) (Record, bool, error) {
	val, err := s.kv.Get(ctx, role.Key(device))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, false, err
	}
	return rec, true, nil
}

// Remove deletes the role's session key for the device.
func (s *Store) Remove(ctx context.Context, role Role, device string) error {
	return s.kv.Del(ctx, role.Key(device))
}

// Teardown deletes both session keys unconditionally. Logout never
// inspects which role was active.
func (s *Store) Teardown(ctx context.Context, device string) error {
	return s.kv.Del(ctx, RoleRider.Key(device), RoleDriver.Key(device))
}
