package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goodtime-diagnostic/internal/model"
)

// SessionCache mirrors wizard state so sessions survive eviction and restarts
type SessionCache interface {
	Set(ctx context.Context, state *model.WizardState) error
	Get(ctx context.Context, id string) (*model.WizardState, error)
	Delete(ctx context.Context, id string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a new session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(id string) string {
	return fmt.Sprintf("diagnostic:session:%s", id)
}

func (c *sessionCache) Set(ctx context.Context, state *model.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(state.SessionID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.WizardState, error) {
	data, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}
