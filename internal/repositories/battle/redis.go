package battle

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-battle/internal/entities/battle"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-battle/internal/redis"
)

const (
	battleKeyPrefix = "battle:"

	// DefaultTTL is how long an untouched battle is kept
	DefaultTTL = 24 * time.Hour

	errStateNil = "state cannot be nil"
	errIDEmpty  = "battle ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// RedisConfig contains configuration for the Redis battle repository.
type RedisConfig struct {
	Client redisclient.Client
	// TTL defaults to DefaultTTL when zero
	TTL time.Duration
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	if cfg.TTL < 0 {
		return errors.InvalidArgument("ttl cannot be negative")
	}
	return nil
}

// NewRedis creates a new Redis-backed battle repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}, nil
}

func battleKey(id string) string {
	return battleKeyPrefix + id
}

func validateState(state *battle.State) error {
	if state == nil {
		return errors.InvalidArgument(errStateNil)
	}
	if state.ID == "" {
		return errors.InvalidArgument(errIDEmpty)
	}
	return nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if err := validateState(input.State); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle state")
	}

	created, err := r.client.SetNX(ctx, battleKey(input.State.ID), data, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create battle")
	}
	if !created {
		return nil, errors.AlreadyExistsf("battle with ID %s already exists", input.State.ID)
	}

	return &CreateOutput{State: input.State}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	result, err := r.client.Get(ctx, battleKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("battle with ID %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get battle")
	}

	var state battle.State
	if err := json.Unmarshal([]byte(result), &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal battle state")
	}

	return &GetOutput{State: &state}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if err := validateState(input.State); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.State)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal battle state")
	}

	updated, err := r.client.SetXX(ctx, battleKey(input.State.ID), data, r.ttl).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to update battle")
	}
	if !updated {
		return nil, errors.NotFoundf("battle with ID %s not found", input.State.ID)
	}

	return &UpdateOutput{State: input.State}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errIDEmpty)
	}

	removed, err := r.client.Del(ctx, battleKey(input.ID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete battle")
	}
	if removed == 0 {
		return nil, errors.NotFoundf("battle with ID %s not found", input.ID)
	}

	return &DeleteOutput{}, nil
}
