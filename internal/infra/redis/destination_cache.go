package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kursadbilgin/alert-dispatcher/internal/domain"
	"github.com/kursadbilgin/alert-dispatcher/internal/repository"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	destinationKeyPrefix = "alert-dispatcher:destination:"
	defaultCacheTTL      = time.Minute
)

var _ repository.DestinationRepository = (*CachedDestinationRepo)(nil)

// CachedDestinationRepo is a read-through cache in front of a destination
// repository. Writes go to the wrapped repository first and then evict the
// cached entry. Redis failures are logged and never fail the call.
type CachedDestinationRepo struct {
	next   repository.DestinationRepository
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

type cachedDestination struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	BaseURL      string    `json:"baseUrl,omitempty"`
	Token        string    `json:"token"`
	SecretEnable bool      `json:"secretEnable"`
	SecretToken  string    `json:"secretToken,omitempty"`
	Contacts     string    `json:"contacts,omitempty"`
	IsAtAll      *bool     `json:"isAtAll,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewCachedDestinationRepo(
	next repository.DestinationRepository,
	client *goredis.Client,
	ttl time.Duration,
	logger *zap.Logger,
) (*CachedDestinationRepo, error) {
	if next == nil {
		return nil, fmt.Errorf("destination repository is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedDestinationRepo{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.Named("destination_cache"),
	}, nil
}

func (r *CachedDestinationRepo) Create(ctx context.Context, d *domain.AlertDestination) error {
	return r.next.Create(ctx, d)
}

func (r *CachedDestinationRepo) GetByID(ctx context.Context, id string) (*domain.AlertDestination, error) {
	key := destinationKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var entry cachedDestination
		jsonErr := json.Unmarshal(raw, &entry)
		if jsonErr == nil {
			return entry.toDomain(), nil
		}
		r.logger.Warn("discarding malformed cache entry", zap.String("destinationId", id), zap.Error(jsonErr))
	case !errors.Is(err, goredis.Nil):
		r.logger.Warn("destination cache read failed", zap.String("destinationId", id), zap.Error(err))
	}

	d, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fromDomain(d))
	if err != nil {
		return d, nil
	}
	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn("destination cache write failed", zap.String("destinationId", id), zap.Error(err))
	}

	return d, nil
}

func (r *CachedDestinationRepo) List(ctx context.Context, params repository.ListParams) ([]domain.AlertDestination, int64, error) {
	return r.next.List(ctx, params)
}

func (r *CachedDestinationRepo) Update(ctx context.Context, d *domain.AlertDestination) error {
	if err := r.next.Update(ctx, d); err != nil {
		return err
	}
	r.evict(ctx, d.ID)
	return nil
}

func (r *CachedDestinationRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedDestinationRepo) evict(ctx context.Context, id string) {
	if err := r.client.Del(ctx, destinationKey(id)).Err(); err != nil {
		r.logger.Warn("destination cache eviction failed", zap.String("destinationId", id), zap.Error(err))
	}
}

func destinationKey(id string) string {
	return destinationKeyPrefix + id
}

func fromDomain(d *domain.AlertDestination) cachedDestination {
	return cachedDestination{
		ID:           d.ID,
		Name:         d.Name,
		BaseURL:      d.DingTalk.BaseURL,
		Token:        d.DingTalk.Token,
		SecretEnable: d.DingTalk.SecretEnable,
		SecretToken:  d.DingTalk.SecretToken,
		Contacts:     d.DingTalk.Contacts,
		IsAtAll:      d.DingTalk.IsAtAll,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (c cachedDestination) toDomain() *domain.AlertDestination {
	return &domain.AlertDestination{
		ID:   c.ID,
		Name: c.Name,
		DingTalk: domain.DingTalkParams{
			BaseURL:      c.BaseURL,
			Token:        c.Token,
			SecretEnable: c.SecretEnable,
			SecretToken:  c.SecretToken,
			Contacts:     c.Contacts,
			IsAtAll:      c.IsAtAll,
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
