package service

import (
	"context"
	"strconv"

	"github.com/Raajp10/ai-expense-tracker/internal/domain"
	"github.com/Raajp10/ai-expense-tracker/internal/infra/observability"
	"github.com/Raajp10/ai-expense-tracker/internal/port"

	"go.uber.org/zap"
)

// UserService resolves user profiles for the top bar, with a short TTL
// cache in front of the upstream so repeated lookups of the same id
// while the menu is open do not refetch.
type UserService struct {
	users   port.UserFetcher
	cache   port.Cache[*domain.User]
	metrics *observability.Metrics
	logger  *zap.Logger
}

func NewUserService(users port.UserFetcher, cache port.Cache[*domain.User], metrics *observability.Metrics, logger *zap.Logger) *UserService {
	return &UserService{users: users, cache: cache, metrics: metrics, logger: logger}
}

// GetUser returns the profile for id, serving from cache when fresh.
func (s *UserService) GetUser(ctx context.Context, id int) (*domain.User, error) {
	key := "user:" + strconv.Itoa(id)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("user")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("user")

	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		s.metrics.IncrUpstreamError("fetch user")
		s.logger.Warn("user lookup failed", zap.Int("user_id", id), zap.Error(err))
		return nil, err
	}

	s.cache.Set(key, user)
	return user, nil
}
