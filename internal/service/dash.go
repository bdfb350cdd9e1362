package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	gocache "github.com/patrickmn/go-cache"

	domainauth "github.com/reallifegames/localauth/internal/domain/auth"
	apperrors "github.com/reallifegames/localauth/internal/errors"
	"github.com/reallifegames/localauth/internal/ports"
)

const dashCacheKey = "dash:endpoints"

// DashServiceOptions groups dependencies for DashService.
type DashServiceOptions struct {
	Repo ports.DashRepository
	// CacheTTL bounds how long the tile list is served from memory. Zero disables caching.
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// DashService serves dashboard tile descriptors.
type DashService struct {
	repo   ports.DashRepository
	cache  *gocache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewDashService constructs a new DashService.
func NewDashService(opts DashServiceOptions) *DashService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashService{repo: opts.Repo, ttl: opts.CacheTTL, logger: logger.With("component", "dash_service")}
	if opts.CacheTTL > 0 {
		s.cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// Endpoints returns the stored tile JSON strings ordered by id.
func (s *DashService) Endpoints(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(dashCacheKey); ok {
			if cached, ok := v.([]string); ok {
				return slices.Clone(cached), nil
			}
		}
	}

	values, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dash tiles: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(dashCacheKey, values, s.ttl)
	}
	return slices.Clone(values), nil
}

// Add validates and stores a new tile, returning its id.
func (s *DashService) Add(ctx context.Context, tile domainauth.Tile) (int, error) {
	if err := tile.Validate(); err != nil {
		return 0, apperrors.Validation(err.Error())
	}
	raw, err := tile.Encode()
	if err != nil {
		return 0, apperrors.Validation(err.Error())
	}

	id, err := s.repo.Add(ctx, raw)
	if err != nil {
		return 0, fmt.Errorf("add dash tile: %w", err)
	}
	if s.cache != nil {
		s.cache.Delete(dashCacheKey)
	}
	s.logger.InfoContext(ctx, "dash tile added", "id", id, "link", tile.Link)
	return id, nil
}
