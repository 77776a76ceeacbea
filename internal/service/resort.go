package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkordes/ski-weather/internal/domain"
	"github.com/pkordes/ski-weather/internal/repo"
)

const (
	// MinQueryLength is the shortest trimmed query sent upstream.
	MinQueryLength = 2
	// MaxResults caps every resort list returned to clients.
	MaxResults = 20
)

// Geocoder resolves a free-text place name to candidate resorts.
type Geocoder interface {
	Search(ctx context.Context, name string, count int) ([]domain.Resort, error)
}

// regionHint appends region to queries containing fragment, for resort names
// the geocoder otherwise resolves to the wrong place.
type regionHint struct {
	fragment string
	region   string
}

var regionHints = []regionHint{
	{fragment: "sunday river", region: "Maine"},
	{fragment: "newry", region: "Maine"},
}

// Disambiguate returns q with a region appended when q names a known
// ambiguous resort and does not already mention that region.
// "Sunday River" → "Sunday River Maine"; "Vail" is unchanged.
func Disambiguate(q string) string {
	lower := strings.ToLower(q)
	for _, h := range regionHints {
		if strings.Contains(lower, h.fragment) && !strings.Contains(lower, strings.ToLower(h.region)) {
			return q + " " + h.region
		}
	}
	return q
}

// ResortService searches resorts through the geocoder and keeps a
// write-through cache of every resort it has returned.
type ResortService struct {
	geocoder Geocoder
	cache    repo.ResortRepo
	logger   *slog.Logger
}

// NewResortService constructs a ResortService. A nil cache disables caching:
// searches still work and SearchCached returns domain.ErrCacheDisabled.
func NewResortService(geocoder Geocoder, cache repo.ResortRepo, logger *slog.Logger) *ResortService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResortService{
		geocoder: geocoder,
		cache:    cache,
		logger:   logger.With("component", "resort-service"),
	}
}

// Search returns up to MaxResults resorts matching query, in upstream
// relevance order. Queries shorter than MinQueryLength return an empty slice
// without calling the geocoder. Any geocoder failure wraps domain.ErrSearchFailed.
func (s *ResortService) Search(ctx context.Context, query string) ([]domain.Resort, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []domain.Resort{}, nil
	}

	upstream := Disambiguate(q)
	found, err := s.geocoder.Search(ctx, upstream, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service.ResortService.Search: %w: %w", domain.ErrSearchFailed, err)
	}

	resorts := make([]domain.Resort, 0, min(len(found), MaxResults))
	for _, r := range found {
		if len(resorts) == MaxResults {
			break
		}
		if err := validate.Struct(r); err != nil {
			s.logger.WarnContext(ctx, "dropping invalid geocoding result",
				"external_id", r.ExternalID, "error", validationError(err))
			continue
		}
		resorts = append(resorts, s.remember(ctx, r))
	}

	s.logger.DebugContext(ctx, "resort search", "query", q, "upstream_query", upstream, "results", len(resorts))
	return resorts, nil
}

// remember writes r to the cache and returns the cached row. Cache failures
// are logged and the upstream record is returned as-is.
func (s *ResortService) remember(ctx context.Context, r domain.Resort) domain.Resort {
	if s.cache == nil {
		return r
	}
	cached, err := s.cache.Create(ctx, r)
	if err != nil {
		s.logger.WarnContext(ctx, "resort cache write failed", "external_id", r.ExternalID, "error", err)
		return r
	}
	return cached
}

// SearchCached returns up to MaxResults cached resorts whose name contains
// query, case-insensitively. Short queries return an empty slice.
func (s *ResortService) SearchCached(ctx context.Context, query string) ([]domain.Resort, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("service.ResortService.SearchCached: %w", domain.ErrCacheDisabled)
	}
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return []domain.Resort{}, nil
	}

	resorts, err := s.cache.SearchByName(ctx, q, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("service.ResortService.SearchCached: %w", err)
	}
	if resorts == nil {
		return []domain.Resort{}, nil
	}
	return resorts, nil
}
