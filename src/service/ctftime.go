package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ctfpad/backend/src/domain"
	"github.com/ctfpad/backend/src/repository"
	"github.com/rs/zerolog"
)

const (
	CtftimeAPIEventsURL = "https://ctftime.org/api/v1/events/"

	// CTFTime rejects requests with non-browser user agents.
	ctftimeUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:12.0) Gecko/20100101 Firefox/12.0"
)

// CtftimeService fetches upcoming competitions from the CTFTime calendar
// API. All failures collapse into an empty list: callers cannot tell "none
// upcoming" from "fetch failed", and that is the documented contract.
type CtftimeService struct {
	apiURL string
	client *http.Client
	cache  *repository.EventCacheRepository
}

// NewCtftimeService builds the client. cache may be nil, in which case every
// call goes to the remote API.
func NewCtftimeService(apiURL string, cache *repository.EventCacheRepository) *CtftimeService {
	return &CtftimeService{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
		cache:  cache,
	}
}

func (s *CtftimeService) logger(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx).With().Str("component", "ctftime-service").Logger()
	return &l
}

// FetchUpcoming returns the upcoming CTFTime events, served from the Redis
// cache when warm. The result is never nil.
func (s *CtftimeService) FetchUpcoming(ctx context.Context) []domain.CtftimeEvent {
	if s.cache != nil {
		if events, err := s.cache.GetUpcomingEvents(ctx); err == nil {
			return events
		}
	}

	events, err := s.fetch(ctx)
	if err != nil {
		s.logger(ctx).Warn().Err(err).Msg("ctftime fetch failed, returning empty event list")
		return []domain.CtftimeEvent{}
	}

	if s.cache != nil {
		if err := s.cache.SetUpcomingEvents(ctx, events); err != nil {
			s.logger(ctx).Warn().Err(err).Msg("failed to cache ctftime events")
		}
	}

	return events
}

func (s *CtftimeService) fetch(ctx context.Context) ([]domain.CtftimeEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", ctftimeUserAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ctftime returned HTTP %d (expected %d)", res.StatusCode, http.StatusOK)
	}

	var events []domain.CtftimeEvent
	if err := json.NewDecoder(res.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode ctftime response: %w", err)
	}
	if events == nil {
		events = []domain.CtftimeEvent{}
	}
	return events, nil
}
