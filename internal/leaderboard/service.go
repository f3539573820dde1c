package leaderboard

import (
	"context"

	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/websocket/transport"
	"go.uber.org/zap"
)

// LeaderboardService serves the public top list. The SQL store is
// authoritative; cache and publisher are optional.
type LeaderboardService struct {
	repo      LeaderboardRepository
	cache     Cache
	publisher Publisher
	log       *zap.Logger
}

func NewLeaderboardService(repo LeaderboardRepository, cache Cache, publisher Publisher, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func (s *LeaderboardService) Top(ctx context.Context) ([]Entry, error) {
	if s.cache != nil {
		entries, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn("leaderboard cache read failed", zap.Error(err))
		} else if ok {
			return entries, nil
		}
	}

	entries, err := s.repo.Top(ctx, TopLimit)
	if err != nil {
		return nil, apperrors.Internal("error loading leaderboard", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, entries); err != nil {
			s.log.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// BoardChanged drops the cached list and pushes a fresh one to live clients.
func (s *LeaderboardService) BoardChanged(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.log.Warn("leaderboard cache invalidation failed", zap.Error(err))
		}
	}
	if s.publisher == nil {
		return
	}

	entries, err := s.Top(ctx)
	if err != nil {
		s.log.Warn("leaderboard refresh failed", zap.Error(err))
		return
	}
	msg := transport.OutgoingMessage{
		Type:    UpdateMessageType,
		Payload: entries,
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("leaderboard publish failed", zap.Error(err))
	}
}
