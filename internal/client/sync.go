package client

import (
	"context"

	"go.uber.org/zap"
)

// Syncer keeps a logged-in game in step with the server. The server wins on
// login; afterwards every local change is pushed as a full snapshot.
type Syncer struct {
	api      *APIClient
	log      *zap.Logger
	attached *Game
}

func NewSyncer(api *APIClient, log *zap.Logger) *Syncer {
	return &Syncer{api: api, log: log}
}

// Register creates the account, adopts its stats and starts pushing.
func (s *Syncer) Register(ctx context.Context, g *Game, username, password string) error {
	res, err := s.api.Register(ctx, username, password)
	if err != nil {
		return err
	}
	return s.attach(g, res.User)
}

func (s *Syncer) Login(ctx context.Context, g *Game, username, password string) error {
	res, err := s.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.attach(g, res.User)
}

// Pull replaces the local stats with the server's.
func (s *Syncer) Pull(ctx context.Context, g *Game) error {
	u, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	return g.Adopt(u.Profile())
}

// Push sends p; failures are logged and superseded by the next snapshot.
func (s *Syncer) Push(ctx context.Context, p Profile) {
	if err := s.api.PushProgress(ctx, SnapshotOf(p)); err != nil {
		s.log.Warn("progress sync failed", zap.Error(err))
	}
}

func (s *Syncer) attach(g *Game, u RemoteUser) error {
	if err := g.Adopt(u.Profile()); err != nil {
		return err
	}
	if s.attached != g {
		g.OnChange(func(p Profile) {
			s.Push(context.Background(), p)
		})
		s.attached = g
	}
	return nil
}
