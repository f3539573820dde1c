package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/LernCasino/internal/leaderboard"
)

type LeaderboardHandler struct {
	leaderboard *leaderboard.LeaderboardService
}

func NewLeaderboardHandler(s *leaderboard.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: s}
}

func (h *LeaderboardHandler) RegisterLeaderboardRoutes(g *echo.Group) {
	g.GET("/leaderboard", h.Top)
}

func (h *LeaderboardHandler) Top(c echo.Context) error {
	entries, err := h.leaderboard.Top(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
