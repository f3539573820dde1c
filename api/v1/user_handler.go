package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thesrcielos/LernCasino/api/middleware"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/internal/user"
)

const INVALID_REQUEST = "invalid request"

type UserHandler struct {
	users *user.UserService
}

func NewUserHandler(users *user.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
}

// RegisterProfileRoutes expects g to be guarded by the JWT middleware.
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/me", h.Me)
	g.PUT("/me", h.UpdateMe)
	g.POST("/progress", h.UpdateProgress)
}

func (h *UserHandler) Register(c echo.Context) error {
	var creds user.Credentials
	if err := c.Bind(&creds); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	res, err := h.users.Register(c.Request().Context(), creds)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Login(c echo.Context) error {
	var creds user.Credentials
	if err := c.Bind(&creds); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	res, err := h.users.Login(c.Request().Context(), creds)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHandler) Me(c echo.Context) error {
	claims, err := middleware.ClaimsFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.users.Me(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	claims, err := middleware.ClaimsFrom(c)
	if err != nil {
		return err
	}
	var update user.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	profile, err := h.users.UpdateMe(c.Request().Context(), claims.UserID, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProgress(c echo.Context) error {
	claims, err := middleware.ClaimsFrom(c)
	if err != nil {
		return err
	}
	var update user.ProgressUpdate
	if err := c.Bind(&update); err != nil {
		return apperrors.BadRequest(INVALID_REQUEST)
	}
	if err := h.users.UpdateProgress(c.Request().Context(), claims.UserID, update); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
