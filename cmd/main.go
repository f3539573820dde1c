package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	api_middleware "github.com/thesrcielos/LernCasino/api/middleware"
	v1 "github.com/thesrcielos/LernCasino/api/v1"
	"github.com/thesrcielos/LernCasino/internal/apperrors"
	"github.com/thesrcielos/LernCasino/internal/config"
	"github.com/thesrcielos/LernCasino/internal/leaderboard"
	"github.com/thesrcielos/LernCasino/internal/logger"
	"github.com/thesrcielos/LernCasino/internal/question"
	"github.com/thesrcielos/LernCasino/internal/user"
	"github.com/thesrcielos/LernCasino/pkg/db"
	"github.com/thesrcielos/LernCasino/websocket"
	"github.com/thesrcielos/LernCasino/websocket/transport"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Production())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	if err := user.Migrate(conn); err != nil {
		return err
	}
	if err := question.Migrate(conn); err != nil {
		return err
	}
	seeded, err := question.Seed(ctx, conn, question.DefaultSeed)
	if err != nil {
		return err
	}
	if seeded > 0 {
		zl.Info("seeded questions", zap.Int("count", seeded))
	}

	rdb, err := db.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	hub := transport.NewHub(zl)
	var (
		cache     leaderboard.Cache
		publisher leaderboard.Publisher = hub
	)
	if rdb != nil {
		defer rdb.Close()
		cache = leaderboard.NewRedisCache(rdb, cfg.Leaderboard.CacheTTL)
		publisher = leaderboard.NewRedisPublisher(rdb)
		if err := leaderboard.Relay(ctx, rdb, hub, zl); err != nil {
			return err
		}
	} else {
		zl.Info("redis not configured, leaderboard cache disabled")
	}

	tokens := user.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userService := user.NewUserService(user.NewUserRepository(conn), tokens)
	questionService := question.NewQuestionService(question.NewQuestionRepository(conn))
	leaderboardService := leaderboard.NewLeaderboardService(leaderboard.NewLeaderboardRepository(conn), cache, publisher, zl)
	userService.OnBoardChange(leaderboardService)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(zl)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(zl))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	api := e.Group("/api")
	userHandler := v1.NewUserHandler(userService)
	userHandler.RegisterAuthRoutes(api.Group("/auth"))
	v1.NewLeaderboardHandler(leaderboardService).RegisterLeaderboardRoutes(api)
	websocket.NewLiveHandler(tokens, hub, leaderboardService, zl).RegisterLiveRoutes(api)

	private := api.Group("", api_middleware.SetupJWTMiddleware(tokens))
	userHandler.RegisterProfileRoutes(private)
	v1.NewQuestionHandler(questionService).RegisterQuestionRoutes(private)

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func requestLogger(zl *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			zl.Info("request", fields...)
			return nil
		},
	})
}
