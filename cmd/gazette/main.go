package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/gazette-news/gazette/internal/announcements"
	"github.com/gazette-news/gazette/internal/app"
	"github.com/gazette-news/gazette/internal/articles"
	"github.com/gazette-news/gazette/internal/auth"
	"github.com/gazette-news/gazette/internal/comments"
	"github.com/gazette-news/gazette/internal/observability"
	"github.com/gazette-news/gazette/internal/platform/cache"
	"github.com/gazette-news/gazette/internal/platform/db"
	"github.com/gazette-news/gazette/internal/principal"
	"github.com/gazette-news/gazette/internal/shared"
	"github.com/gazette-news/gazette/internal/token"
	"github.com/gazette-news/gazette/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "gazette_session", cfg.SessionTTL, cfg.IsProduction())

	tokens, err := token.NewService(token.Config{
		Secret:     []byte(cfg.TokenSecret),
		Issuer:     cfg.TokenIssuer,
		AccessTTL:  cfg.TokenAccessTTL,
		RefreshTTL: cfg.TokenRefreshTTL,
	})
	if err != nil {
		logger.Error("init token service", slog.Any("error", err))
		os.Exit(1)
	}

	validate := validator.New()

	usersRepo := users.NewRepository(pool)
	usersService := users.NewService(usersRepo)
	usersHandler := users.NewHandler(logger, usersService)

	sessionLog := auth.NewSessionLog(pool)
	authService := auth.NewService(usersRepo)
	authHandler := auth.NewHandler(logger, authService, tokens, sessionManager, sessionLog, cfg.IsProduction())

	articlesRepo := articles.NewRepository(pool)
	articlesService := articles.NewService(articlesRepo)
	articlesHandler := articles.NewHandler(logger, articlesService, validate)

	commentsRepo := comments.NewRepository(pool)
	commentsService := comments.NewService(commentsRepo)
	commentsHandler := comments.NewHandler(logger, commentsService)

	announcementsRepo := announcements.NewRepository(pool)
	announcementsService := announcements.NewService(announcementsRepo)
	announcementsHandler := announcements.NewHandler(logger, announcementsService)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:               logger,
		Config:               cfg,
		SessionManager:       sessionManager,
		BearerResolver:       &principal.BearerResolver{Tokens: tokens, Logger: logger},
		SessionResolver:      &principal.SessionResolver{Users: users.PrincipalDirectory{Repo: usersRepo}, Logger: logger},
		AuthHandler:          authHandler,
		UsersHandler:         usersHandler,
		ArticlesHandler:      articlesHandler,
		CommentsHandler:      commentsHandler,
		AnnouncementsHandler: announcementsHandler,
		Metrics:              metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
