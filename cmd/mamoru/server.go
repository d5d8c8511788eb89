package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kigurumi-social/mamoru/spamdefend"
	"github.com/kigurumi-social/mamoru/spamdefend/engine"
	"github.com/kigurumi-social/mamoru/spamdefend/instancedir"
	"github.com/kigurumi-social/mamoru/spamdefend/profiledir"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"
	"github.com/kigurumi-social/mamoru/timeline"
	"github.com/kigurumi-social/mamoru/util"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	slogecho "github.com/samber/slog-echo"
)

type Server struct {
	logger   *slog.Logger
	echo     *echo.Echo
	engine   *spamdefend.Engine
	timeline *timeline.Service
}

type Config struct {
	Logger           *slog.Logger
	DatabaseURL      string
	RedisURL         string
	BackendAPIHost   string
	BackendRateLimit int
	SetsJSONPath     string
	SpamThreshold    int
	RecentWindow     time.Duration
	SpamEraStart     *time.Time
}

func NewServer(config Config) (*Server, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	db, err := util.SetupDatabase(config.DatabaseURL, 40)
	if err != nil {
		return nil, err
	}

	var trusted setstore.SetStore
	var rdb *redis.Client
	if config.RedisURL != "" {
		opt, err := redis.ParseURL(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		// check redis connection
		_, err = rdb.Ping(context.TODO()).Result()
		if err != nil {
			return nil, fmt.Errorf("redis ping failed: %v", err)
		}

		rss, err := setstore.NewRedisSetStore(config.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis setstore: %v", err)
		}
		trusted = rss
	} else {
		sets := setstore.NewMemSetStore()
		if config.SetsJSONPath != "" {
			if err := sets.LoadFromFileJSON(config.SetsJSONPath); err != nil {
				return nil, fmt.Errorf("initializing in-process setstore: %v", err)
			}
			logger.Info("loaded set config from JSON", "path", config.SetsJSONPath)
		}
		trusted = sets
	}

	engineConfig := spamdefend.DefaultEngineConfig()
	if config.SpamThreshold != 0 {
		engineConfig.Threshold = config.SpamThreshold
	}
	if config.RecentWindow != 0 {
		engineConfig.RecentWindow = config.RecentWindow
	}
	if config.SpamEraStart != nil {
		engineConfig.SpamEraStart = *config.SpamEraStart
	}
	if err := engineConfig.Validate(); err != nil {
		return nil, err
	}

	eng := spamdefend.Engine{
		Logger:   logger,
		Profiles: profiledir.NewAPIDirectory(config.BackendAPIHost, config.BackendRateLimit),
		Instances: instancedir.NewCacheDirectory(
			instancedir.NewAPIDirectory(config.BackendAPIHost, config.BackendRateLimit),
			5_000, 30*time.Minute),
		TrustedHosts: trusted,
		Config:       engineConfig,
	}

	tl := timeline.NewService(logger, db, rdb)
	if err := tl.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("migrating timeline read model: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(slogecho.New(logger))
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddleware("mamoru"))

	s := &Server{
		logger:   logger,
		echo:     e,
		engine:   &eng,
		timeline: tl,
	}

	e.GET("/_health", s.HandleHealthCheck)
	e.POST("/api/moderation/evaluate", s.HandleEvaluate)
	e.GET("/api/notes/kigurumi-timeline", s.HandleKigurumiTimeline)

	return s, nil
}

func (s *Server) Run(ctx context.Context, bind string) error {
	s.logger.Info("starting spam-defend daemon", "bind", bind)
	return s.echo.Start(bind)
}

func (s *Server) RunMetrics(listen string) error {
	http.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(listen, nil)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type evaluateRequest struct {
	Actor struct {
		ID   string  `json:"id"`
		Host *string `json:"host"`
	} `json:"actor"`
	Activity struct {
		Type                string  `json:"type"`
		MentionedUsersCount int     `json:"mentionedUsersCount"`
		Text                *string `json:"text"`
		TargetRenoteCount   int64   `json:"targetRenoteCount"`
	} `json:"activity"`
	// the full note, for timeline fan-out of create activities (optional)
	Note *timeline.Note `json:"note,omitempty"`
}

func (s *Server) HandleEvaluate(c echo.Context) error {
	ctx := c.Request().Context()

	var req evaluateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Actor.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "actor id is required")
	}

	var activity spamdefend.Activity
	switch req.Activity.Type {
	case "create":
		activity = spamdefend.CreateActivity{
			MentionedUsersCount: req.Activity.MentionedUsersCount,
			Text:                req.Activity.Text,
		}
	case "like":
		activity = spamdefend.LikeActivity{
			TargetRenoteCount: req.Activity.TargetRenoteCount,
		}
	default:
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown activity type: %s", req.Activity.Type))
	}

	actor := spamdefend.Actor{ID: req.Actor.ID, Host: req.Actor.Host}
	verdict, breakdown, err := s.engine.Evaluate(ctx, actor, activity)
	if err != nil {
		if errors.Is(err, engine.ErrUnsupportedActivityKind) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		s.logger.Error("evaluation failed", "actorID", actor.ID, "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "evaluation failed")
	}

	// clean note creations flow into the hashtag timeline
	if !verdict && req.Activity.Type == "create" && req.Note != nil {
		if err := s.timeline.RecordNote(ctx, req.Note); err != nil {
			s.logger.Error("recording note failed", "noteID", req.Note.ID, "err", err)
		} else if err := s.timeline.PushIfEligible(ctx, req.Note); err != nil {
			s.logger.Error("timeline fan-out failed", "noteID", req.Note.ID, "err", err)
		}
	}

	return c.JSON(http.StatusOK, breakdown)
}

func (s *Server) HandleKigurumiTimeline(c echo.Context) error {
	ctx := c.Request().Context()

	var opts timeline.ListOptions
	opts.UntilID = c.QueryParam("untilId")
	opts.SinceID = c.QueryParam("sinceId")
	if err := echo.QueryParamsBinder(c).Int("limit", &opts.Limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	notes, err := s.timeline.List(ctx, opts)
	if err != nil {
		s.logger.Error("timeline read failed", "err", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "timeline read failed")
	}
	return c.JSON(http.StatusOK, notes)
}

func (s *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
