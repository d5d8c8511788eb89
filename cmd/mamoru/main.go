package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "mamoru",
		Usage:   "spam-defend daemon (keeps the timelines clean)",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "backend-api-host",
			Usage:   "base URL of the backend API to resolve profiles and instances from",
			Value:   "http://localhost:3000/api",
			EnvVars: []string{"MAMORU_BACKEND_API_HOST"},
		},
		&cli.IntFlag{
			Name:    "backend-api-rate-limit",
			Usage:   "max number of requests per second to the backend API",
			Value:   20,
			EnvVars: []string{"MAMORU_BACKEND_API_RATE_LIMIT"},
		},
	}

	app.Commands = []*cli.Command{
		runCmd,
	}

	return app.Run(args)
}

var runCmd = &cli.Command{
	Name:  "run",
	Usage: "run the service",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "database-url",
			Value:   "sqlite://data/mamoru/mamoru.db",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection for the shared allow-list and timeline fan-out (optional)",
			EnvVars: []string{"MAMORU_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "IP or address, and port, to listen on for HTTP APIs",
			Value:   ":3987",
			EnvVars: []string{"MAMORU_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs",
			Value:   ":3988",
			EnvVars: []string{"MAMORU_METRICS_LISTEN"},
		},
		&cli.StringFlag{
			Name:    "sets-json-path",
			Usage:   "file path of JSON file containing host sets, eg the trusted-host allow-list",
			EnvVars: []string{"MAMORU_SETS_JSON_PATH"},
		},
		&cli.IntFlag{
			Name:    "spam-threshold",
			Usage:   "total score above which an activity is flagged spam-like",
			Value:   50,
			EnvVars: []string{"MAMORU_SPAM_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "recent-window",
			Usage:   "accounts and instances first observed within this window count as new",
			Value:   4 * 24 * time.Hour,
			EnvVars: []string{"MAMORU_RECENT_WINDOW"},
		},
		&cli.TimestampFlag{
			Name:    "spam-era-start",
			Usage:   "calendar start of the known abuse campaign (YYYY-MM-DD)",
			Layout:  "2006-01-02",
			EnvVars: []string{"MAMORU_SPAM_ERA_START"},
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		// Enable OTLP HTTP exporter
		// For relevant environment variables:
		// https://pkg.go.dev/go.opentelemetry.io/otel/exporters/otlp/otlptrace#readme-environment-variables
		// At a minimum, you need to set
		// OTEL_EXPORTER_OTLP_ENDPOINT=http://localhost:4318
		if ep := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); ep != "" {
			slog.Info("setting up trace exporter", "endpoint", ep)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			exp, err := otlptracehttp.New(ctx)
			if err != nil {
				log.Fatal("failed to create trace exporter", "error", err)
			}
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				if err := exp.Shutdown(ctx); err != nil {
					slog.Error("failed to shutdown trace exporter", "error", err)
				}
			}()

			tp := tracesdk.NewTracerProvider(
				tracesdk.WithBatcher(exp),
				tracesdk.WithResource(resource.NewWithAttributes(
					semconv.SchemaURL,
					semconv.ServiceNameKey.String("mamoru"),
					attribute.String("env", os.Getenv("ENVIRONMENT")),         // DataDog
					attribute.String("environment", os.Getenv("ENVIRONMENT")), // Others
					attribute.Int64("ID", 1),
				)),
			)
			otel.SetTracerProvider(tp)
		}

		srv, err := NewServer(Config{
			Logger:           logger,
			DatabaseURL:      cctx.String("database-url"),
			RedisURL:         cctx.String("redis-url"),
			BackendAPIHost:   cctx.String("backend-api-host"),
			BackendRateLimit: cctx.Int("backend-api-rate-limit"),
			SetsJSONPath:     cctx.String("sets-json-path"),
			SpamThreshold:    cctx.Int("spam-threshold"),
			RecentWindow:     cctx.Duration("recent-window"),
			SpamEraStart:     cctx.Timestamp("spam-era-start"),
		})
		if err != nil {
			return err
		}

		go func() {
			if err := srv.RunMetrics(cctx.String("metrics-listen")); err != nil {
				slog.Error("failed to start metrics endpoint", "error", err)
				panic(fmt.Errorf("failed to start metrics endpoint: %w", err))
			}
		}()

		if err := srv.Run(ctx, cctx.String("bind")); err != nil {
			return fmt.Errorf("failed to run spam-defend service: %w", err)
		}
		return nil
	},
}
