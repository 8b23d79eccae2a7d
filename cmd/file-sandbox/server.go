package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/panelhub/file_sdk_go/internal/envelope"
	"github.com/panelhub/file_sdk_go/pkg/file"
	"github.com/panelhub/file_sdk_go/pkg/file/mock"
	"github.com/panelhub/file_sdk_go/pkg/request"
)

type failConfig struct {
	rate float64
	code int
}

type serverConfig struct {
	prefix  string
	token   string
	latency time.Duration
	fail    failConfig
}

var routes = []string{
	file.PathGetList,
	file.PathDeletes,
	file.PathRename,
	file.PathRefresh,
}

func newApp(store *mock.Mock, cfg serverConfig, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(accessLog(logger))
	app.Use(injectFaults(cfg.latency, cfg.fail))
	if cfg.token != "" {
		app.Use(requireToken(cfg.token))
	}

	var router fiber.Router = app
	if prefix := strings.TrimRight(cfg.prefix, "/"); prefix != "" {
		router = app.Group(prefix)
	}
	for _, path := range routes {
		path := path
		router.Post(path, func(c *fiber.Ctx) error {
			reply, _ := store.Handle(c.UserContext(), path, c.Body())
			return c.JSON(reply)
		})
	}
	return app
}

func accessLog(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("took", time.Since(start)),
		)
		return err
	}
}

func injectFaults(delay time.Duration, failCfg failConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := wait(c.UserContext(), c.Context().Done(), delay); err != nil {
			return c.Status(http.StatusServiceUnavailable).SendString("request cancelled")
		}
		if failCfg.rate > 0 && rand.Float64() < failCfg.rate {
			status := failCfg.code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			return c.Status(status).SendString("failure injected")
		}
		return c.Next()
	}
}

// wait sleeps for d unless ctx is cancelled or stop is closed first.
func wait(ctx context.Context, stop <-chan struct{}, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-stop:
		return context.Canceled
	}
}

func requireToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(request.TokenHeader) != token {
			return c.Status(http.StatusUnauthorized).JSON(envelope.Fail(envelope.CodeError, "token is invalid"))
		}
		return c.Next()
	}
}

func parseFailConfig(raw string) (failConfig, error) {
	if strings.TrimSpace(raw) == "" {
		return failConfig{}, nil
	}
	cfg := failConfig{code: http.StatusInternalServerError}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		keyVal := strings.SplitN(part, "=", 2)
		if len(keyVal) != 2 {
			return failConfig{}, fmt.Errorf("invalid fail segment %q", part)
		}
		switch strings.TrimSpace(keyVal[0]) {
		case "rate":
			val, err := strconv.ParseFloat(strings.TrimSpace(keyVal[1]), 64)
			if err != nil {
				return failConfig{}, err
			}
			if val < 0 || val > 1 {
				return failConfig{}, fmt.Errorf("fail rate %v out of range [0,1]", val)
			}
			cfg.rate = val
		case "code":
			val, err := strconv.Atoi(strings.TrimSpace(keyVal[1]))
			if err != nil {
				return failConfig{}, err
			}
			cfg.code = val
		default:
			return failConfig{}, fmt.Errorf("unknown fail key %q", keyVal[0])
		}
	}
	return cfg, nil
}
