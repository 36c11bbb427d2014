// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-multierror"

	"github.com/mia-platform/templogger/internal/info"
	"github.com/mia-platform/templogger/internal/level"
	"github.com/mia-platform/templogger/internal/logger"
)

const (
	loggerName = "server"

	consolePathPrefix = "/console/"
	panelsPath        = "/panels"
)

type Server interface {
	AddRoute(method string, path string, handler func(ctx context.Context, headers http.Header, body []byte) error)
	Start() error
	Stop() error
	StartAsync(ctx context.Context)
}

type impServer struct {
	config

	app  *fiber.App
	page *logger.Context
}

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// NewServer returns the page server. Its own requests are logged through the node found in ctx,
// while the messages posted to the console endpoints go to a frontend logging context configured
// with pageOptions, whose page panel is rendered by the index route.
func NewServer(ctx context.Context, pageOptions logger.Options, contextOptions ...logger.ContextOption) (Server, error) {
	cfg, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	contextOptions = append([]logger.ContextOption{
		logger.WithEnvironment(logger.EnvFrontend),
		logger.WithFadeDuration(cfg.FadeDuration),
	}, contextOptions...)
	page := logger.NewContext(contextOptions...)
	pageOptions.Parent = nil
	page.Configure(pageOptions)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.DisableStartupMessage,
		Immutable:             true, // ensure that accessing request body returns a copy that is valid after the request lifecycle (accessing body and headers in goroutines in the request handlers)
	})
	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(log, []string{"/-/"}))

	statusRoutes(app, info.AppName, info.Version, page)
	pageRoutes(app, page)

	srv := &impServer{
		app:    app,
		config: *cfg,
		page:   page,
	}
	for _, method := range level.Methods() {
		srv.AddRoute(http.MethodPost, consolePathPrefix+string(method), consoleHandler(page, method))
	}
	return srv, nil
}

func consoleHandler(page *logger.Context, method level.Method) func(context.Context, http.Header, []byte) error {
	return func(_ context.Context, _ http.Header, body []byte) error {
		if len(body) == 0 {
			return fiber.NewError(http.StatusBadRequest, "empty message")
		}
		page.Active().Emit(string(body), method)
		return nil
	}
}

func (s *impServer) AddRoute(method string, path string, handler func(ctx context.Context, headers http.Header, body []byte) error) {
	s.app.Add(method, path, func(ctx *fiber.Ctx) error {
		if err := handler(ctx.UserContext(), ctx.GetReqHeaders(), ctx.Body()); err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return ctx.Status(fiberErr.Code).JSON(fiber.Map{
					"statusCode": fiberErr.Code,
					"error":      http.StatusText(fiberErr.Code),
					"message":    fiberErr.Message,
				})
			}
			return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"statusCode": http.StatusInternalServerError,
				"error":      http.StatusText(http.StatusInternalServerError),
				"message":    "error processing console message",
			})
		}
		return ctx.SendStatus(http.StatusNoContent)
	})
}

func (s *impServer) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *impServer) Stop() error {
	var result *multierror.Error
	if err := s.app.Shutdown(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%w: %w", ErrServerShutdown, err))
	}
	if err := s.page.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (s *impServer) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).Child(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err)
		}
	}()
}
