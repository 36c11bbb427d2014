// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	netHTTP "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/templogger/internal/format"
)

func TestRequestMiddlewareLogger(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	root := tc.Configure(Options{Name: "server"})

	app := fiber.New(fiber.Config{})
	require.NotNil(t, app)

	middleware := RequestMiddlewareLogger(root, []string{"/-/healthz"})
	require.NotNil(t, middleware)

	app.Use(middleware)
	app.Get("/foo", func(c *fiber.Ctx) error {
		assert.Equal(t, "server.request", FromContext(c.UserContext()).Name())
		return c.SendString("bar")
	})
	app.Get("/-/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(netHTTP.StatusOK)
	})

	req := httptest.NewRequest(netHTTP.MethodGet, "http://example.com/foo", nil)
	req.Header.Set("User-Agent", "UnitTestAgent/1.0")
	req.Header.Set("X-Request-Id", "request-42")
	req.RemoteAddr = "127.0.0.1:12345"

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "request-42", resp.Header.Get("X-Request-Id"))

	req = httptest.NewRequest(netHTTP.MethodGet, "http://example.com/-/healthz", nil)
	healthResp, err := app.Test(req)
	require.NoError(t, err)
	defer healthResp.Body.Close()

	logs := tc.stdout.String()
	splitted := strings.Split(logs, "\n")
	require.Len(t, splitted, 3)
	require.Empty(t, splitted[2])

	assert.True(t, strings.HasPrefix(splitted[0], "server.request.DEBUG: incoming request {"))
	assert.Contains(t, splitted[0], `"requestId":"request-42"`)
	assert.Contains(t, splitted[0], `"userAgent":{"original":"UnitTestAgent/1.0"}`)
	assert.True(t, strings.HasPrefix(splitted[1], "server.request.INFO: request completed {"))
	assert.Contains(t, splitted[1], `"statusCode":200`)
	assert.Contains(t, splitted[1], `"bytes":3`)
	assert.Contains(t, splitted[1], `"responseTime":`)
}

func TestRequestMiddlewareWithoutParsing(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	root := tc.Configure(Options{Name: "server", ParseLevelPrefix: Bool(false), Level: "INFO"})

	app := fiber.New(fiber.Config{})
	app.Use(RequestMiddlewareLogger(root, nil))

	req := httptest.NewRequest(netHTTP.MethodGet, "http://example.com/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	logs := tc.stdout.String()
	assert.NotContains(t, logs, "incoming request")
	assert.True(t, strings.HasPrefix(logs, "server.request.INFO: request completed {"))
	assert.Contains(t, logs, `"statusCode":404`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRequestMiddlewareWithoutCallSite(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t, WithResolver(format.NewFrameResolver(CallSiteMarkers()...)))
	root := tc.Configure(Options{Name: "server"})
	require.True(t, root.WithLineno())

	app := fiber.New(fiber.Config{})
	app.Use(RequestMiddlewareLogger(root, nil))
	app.Get("/foo", func(c *fiber.Ctx) error {
		return c.SendString("bar")
	})

	req := httptest.NewRequest(netHTTP.MethodGet, "http://example.com/foo", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	splitted := strings.Split(tc.stdout.String(), "\n")
	require.Len(t, splitted, 3)
	assert.True(t, strings.HasPrefix(splitted[0], "server.request.DEBUG: incoming request {"))
	assert.True(t, strings.HasPrefix(splitted[1], "server.request.INFO: request completed {"))
	assert.True(t, root.Child("request").WithLineno(), "the node setting is left untouched")
}
