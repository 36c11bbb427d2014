// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/templogger/internal/format"
	"github.com/mia-platform/templogger/internal/level"
	"github.com/mia-platform/templogger/internal/logger"
	"github.com/mia-platform/templogger/internal/sink"
)

type testServer struct {
	*impServer
	requests *bytes.Buffer
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	requests := new(bytes.Buffer)
	backend := logger.NewContext(
		logger.WithEnvironment(logger.EnvBackend),
		logger.WithOutput(requests, requests),
		logger.WithDiagnostics(io.Discard),
		logger.WithPersistence(false),
		logger.WithResolver(format.NoCallSite{}),
	)
	ctx := logger.WithContext(t.Context(), backend.Configure(logger.Options{Name: "templogger"}))

	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	srv, err := NewServer(ctx, logger.Options{Name: "page"},
		logger.WithOutput(stdout, stderr),
		logger.WithDiagnostics(io.Discard),
		logger.WithResolver(format.NoCallSite{}),
	)
	require.NoError(t, err)
	require.NotNil(t, srv)

	imp, ok := srv.(*impServer)
	require.True(t, ok)
	require.NoError(t, imp.page.Ready(t.Context()))
	require.NoError(t, backend.Ready(t.Context()))

	return &testServer{
		impServer: imp,
		requests:  requests,
		stdout:    stdout,
		stderr:    stderr,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	response, err := s.app.Test(request)
	require.NoError(t, err)
	t.Cleanup(func() { response.Body.Close() })
	return response
}

func TestStatusRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/-/healthz", "/-/ready"} {
		response := srv.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, response.StatusCode)

		var status statusResponse
		require.NoError(t, json.NewDecoder(response.Body).Decode(&status))
		assert.Equal(t, statusResponse{Name: "templogger", Status: "OK", Version: "DEV"}, status)
	}

	require.True(t, srv.page.RemovePanel())
	response := srv.do(t, http.MethodGet, "/-/ready", "")
	assert.Equal(t, http.StatusOK, response.StatusCode, "a removed panel is not a failure")

	assert.Empty(t, srv.requests.String(), "status routes are not logged")
}

func TestConsoleRoutes(t *testing.T) {
	srv := newTestServer(t)

	testCases := map[string]struct {
		path           string
		body           string
		expectedStatus int
	}{
		"message with a level token": {
			path:           "/console/log",
			body:           "warn careful",
			expectedStatus: http.StatusNoContent,
		},
		"message without a level token": {
			path:           "/console/error",
			body:           "plain",
			expectedStatus: http.StatusNoContent,
		},
		"empty message": {
			path:           "/console/info",
			expectedStatus: http.StatusBadRequest,
		},
		"unknown verb": {
			path:           "/console/trace",
			body:           "info hi",
			expectedStatus: http.StatusNotFound,
		},
	}

	for name, tc := range testCases {
		response := srv.do(t, http.MethodPost, tc.path, tc.body)
		assert.Equal(t, tc.expectedStatus, response.StatusCode, name)
	}

	assert.Equal(t, "page.WARNING: careful\n", srv.stderr.String())
	assert.Equal(t, "page: plain\n", srv.stdout.String())

	panel, ok := srv.page.Panel()
	require.True(t, ok)
	elements := panel.Elements()
	require.Len(t, elements, 1)
	assert.Equal(t, level.WARNING, elements[0].Level)
	assert.Equal(t, "careful", elements[0].Body)

	assert.Contains(t, srv.requests.String(), "templogger.request.INFO: request completed")
}

func TestPageRoutes(t *testing.T) {
	t.Setenv("FADE_DURATION", "0s")
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/console/info", "error <script>boom</script>")
	srv.do(t, http.MethodPost, "/console/info", "info hello")

	response := srv.do(t, http.MethodGet, "/panels", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	var elements []sink.Element
	require.NoError(t, json.NewDecoder(response.Body).Decode(&elements))
	require.Len(t, elements, 2)
	assert.Equal(t, "danger", elements[0].Style)
	assert.Equal(t, "hello", elements[1].Body)

	response = srv.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Contains(t, response.Header.Get("Content-Type"), "text/html")
	page, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>page</title>")
	assert.Contains(t, string(page), `class="temp-logger-console fixed-top px-4 text-start"`)
	assert.Contains(t, string(page), "&lt;script&gt;boom&lt;/script&gt;")
	assert.Contains(t, string(page), `action="/panels/`+elements[0].ID+`/dismiss"`)

	response = srv.do(t, http.MethodPost, "/panels/"+elements[0].ID+"/dismiss", "")
	assert.Equal(t, http.StatusSeeOther, response.StatusCode)
	assert.Equal(t, "/", response.Header.Get("Location"))

	panel, ok := srv.page.Panel()
	require.True(t, ok)
	require.Len(t, panel.Elements(), 1)
	assert.Equal(t, elements[1].ID, panel.Elements()[0].ID)

	response = srv.do(t, http.MethodPost, "/panels/"+elements[0].ID+"/dismiss", "")
	assert.Equal(t, http.StatusNotFound, response.StatusCode)
}

func TestRemovePanelRoute(t *testing.T) {
	srv := newTestServer(t)

	srv.do(t, http.MethodPost, "/console/warn", "warn before removal")

	response := srv.do(t, http.MethodDelete, "/panels", "")
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	response = srv.do(t, http.MethodDelete, "/panels", "")
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	response = srv.do(t, http.MethodPost, "/console/error", "error after removal")
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Equal(t, "page.WARNING: before removal\npage.ERROR: after removal\n", srv.stderr.String())

	response = srv.do(t, http.MethodGet, "/panels", "")
	var elements []sink.Element
	require.NoError(t, json.NewDecoder(response.Body).Decode(&elements))
	assert.Empty(t, elements)

	response = srv.do(t, http.MethodGet, "/", "")
	page, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(page), "temp-logger-console")
}

func TestNewServerInvalidEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "0")

	srv, err := NewServer(t.Context(), logger.Options{})
	require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	require.Nil(t, srv)
}

func TestStartServer(t *testing.T) {
	t.Run("starts and stops the server successfully", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "3101")
		t.Setenv("HTTP_HOST", "127.0.0.1")
		srv := newTestServer(t)

		errChan := make(chan error, 1)
		go func() {
			errChan <- srv.Start()
		}()

		require.Eventually(t, func() bool {
			response, err := http.Get("http://127.0.0.1:3101/-/healthz")
			if err != nil {
				return false
			}
			defer response.Body.Close()
			return response.StatusCode == http.StatusOK
		}, 5*time.Second, 50*time.Millisecond)

		require.NoError(t, srv.Stop())
		require.NoError(t, <-errChan)
	})

	t.Run("starts the server asynchronously", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "3102")
		t.Setenv("HTTP_HOST", "127.0.0.1")
		srv := newTestServer(t)

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()
		srv.StartAsync(ctx)

		require.Eventually(t, func() bool {
			response, err := http.Get("http://127.0.0.1:3102/-/ready")
			if err != nil {
				return false
			}
			defer response.Body.Close()
			return response.StatusCode == http.StatusOK
		}, 5*time.Second, 50*time.Millisecond)

		require.NoError(t, srv.Stop())
	})
}
