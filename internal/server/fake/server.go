// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package fake provides an in-memory Server for the commands that drive the page server.
package fake

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/mia-platform/templogger/internal/server"
)

var _ server.Server = &Server{}

type Route struct {
	Method  string
	Path    string
	Handler func(context.Context, http.Header, []byte) error
}

// Server records its routes and blocks in Start until Stop is called.
type Server struct {
	tb testing.TB

	lock             sync.Mutex
	RegisteredRoutes []Route

	startOnce   sync.Once
	stopOnce    sync.Once
	startedChan chan struct{}
	stoppedChan chan struct{}
}

func NewFakeServer(tb testing.TB) *Server {
	tb.Helper()

	return &Server{
		tb:          tb,
		startedChan: make(chan struct{}),
		stoppedChan: make(chan struct{}),
	}
}

func (s *Server) AddRoute(method string, path string, handler func(ctx context.Context, headers http.Header, body []byte) error) {
	s.tb.Helper()

	s.lock.Lock()
	defer s.lock.Unlock()
	s.RegisteredRoutes = append(s.RegisteredRoutes, Route{
		Method:  method,
		Path:    path,
		Handler: handler,
	})
}

// Handle calls the handler registered for method and path, as the real server would for a request.
func (s *Server) Handle(ctx context.Context, method, path string, headers http.Header, body []byte) (bool, error) {
	s.tb.Helper()

	s.lock.Lock()
	routes := s.RegisteredRoutes
	s.lock.Unlock()
	for _, route := range routes {
		if route.Method == method && route.Path == path {
			return true, route.Handler(ctx, headers, body)
		}
	}
	return false, nil
}

func (s *Server) Start() error {
	s.tb.Helper()
	s.startOnce.Do(func() { close(s.startedChan) })
	<-s.stoppedChan
	return nil
}

func (s *Server) Stop() error {
	s.tb.Helper()
	s.stopOnce.Do(func() { close(s.stoppedChan) })
	return nil
}

func (s *Server) StartAsync(_ context.Context) {
	s.tb.Helper()
	go func() {
		_ = s.Start()
	}()
}

func (s *Server) StartedServer() <-chan struct{} {
	s.tb.Helper()
	return s.startedChan
}

func (s *Server) StoppedServer() <-chan struct{} {
	s.tb.Helper()
	return s.stoppedChan
}
