// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package console

import (
	"bytes"
	"io"
	"log"
	"sync"

	"github.com/mia-platform/templogger/internal/level"
	"github.com/mia-platform/templogger/internal/logger"
)

var (
	lock           sync.RWMutex
	defaultContext *logger.Context
)

// SetDefault registers ctx as the process-wide default router.
func SetDefault(ctx *logger.Context) {
	lock.Lock()
	defer lock.Unlock()
	defaultContext = ctx
}

// Default returns the process-wide context, creating one with the default options on first use.
func Default() *logger.Context {
	lock.RLock()
	ctx := defaultContext
	lock.RUnlock()
	if ctx != nil {
		return ctx
	}

	lock.Lock()
	defer lock.Unlock()
	if defaultContext == nil {
		defaultContext = logger.NewContext()
	}
	return defaultContext
}

// Close flushes and closes the sinks of the default context, if one has been created.
func Close() error {
	lock.RLock()
	ctx := defaultContext
	lock.RUnlock()
	if ctx == nil {
		return nil
	}
	return ctx.Close()
}

// Configure reconfigures the root of the default context and installs it.
func Configure(opts logger.Options) *logger.Node {
	return Default().Configure(opts)
}

// Root returns the root of the default context.
func Root() *logger.Node {
	return Default().Root()
}

// Child returns a child of the default root.
func Child(name string) *logger.Node {
	return Default().Root().Child(name)
}

func Log(v any)   { Default().Log(v) }
func Info(v any)  { Default().Info(v) }
func Warn(v any)  { Default().Warn(v) }
func Error(v any) { Default().Error(v) }

// Writer returns a writer emitting every written line through the installed node of the default
// context. Empty lines are dropped and a trailing partial line is emitted as is.
func Writer(method level.Method) io.Writer {
	return &lineWriter{method: method}
}

// RedirectStdlog sends the output of the standard library log package to the default context.
func RedirectStdlog() {
	log.SetFlags(0)
	log.SetPrefix("")
	log.SetOutput(Writer(level.MethodLog))
}

type lineWriter struct {
	method level.Method
}

func (w *lineWriter) Write(p []byte) (int, error) {
	node := Default().Active()
	for _, line := range bytes.Split(p, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		if len(line) == 0 {
			continue
		}
		node.Emit(string(line), w.method)
	}
	return len(p), nil
}
