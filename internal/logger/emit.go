// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/mia-platform/templogger/internal/format"
	"github.com/mia-platform/templogger/internal/level"
)

// Emit formats raw and dispatches it to every sink whose threshold admits its level.
// hint is the console verb used for the call and only matters when level token parsing is off.
// Emit never panics; sink failures are reported on the base console.
func (n *Node) Emit(raw any, hint level.Method) {
	n.send(func(*settings) (any, level.Method) {
		return raw, hint
	})
}

// emitLevel emits body at l, adding the level token when n parses it. These records are
// written by the library itself, so they carry no call-site line.
func (n *Node) emitLevel(l level.Level, body string) {
	n.send(func(s *settings) (any, level.Method) {
		s.withLineno = false
		if s.parseLevelPrefix {
			return l.String() + " " + body, l.Method()
		}
		return body, l.Method()
	})
}

// send formats outside the context lock, since rendering a message runs its String or Error
// method and that may log too. Only the sink dispatch is serialized.
func (n *Node) send(input func(*settings) (any, level.Method)) {
	c := n.ctx
	s, name := n.snapshot()

	defer func() {
		if r := recover(); r != nil {
			c.diag.Error("log call failed", "logger", name, "panic", r)
		}
	}()

	raw, hint := input(&s)
	msg := c.formatter.Format(raw, hint, s.format(name))
	if err := n.dispatch(msg, s); err != nil {
		c.diag.Warn("log sinks failed", "logger", name, "error", err)
	}
}

func (n *Node) snapshot() (settings, string) {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()
	return n.settings, n.name
}

func (n *Node) Log(v any)   { n.Emit(v, level.MethodLog) }
func (n *Node) Info(v any)  { n.Emit(v, level.MethodInfo) }
func (n *Node) Warn(v any)  { n.Emit(v, level.MethodWarn) }
func (n *Node) Error(v any) { n.Emit(v, level.MethodError) }

func (n *Node) dispatch(msg format.Message, s settings) error {
	c := n.ctx
	c.lock.Lock()
	defer c.lock.Unlock()

	var result *multierror.Error
	if s.level.Admits(msg.Level) {
		text := msg.Text
		if s.withCLIColors {
			if colorizer, ok := c.colorizer.Get(); ok {
				text = colorizer.Colorize(msg.Level, text)
			}
		}
		if err := c.terminal.Write(msg.Level.Method(), text); err != nil {
			result = multierror.Append(result, fmt.Errorf("terminal: %w", err))
		}
	}

	if s.logToFile && s.levelFile.Admits(msg.Level) {
		if file, ok := c.file.Get(); ok {
			if err := file.WriteLine(msg.Text); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}

	if c.env == EnvFrontend && msg.Level != level.ALWAYS && s.levelGUI.Admits(msg.Level) {
		if panel, ok := c.panel.Get(); ok && !panel.Removed() {
			if _, err := panel.Insert(msg.Level, msg.Body); err != nil {
				result = multierror.Append(result, fmt.Errorf("page panel: %w", err))
			}
		}
	}

	return result.ErrorOrNil()
}
