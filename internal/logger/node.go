// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"strings"

	"github.com/mia-platform/templogger/internal/level"
)

// Node is a named logger in a tree. Every node holds its own copy of the thresholds and flags;
// setters overwrite the copy of the node and of all its current descendants.
type Node struct {
	ctx      *Context
	parent   *Node
	children map[string]*Node
	order    []string

	name      string
	localName string
	settings  settings
}

func newNode(ctx *Context, parent *Node, s settings) *Node {
	return &Node{
		ctx:      ctx,
		parent:   parent,
		children: make(map[string]*Node),
		settings: s,
	}
}

// Child returns the child called name, creating it when missing. A new child copies the
// current thresholds and flags of n.
func (n *Node) Child(name string) *Node {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()

	return n.child(name)
}

func (n *Node) child(name string) *Node {
	if child, ok := n.children[name]; ok {
		return child
	}

	child := newNode(n.ctx, n, n.settings)
	child.rename([]string{name})
	n.children[name] = child
	n.order = append(n.order, name)
	return child
}

// Rename rebuilds the qualified name from a root-to-leaf path. On a node with a parent a
// single segment is the new local name under the parent's name.
func (n *Node) Rename(segments ...string) {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()

	n.rename(segments)
}

func (n *Node) rename(segments []string) {
	if n.parent != nil && len(segments) == 1 {
		segments = []string{n.parent.name, segments[0]}
	}

	n.localName, n.name = "", ""
	if len(segments) > 0 && segments[len(segments)-1] != "" {
		n.localName = segments[len(segments)-1]
		n.name = joinName(segments)
	}

	for _, key := range n.order {
		child := n.children[key]
		child.rename(append(segments[:len(segments):len(segments)], child.localName))
	}
}

func joinName(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	return strings.Join(parts, ".")
}

// Patch makes n the target of the console verbs of its context.
func (n *Node) Patch() {
	n.ctx.Install(n)
}

// Context returns the logging context n belongs to.
func (n *Node) Context() *Context {
	return n.ctx
}

func (n *Node) update(apply func(*settings)) {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()

	walk(n, func(node *Node) {
		apply(&node.settings)
	})
}

func (n *Node) read() settings {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()
	return n.settings
}

// SetLevel sets the terminal threshold. The file threshold is left untouched.
func (n *Node) SetLevel(l level.Level) {
	l = validOrDebug(l)
	n.update(func(s *settings) { s.level = l })
}

// SetLevelName sets the terminal threshold by name, falling back to DEBUG.
func (n *Node) SetLevelName(name string) {
	n.SetLevel(level.Parse(name))
}

// SetLevelFile sets the file threshold.
func (n *Node) SetLevelFile(l level.Level) {
	l = validOrDebug(l)
	n.update(func(s *settings) { s.levelFile = l })
}

// SetLevelFileName sets the file threshold by name, falling back to DEBUG.
func (n *Node) SetLevelFileName(name string) {
	n.SetLevelFile(level.Parse(name))
}

// SetLevelGUI sets the page threshold.
func (n *Node) SetLevelGUI(l level.Level) {
	l = validOrDebug(l)
	n.update(func(s *settings) { s.levelGUI = l })
}

// SetLevelGUIName sets the page threshold by name, falling back to DEBUG.
func (n *Node) SetLevelGUIName(name string) {
	n.SetLevelGUI(level.Parse(name))
}

func (n *Node) SetWithTimestamp(v bool) {
	n.update(func(s *settings) { s.withTimestamp = v })
}

func (n *Node) SetWithLineno(v bool) {
	n.update(func(s *settings) { s.withLineno = v })
}

func (n *Node) SetParseLevelPrefix(v bool) {
	n.update(func(s *settings) { s.parseLevelPrefix = v })
}

func (n *Node) SetWithLevel(v bool) {
	n.update(func(s *settings) { s.withLevel = v })
}

func (n *Node) SetWithAlwaysLevelName(v bool) {
	n.update(func(s *settings) { s.withAlwaysLevelName = v })
}

func (n *Node) SetWithCLIColors(v bool) {
	n.update(func(s *settings) { s.withCLIColors = v })
}

func (n *Node) SetLogToFile(v bool) {
	n.update(func(s *settings) { s.logToFile = v })
}

func (n *Node) Level() level.Level { return n.read().level }

func (n *Node) LevelName() string { return n.Level().String() }

func (n *Node) LevelFile() level.Level { return n.read().levelFile }

func (n *Node) LevelGUI() level.Level { return n.read().levelGUI }

func (n *Node) LevelGUIName() string { return n.LevelGUI().String() }

func (n *Node) WithTimestamp() bool { return n.read().withTimestamp }

func (n *Node) WithLineno() bool { return n.read().withLineno }

func (n *Node) ParseLevelPrefix() bool { return n.read().parseLevelPrefix }

func (n *Node) WithLevel() bool { return n.read().withLevel }

func (n *Node) WithAlwaysLevelName() bool { return n.read().withAlwaysLevelName }

func (n *Node) WithCLIColors() bool { return n.read().withCLIColors }

func (n *Node) LogToFile() bool { return n.read().logToFile }

// Name returns the qualified name.
func (n *Node) Name() string {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()
	return n.name
}

// LocalName returns the last segment of the qualified name.
func (n *Node) LocalName() string {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()
	return n.localName
}

// Parent returns the parent node, nil for a root.
func (n *Node) Parent() *Node {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()
	return n.parent
}

// Children returns the direct children in creation order.
func (n *Node) Children() []*Node {
	n.ctx.lock.Lock()
	defer n.ctx.lock.Unlock()

	children := make([]*Node, 0, len(n.order))
	for _, name := range n.order {
		children = append(children, n.children[name])
	}
	return children
}

func validOrDebug(l level.Level) level.Level {
	if !l.Valid() {
		return level.DEBUG
	}
	return l
}
