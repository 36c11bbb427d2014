// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/mia-platform/templogger/internal/format"
	"github.com/mia-platform/templogger/internal/info"
	"github.com/mia-platform/templogger/internal/level"
	"github.com/mia-platform/templogger/internal/sink"
)

// Context owns a logger tree: the root, the node receiving the console verbs, the formatter
// and the sinks. Sink dispatch and configuration calls on any node of the tree are serialized
// by the context lock.
type Context struct {
	lock sync.Mutex

	env       Environment
	formatter *format.Formatter
	terminal  *sink.Terminal
	diag      hclog.Logger

	colorizer *sink.Provider[*sink.Colorizer]
	file      *sink.Provider[*sink.File]
	panel     *sink.Provider[*sink.Panel]
	startOnce sync.Once

	root   *Node
	active *Node
}

type contextConfig struct {
	env         Environment
	stdout      io.Writer
	stderr      io.Writer
	diagnostics io.Writer
	fs          afero.Fs
	persist     bool
	logDir      string
	filePrefix  string
	forceColors bool
	fade        time.Duration
	now         func() time.Time
	resolver    format.CallSiteResolver
	colorizer   *sink.Colorizer
	file        *sink.File
	panel       *sink.Panel
}

// ContextOption customizes a Context.
type ContextOption func(*contextConfig)

// WithEnvironment overrides the detected environment.
func WithEnvironment(env Environment) ContextOption {
	return func(c *contextConfig) { c.env = env }
}

// WithOutput replaces the standard streams used by the terminal sink.
func WithOutput(stdout, stderr io.Writer) ContextOption {
	return func(c *contextConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithDiagnostics sends the notices of the library itself to w instead of the base stdout.
func WithDiagnostics(w io.Writer) ContextOption {
	return func(c *contextConfig) { c.diagnostics = w }
}

// WithFs sets the filesystem of the file sink.
func WithFs(fs afero.Fs) ContextOption {
	return func(c *contextConfig) { c.fs = fs }
}

// WithPersistence enables or disables the file sink for the whole context.
func WithPersistence(enabled bool) ContextOption {
	return func(c *contextConfig) { c.persist = enabled }
}

// WithLogDir sets the directory and the name prefix of the log file.
func WithLogDir(dir, prefix string) ContextOption {
	return func(c *contextConfig) {
		c.logDir = dir
		c.filePrefix = prefix
	}
}

// WithForceColors colorizes terminal output even when it is not a terminal.
func WithForceColors(force bool) ContextOption {
	return func(c *contextConfig) { c.forceColors = force }
}

// WithFadeDuration sets how long a dismissed page panel fades before being removed.
func WithFadeDuration(fade time.Duration) ContextOption {
	return func(c *contextConfig) { c.fade = fade }
}

// WithClock sets the clock used for timestamps and the log file name.
func WithClock(now func() time.Time) ContextOption {
	return func(c *contextConfig) { c.now = now }
}

// WithResolver replaces the call-site resolver.
func WithResolver(resolver format.CallSiteResolver) ContextOption {
	return func(c *contextConfig) { c.resolver = resolver }
}

// WithColorizer uses colorizer instead of acquiring one.
func WithColorizer(colorizer *sink.Colorizer) ContextOption {
	return func(c *contextConfig) { c.colorizer = colorizer }
}

// WithFileSink uses file instead of opening a new log file.
func WithFileSink(file *sink.File) ContextOption {
	return func(c *contextConfig) { c.file = file }
}

// WithPanel uses panel as the page panel container.
func WithPanel(panel *sink.Panel) ContextOption {
	return func(c *contextConfig) { c.panel = panel }
}

// NewContext returns a Context with a default root installed as the console target.
// Sinks are acquired in the background the first time a root is configured.
func NewContext(opts ...ContextOption) *Context {
	config := &contextConfig{
		env:        DetectEnvironment(),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		fs:         afero.NewOsFs(),
		persist:    true,
		logDir:     sink.DefaultLogDir,
		filePrefix: sink.DefaultFilePrefix,
		fade:       sink.DefaultFadeDuration,
		now:        time.Now,
		resolver:   format.NewFrameResolver(CallSiteMarkers()...),
	}
	for _, opt := range opts {
		opt(config)
	}

	terminal := sink.NewTerminal(config.stdout, config.stderr)
	diagnostics := config.diagnostics
	if diagnostics == nil {
		diagnostics = terminal.Stdout()
	}

	c := &Context{
		env:       config.env,
		formatter: format.New(format.WithResolver(config.resolver), format.WithClock(config.now)),
		terminal:  terminal,
		diag: hclog.New(&hclog.LoggerOptions{
			Name:   info.AppName,
			Output: sink.Lock(diagnostics),
			TimeFn: config.now,
			Level:  hclog.Info,
		}),
	}
	c.colorizer = c.colorizerProvider(config)
	c.file = c.fileProvider(config)
	c.panel = c.panelProvider(config)

	c.Configure(Options{})
	return c
}

// CallSiteMarkers lists the packages whose frames are skipped when resolving the call site:
// the logger, the console package and the standard library log package.
func CallSiteMarkers() []string {
	base := path.Dir(reflect.TypeOf(Context{}).PkgPath())
	return []string{
		reflect.TypeOf(Context{}).PkgPath(),
		path.Join(base, "console"),
		"log",
	}
}

func (c *Context) colorizerProvider(config *contextConfig) *sink.Provider[*sink.Colorizer] {
	if config.colorizer != nil {
		return sink.ReadyProvider("colorizer", config.colorizer)
	}

	stdout := c.terminal.Stdout()
	return sink.NewProvider("colorizer", func(context.Context) (*sink.Colorizer, error) {
		colorizer, err := sink.LoadColorizer(stdout, config.forceColors)
		if err != nil {
			c.diag.Info("colored terminal logs disabled", "reason", err)
			return nil, err
		}
		return colorizer, nil
	})
}

func (c *Context) fileProvider(config *contextConfig) *sink.Provider[*sink.File] {
	if config.file != nil {
		return sink.ReadyProvider("file", config.file)
	}

	fs := config.fs
	logPath := filepath.Join(config.logDir, sink.FileName(config.filePrefix, config.now()))
	return sink.NewProvider("file", func(context.Context) (*sink.File, error) {
		if !config.persist || fs == nil {
			return nil, errors.New("file logs disabled")
		}
		file, err := sink.OpenFile(fs, logPath)
		if err != nil {
			c.diag.Warn("file logs not available", "error", err)
			return nil, err
		}
		c.diag.Info("initialized log file", "path", file.Path())
		return file, nil
	})
}

func (c *Context) panelProvider(config *contextConfig) *sink.Provider[*sink.Panel] {
	if config.panel != nil {
		return sink.ReadyProvider("page panel", config.panel)
	}

	return sink.NewProvider("page panel", func(context.Context) (*sink.Panel, error) {
		return sink.NewPanel(config.fade), nil
	})
}

func (c *Context) startSinks() {
	c.startOnce.Do(func() {
		ctx := context.Background()
		c.colorizer.Start(ctx)
		switch c.env {
		case EnvBackend:
			c.file.Start(ctx)
		case EnvFrontend:
			c.panel.Start(ctx)
		}
	})
}

// Configure builds a node from opts. Without a parent the node replaces the root: it adopts the
// children of the previous root, pushes its settings and name down to them and becomes the
// console target. With a parent it replaces the parent's child of the same name in the same way,
// inside the context the parent belongs to.
func (c *Context) Configure(opts Options) *Node {
	if opts.Parent != nil && opts.Parent.ctx != c {
		c.diag.Debug("parent belongs to another logging context", "logger", opts.Name)
		return opts.Parent.ctx.Configure(opts)
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	parent := opts.Parent

	var replaced *Node
	if parent == nil {
		replaced = c.root
	} else {
		replaced = parent.children[opts.Name]
	}

	n := newNode(c, parent, opts.settings())
	if replaced != nil {
		n.children = replaced.children
		n.order = replaced.order
		for _, child := range n.children {
			child.parent = n
		}
		replaced.children = make(map[string]*Node)
		replaced.order = nil
	}
	descendants(n, func(d *Node) { d.settings = n.settings })
	n.rename([]string{opts.Name})

	if parent != nil {
		if replaced == nil {
			parent.order = append(parent.order, opts.Name)
		}
		parent.children[opts.Name] = n
		return n
	}

	c.root = n
	c.active = n
	c.startSinks()
	return n
}

// Root returns the current root node.
func (c *Context) Root() *Node {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.root
}

// Install makes n the target of the console verbs. The last install wins.
func (c *Context) Install(n *Node) {
	if n == nil || n.ctx != c {
		return
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.active = n
}

// Active returns the node receiving the console verbs.
func (c *Context) Active() *Node {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.active
}

func (c *Context) Log(v any)   { c.Active().Emit(v, level.MethodLog) }
func (c *Context) Info(v any)  { c.Active().Emit(v, level.MethodInfo) }
func (c *Context) Warn(v any)  { c.Active().Emit(v, level.MethodWarn) }
func (c *Context) Error(v any) { c.Active().Emit(v, level.MethodError) }

// Environment returns the environment selecting the optional sinks.
func (c *Context) Environment() Environment {
	return c.env
}

// Base returns the unpatched terminal writers.
func (c *Context) Base() *sink.Terminal {
	return c.terminal
}

// Diagnostics returns the logger used for notices of the library itself.
func (c *Context) Diagnostics() hclog.Logger {
	return c.diag
}

// Panel returns the page panel container once it is ready.
func (c *Context) Panel() (*sink.Panel, bool) {
	return c.panel.Get()
}

// RemovePanel detaches the page panel. Later messages skip the page and the panel renders
// nothing. It reports whether a panel was removed.
func (c *Context) RemovePanel() bool {
	panel, ok := c.panel.Get()
	if !ok || panel.Removed() {
		return false
	}
	panel.Remove()
	c.diag.Info("page panel removed")
	return true
}

// LogFile returns the path of the log file once it is ready.
func (c *Context) LogFile() (string, bool) {
	file, ok := c.file.Get()
	if !ok {
		return "", false
	}
	return file.Path(), true
}

// Ready waits until every started sink finished loading.
func (c *Context) Ready(ctx context.Context) error {
	for _, wait := range []func(context.Context) error{c.colorizer.Wait, c.file.Wait, c.panel.Wait} {
		if err := wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered file lines.
func (c *Context) Flush() error {
	file, ok := c.file.Get()
	if !ok {
		return nil
	}
	return file.Flush()
}

// Close flushes and closes the log file.
func (c *Context) Close() error {
	file, ok := c.file.Get()
	if !ok {
		return nil
	}
	return file.Close()
}
