// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mia-platform/templogger/internal/level"
)

const (
	// TimestampLayout renders UTC instants the way Date.toISOString does.
	TimestampLayout = "2006-01-02T15:04:05.000Z"

	metadataSeparator = "."
	bodySeparator     = ": "

	// frames between the resolver and the caller of Format
	callSiteSkip = 2
)

// levelToken matches a leading word followed by whitespace or a colon.
var levelToken = regexp.MustCompile(`^(\w+)[\s:]`)

// Settings is the subset of a logger node configuration the formatter reads.
type Settings struct {
	Name                string
	WithTimestamp       bool
	WithLineno          bool
	ParseLevelPrefix    bool
	WithLevel           bool
	WithAlwaysLevelName bool
}

// Message is the result of formatting one console call.
type Message struct {
	// Level is the effective severity.
	Level level.Level
	// Body is the rendered message without metadata and without the level token.
	Body string
	// Text is Body decorated with timestamp and metadata.
	Text string
}

// Formatter computes effective levels and decorated text.
type Formatter struct {
	resolver CallSiteResolver
	now      func() time.Time
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithResolver sets the call-site resolver. Nil disables call-site lines.
func WithResolver(resolver CallSiteResolver) Option {
	return func(f *Formatter) {
		if resolver == nil {
			resolver = NoCallSite{}
		}
		f.resolver = resolver
	}
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// New returns a Formatter. Without options it resolves call sites with a FrameResolver
// that only skips this package.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		resolver: NewFrameResolver(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format resolves the level of raw and decorates it according to s.
// The call-site resolver must be invoked directly from here for its skip count to hold.
func (f *Formatter) Format(raw any, hint level.Method, s Settings) Message {
	timestamp := ""
	if s.WithTimestamp {
		timestamp = f.now().UTC().Format(TimestampLayout)
	}

	metadata := make([]string, 0, 3)
	if s.Name != "" {
		metadata = append(metadata, s.Name)
	}

	if s.WithLineno {
		if line, ok := f.resolver.Line(callSiteSkip); ok {
			metadata = append(metadata, strconv.Itoa(line))
		}
	}

	effective, data := Resolve(raw, hint, s.ParseLevelPrefix)
	if s.WithLevel && (effective != level.ALWAYS || s.WithAlwaysLevelName) {
		metadata = append(metadata, effective.String())
	}

	prefix := strings.Join(metadata, metadataSeparator)
	if timestamp != "" {
		prefix = timestamp + " " + prefix
	}

	body := Render(data)
	text := body
	if prefix != "" {
		text = prefix + bodySeparator + body
	}

	return Message{
		Level: effective,
		Body:  body,
		Text:  text,
	}
}

// Resolve returns the effective level of raw and the message with any level token removed.
//
// With parse enabled only a recognized leading token sets the level; anything else is ALWAYS.
// With parse disabled the console verb decides, and no verb means ALWAYS.
func Resolve(raw any, hint level.Method, parse bool) (level.Level, any) {
	if !parse {
		return hint.Level(), raw
	}

	text, ok := raw.(string)
	if !ok {
		return level.ALWAYS, raw
	}

	match := levelToken.FindStringSubmatch(text)
	if match == nil {
		return level.ALWAYS, raw
	}

	parsed, err := level.RankOf(match[1])
	if err != nil {
		return level.ALWAYS, raw
	}

	return parsed, text[len(match[0]):]
}

// Render converts a message value to text. Structured values are encoded as JSON.
func Render(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case []byte:
		return string(t)
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}
