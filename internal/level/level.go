// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package level

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Level is a severity rank; higher values are more severe.
type Level int

const (
	DEBUG    Level = 0
	INFO     Level = 1
	WARNING  Level = 2
	ERROR    Level = 3
	CRITICAL Level = 4
	// ALWAYS marks messages with no resolvable level.
	ALWAYS Level = 10
)

var (
	// ErrUnknownLevelName is returned by RankOf for names missing from the registry.
	ErrUnknownLevelName = errors.New("unknown level name")
)

var (
	nameToLevel = map[string]Level{
		"DEBUG":    DEBUG,
		"INFO":     INFO,
		"WARNING":  WARNING,
		"WARN":     WARNING,
		"ERROR":    ERROR,
		"ERR":      ERROR,
		"CRITICAL": CRITICAL,
		"ALWAYS":   ALWAYS,
	}

	levelToName = map[Level]string{
		DEBUG:    "DEBUG",
		INFO:     "INFO",
		WARNING:  "WARNING",
		ERROR:    "ERROR",
		CRITICAL: "CRITICAL",
		ALWAYS:   "ALWAYS",
	}

	levelToMethod = map[Level]Method{
		DEBUG:    MethodLog,
		INFO:     MethodInfo,
		WARNING:  MethodWarn,
		ERROR:    MethodError,
		CRITICAL: MethodError,
		ALWAYS:   MethodLog,
	}

	levelToColor = map[Level][]color.Attribute{
		DEBUG:    nil,
		INFO:     {color.FgGreen},
		WARNING:  {color.FgYellow},
		ERROR:    {color.FgRed},
		CRITICAL: {color.FgMagenta},
		ALWAYS:   {color.ReverseVideo},
	}

	levelToAlertStyle = map[Level]string{
		DEBUG:    "light",
		INFO:     "info",
		WARNING:  "warning",
		ERROR:    "danger",
		CRITICAL: "danger",
		ALWAYS:   "secondary",
	}
)

// All returns every known level in ascending order.
func All() []Level {
	return []Level{DEBUG, INFO, WARNING, ERROR, CRITICAL, ALWAYS}
}

// Names returns every accepted level spelling, aliases included.
func Names() []string {
	return []string{"DEBUG", "INFO", "WARNING", "WARN", "ERROR", "ERR", "CRITICAL", "ALWAYS"}
}

// RankOf resolves a case-insensitive level name or alias.
func RankOf(name string) (Level, error) {
	if l, ok := nameToLevel[strings.ToUpper(name)]; ok {
		return l, nil
	}
	return DEBUG, fmt.Errorf("%w: %q", ErrUnknownLevelName, name)
}

// NameOf returns the canonical uppercase name of l.
func NameOf(l Level) string {
	return l.String()
}

// Parse converts a level name, alias or numeric rank to a Level.
// Anything unrecognized falls back to DEBUG.
func Parse(s string) Level {
	s = strings.TrimSpace(s)
	if l, err := RankOf(s); err == nil {
		return l
	}
	if i, err := strconv.Atoi(s); err == nil && Level(i).Valid() {
		return Level(i)
	}
	return DEBUG
}

// Valid reports whether l is one of the fixed ranks.
func (l Level) Valid() bool {
	_, ok := levelToName[l]
	return ok
}

func (l Level) String() string {
	if name, ok := levelToName[l]; ok {
		return name
	}
	return "Level(" + strconv.FormatInt(int64(l), 10) + ")"
}

// Method returns the console verb used to display messages of this level.
func (l Level) Method() Method {
	if m, ok := levelToMethod[l]; ok {
		return m
	}
	return MethodLog
}

// Color returns the terminal color attributes for the level. DEBUG is plain.
func (l Level) Color() []color.Attribute {
	return levelToColor[l]
}

// AlertStyle returns the page alert style suffix, e.g. "danger" for alert-danger.
func (l Level) AlertStyle() string {
	if style, ok := levelToAlertStyle[l]; ok {
		return style
	}
	return levelToAlertStyle[ALWAYS]
}

// Admits reports whether a message at level msg clears the threshold l.
func (l Level) Admits(msg Level) bool {
	return msg >= l
}
