// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"github.com/mia-platform/templogger/internal/format"
	"github.com/mia-platform/templogger/internal/level"
)

// Options configures a root or sub-root node. Empty levels and nil flags take their default.
type Options struct {
	Name string

	// Level is the terminal threshold, DEBUG when empty.
	Level string
	// LevelFile is the file threshold, the terminal threshold when empty.
	LevelFile string
	// LevelGUI is the page threshold, INFO when empty.
	LevelGUI string

	WithTimestamp       *bool
	WithLineno          *bool
	ParseLevelPrefix    *bool
	WithLevel           *bool
	WithAlwaysLevelName *bool
	WithCLIColors       *bool
	LogToFile           *bool

	// Parent builds a sub-root under an existing node instead of replacing the context root.
	Parent *Node
}

// Bool returns a pointer to v, for use in Options.
func Bool(v bool) *bool {
	return &v
}

// settings are the thresholds and flags held by every node.
type settings struct {
	level     level.Level
	levelFile level.Level
	levelGUI  level.Level

	withTimestamp       bool
	withLineno          bool
	parseLevelPrefix    bool
	withLevel           bool
	withAlwaysLevelName bool
	withCLIColors       bool
	logToFile           bool
}

func (o Options) settings() settings {
	s := settings{
		level:               level.Parse(o.Level),
		levelGUI:            level.INFO,
		withTimestamp:       boolOr(o.WithTimestamp, false),
		withLineno:          boolOr(o.WithLineno, true),
		parseLevelPrefix:    boolOr(o.ParseLevelPrefix, true),
		withLevel:           boolOr(o.WithLevel, true),
		withAlwaysLevelName: boolOr(o.WithAlwaysLevelName, false),
		withCLIColors:       boolOr(o.WithCLIColors, true),
		logToFile:           boolOr(o.LogToFile, true),
	}

	s.levelFile = s.level
	if o.LevelFile != "" {
		s.levelFile = level.Parse(o.LevelFile)
	}
	if o.LevelGUI != "" {
		s.levelGUI = level.Parse(o.LevelGUI)
	}
	return s
}

func (s settings) format(name string) format.Settings {
	return format.Settings{
		Name:                name,
		WithTimestamp:       s.withTimestamp,
		WithLineno:          s.withLineno,
		ParseLevelPrefix:    s.parseLevelPrefix,
		WithLevel:           s.withLevel,
		WithAlwaysLevelName: s.withAlwaysLevelName,
	}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
