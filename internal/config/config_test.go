// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/templogger/internal/logger"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "full.yaml", []byte(`name: test-cli-driver
level: warn
levelFile: info
levelGui: error
withTimestamp: true
withLineno: false
parseLevelPrefix: false
withLevel: true
withAlwaysLevelName: true
withCliColors: false
logToFile: false
`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "partial.json", []byte(`{"name": "svc", "level": "ERROR"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "empty.yaml", []byte(""), 0o644))
	require.NoError(t, afero.WriteFile(fs, "unknown.yaml", []byte("colour: red\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "invalid.yaml", []byte("withLineno: maybe\n"), 0o644))

	testCases := map[string]struct {
		path           string
		expectedConfig *LoggerConfig
		expectedError  error
	}{
		"every field": {
			path: "full.yaml",
			expectedConfig: &LoggerConfig{
				Name:                "test-cli-driver",
				Level:               "warn",
				LevelFile:           "info",
				LevelGUI:            "error",
				WithTimestamp:       boolPtr(true),
				WithLineno:          boolPtr(false),
				ParseLevelPrefix:    boolPtr(false),
				WithLevel:           boolPtr(true),
				WithAlwaysLevelName: boolPtr(true),
				WithCLIColors:       boolPtr(false),
				LogToFile:           boolPtr(false),
			},
		},
		"json is valid yaml": {
			path:           "partial.json",
			expectedConfig: &LoggerConfig{Name: "svc", Level: "ERROR"},
		},
		"empty file keeps defaults": {
			path:           "empty.yaml",
			expectedConfig: &LoggerConfig{},
		},
		"no file": {
			expectedConfig: &LoggerConfig{},
		},
		"unknown fields are rejected": {
			path:          "unknown.yaml",
			expectedError: ErrParsing,
		},
		"wrong types are rejected": {
			path:          "invalid.yaml",
			expectedError: ErrParsing,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			config, err := Load(fs, tc.path)
			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, config)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedConfig, config)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	config, err := Load(afero.NewMemMapFs(), "missing.yaml")
	assert.Error(t, err)
	assert.Nil(t, config)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "config.yaml", []byte("name: from-file\nlevel: info\nwithLineno: true\n"), 0o644))

	t.Setenv("TEMPLOGGER_LEVEL", "critical")
	t.Setenv("TEMPLOGGER_WITH_LINENO", "false")
	t.Setenv("TEMPLOGGER_WITH_TIMESTAMP", "true")

	config, err := Load(fs, "config.yaml")
	require.NoError(t, err)
	assert.Equal(t, &LoggerConfig{
		Name:          "from-file",
		Level:         "critical",
		WithLineno:    boolPtr(false),
		WithTimestamp: boolPtr(true),
	}, config)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	t.Setenv("TEMPLOGGER_LOG_TO_FILE", "sometimes")

	config, err := Load(afero.NewMemMapFs(), "")
	assert.ErrorIs(t, err, ErrParsing)
	assert.Nil(t, config)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	config := LoggerConfig{Name: "svc", Level: "warn", LogToFile: boolPtr(false)}
	assert.Equal(t, logger.Options{
		Name:      "svc",
		Level:     "warn",
		LogToFile: boolPtr(false),
	}, config.Options())
}
