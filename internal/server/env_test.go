// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEnvironmentVariables(t *testing.T) {
	t.Run("load default environment variables", func(t *testing.T) {
		envVars, err := loadServerConfig()
		require.NoError(t, err)
		require.Equal(t, &config{
			HTTPHost:              "0.0.0.0",
			HTTPPort:              3000,
			DisableStartupMessage: true,
			FadeDuration:          500 * time.Millisecond,
		}, envVars)
	})

	t.Run("load environment variables", func(t *testing.T) {
		t.Setenv("HTTP_HOST", "127.0.0.1")
		t.Setenv("HTTP_PORT", "8080")
		t.Setenv("FADE_DURATION", "1s")
		envVars, err := loadServerConfig()
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1", envVars.HTTPHost)
		require.Equal(t, 8080, envVars.HTTPPort)
		require.Equal(t, time.Second, envVars.FadeDuration)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "655350")
		_, err := loadServerConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})

	t.Run("port is not a number", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "http")
		_, err := loadServerConfig()
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})
}

func TestValidateEnvironmentVariables(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		envVars     *config
		expectError bool
	}{
		"negative port": {
			envVars:     &config{HTTPPort: -1},
			expectError: true,
		},
		"port too big": {
			envVars:     &config{HTTPPort: 655350},
			expectError: true,
		},
		"negative fade": {
			envVars:     &config{HTTPPort: 3000, FadeDuration: -time.Second},
			expectError: true,
		},
		"valid": {
			envVars: &config{HTTPPort: 3000},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := validateEnvironmentVariables(tc.envVars)
			if tc.expectError {
				require.ErrorIs(t, err, ErrEnvVariablesNotValid)
				return
			}
			require.NoError(t, err)
		})
	}
}
