// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"runtime"
)

// Environment selects which optional sinks are relevant: the file sink only exists in the
// backend, the page panel only in the frontend.
type Environment int

const (
	EnvUnknown Environment = iota
	EnvBackend
	EnvFrontend
)

func (e Environment) String() string {
	switch e {
	case EnvBackend:
		return "backend"
	case EnvFrontend:
		return "frontend"
	default:
		return "unknown"
	}
}

// DetectEnvironment returns EnvFrontend when running as a browser module, EnvBackend otherwise.
func DetectEnvironment() Environment {
	return environmentFor(runtime.GOOS)
}

func environmentFor(goos string) Environment {
	if goos == "js" {
		return EnvFrontend
	}
	return EnvBackend
}
