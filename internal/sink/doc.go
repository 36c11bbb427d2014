// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package sink contains the destinations a formatted message can be dispatched to:
// the terminal (optionally colorized), an append-only log file and the page panel,
// a container of dismissible message panels rendered to HTML.
//
// Optional capabilities are acquired asynchronously through a Provider, which moves from
// Unavailable to Loading and then to Ready, or back to Unavailable when loading fails.
// Callers query a provider without blocking and skip the sink until it is Ready.
package sink
