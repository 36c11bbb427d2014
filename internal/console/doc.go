// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package console holds the process-wide default logging context and the package level
// console verbs routed to its installed node.
//
// Code that cannot be handed a logger can still reach the tree: Writer returns an io.Writer
// emitting one message per line, and RedirectStdlog points the standard library log package at it.
package console
