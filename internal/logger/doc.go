// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger implements the tree of named logger nodes and the Context owning it.
//
// Each node holds its own thresholds for the terminal, the log file and the page panel, plus the
// formatting flags. Changing a setting on a node overwrites it on every existing descendant.
// A Context routes the console verbs to one installed node and acquires the optional sinks in
// the background. Nodes can also travel inside a context.Context and log HTTP traffic through
// a fiber middleware.
package logger
