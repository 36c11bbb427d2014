// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package format turns a raw console message into a leveled, decorated line.
//
// Level resolution follows a fixed priority: a leading level token (when token parsing is
// enabled) wins over the console verb; a message without a recognized token is ALWAYS.
// Metadata is rendered in the order name, call-site line, level label, joined by dots and
// optionally preceded by an ISO-8601 timestamp.
//
// Call-site lines are best-effort: they come from a CallSiteResolver that inspects the
// goroutine stack and may be wrong or absent if the surrounding call chain changes shape.
package format
