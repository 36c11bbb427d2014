// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package level holds the fixed severity ranks used by templogger and the static tables
// that map them to names, console verbs, terminal colors and page alert styles.
//
// Ranks are totally ordered and never change at runtime:
//
//	DEBUG(0) < INFO(1) < WARNING(2) < ERROR(3) < CRITICAL(4) < ALWAYS(10)
//
// ALWAYS is reserved for messages without a resolvable level and clears every threshold.
package level
