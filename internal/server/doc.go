// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server contains the page server of the templogger application.
// It sets up the HTTP server using the Fiber framework, logs its own requests through the
// logger node carried by the context, renders the page panel of a frontend logging context
// and exposes one console endpoint per verb feeding that context.
package server
