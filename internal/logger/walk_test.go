// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkOrder(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	root := tc.Configure(Options{Name: "r"})
	b := root.Child("b")
	a := root.Child("a")
	b.Child("b2")
	b.Child("b1")
	a.Child("a1").Child("deep")

	visited := make([]string, 0)
	walk(root, func(n *Node) {
		visited = append(visited, n.name)
	})
	assert.Equal(t, []string{"r", "r.b", "r.b.b2", "r.b.b1", "r.a", "r.a.a1", "r.a.a1.deep"}, visited)

	visited = visited[:0]
	descendants(b, func(n *Node) {
		visited = append(visited, n.localName)
	})
	assert.Equal(t, []string{"b2", "b1"}, visited)
}

func TestWalkLeaf(t *testing.T) {
	t.Parallel()

	tc := newTestContext(t)
	leaf := tc.Root().Child("leaf")

	count := 0
	walk(leaf, func(*Node) { count++ })
	assert.Equal(t, 1, count)

	descendants(leaf, func(*Node) { count++ })
	assert.Equal(t, 1, count)
}
