// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

// walk visits n and then every descendant, depth-first, children in creation order.
// fn must not add children to the nodes it visits.
func walk(n *Node, fn func(*Node)) {
	fn(n)
	for _, name := range n.order {
		walk(n.children[name], fn)
	}
}

// descendants visits every node below n, excluding n.
func descendants(n *Node, fn func(*Node)) {
	for _, name := range n.order {
		walk(n.children[name], fn)
	}
}
