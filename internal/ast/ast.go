// Package ast defines the tagged-variant node model for Halcyon programs.
// Nodes are plain structs implementing Node; there is no metaprogrammed
// accept/visit generation here — each variant spells out Accept/AcceptChildren
// by hand, which keeps the pre-order/post-order contract obvious at the
// call site instead of hidden behind codegen.
package ast

import "github.com/halcyonlang/halcyon/internal/token"

// Node is the base interface implemented by every AST variant.
type Node interface {
	Pos() token.Position
	Parent() Node
	setParent(Node)
	// Accept implements double dispatch: Visit is called pre-order, then
	// (if it returned true) children are visited, then EndVisit post-order.
	Accept(v Visitor)
	// Clone returns a deep copy with location preserved and parent links
	// rewired to point into the copy, never the original tree.
	Clone() Node
	// Equal is structural equality; it ignores location and parent.
	Equal(other Node) bool
}

// base is embedded by every concrete node and implements the bookkeeping
// fields common to all of them.
type base struct {
	position token.Position
	parent   Node
}

func (b *base) Pos() token.Position { return b.position }
func (b *base) Parent() Node        { return b.parent }
func (b *base) setParent(p Node)    { b.parent = p }

// attach sets child's parent back-link to owner, if child is non-nil.
// The back-link is a weak reference for scope-walking only; the tree's
// ownership edges run strictly top-down through the struct fields.
func attach(owner Node, child Node) {
	if child == nil {
		return
	}
	child.setParent(owner)
}

// ControlKind distinguishes the four control-exit variants, which share
// an identical shape and so are represented as one struct tagged by kind.
type ControlKind int

const (
	KindReturn ControlKind = iota
	KindBreak
	KindNext
	KindYield
)

func (k ControlKind) String() string {
	switch k {
	case KindReturn:
		return "return"
	case KindBreak:
		return "break"
	case KindNext:
		return "next"
	case KindYield:
		return "yield"
	default:
		return "?"
	}
}
