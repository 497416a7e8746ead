package ast

import "github.com/halcyonlang/halcyon/internal/token"

// Expressions is an ordered sequence of statements/expressions. It is also
// the normalization point for "a node or a block of nodes":
// NewBody wraps bare values, passes an existing *Expressions through, and
// treats nil as empty.
type Expressions struct {
	base
	Children []Node
}

func NewExpressions(pos token.Position, children ...Node) *Expressions {
	e := &Expressions{base: base{position: pos}, Children: children}
	for _, c := range children {
		attach(e, c)
	}
	return e
}

// NewBody normalizes x into an *Expressions: nil becomes empty, an
// existing *Expressions passes through unchanged, anything else becomes a
// one-element sequence.
func NewBody(x Node) *Expressions {
	switch v := x.(type) {
	case nil:
		return NewExpressions(token.Position{})
	case *Expressions:
		return v
	default:
		return NewExpressions(x.Pos(), x)
	}
}

func (e *Expressions) Accept(v Visitor) {
	if v.VisitExpressions(e) {
		for _, c := range e.Children {
			c.Accept(v)
		}
	}
	v.EndVisitExpressions(e)
}

func (e *Expressions) Clone() Node {
	children := make([]Node, len(e.Children))
	for i, c := range e.Children {
		children[i] = c.Clone()
	}
	return NewExpressions(e.position, children...)
}

func (e *Expressions) Equal(other Node) bool {
	o, ok := other.(*Expressions)
	if !ok || len(o.Children) != len(e.Children) {
		return false
	}
	for i := range e.Children {
		if !e.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Tail returns the last child, or nil if the sequence is empty. Used to
// find a method/block's implicit trailing-expression value.
func (e *Expressions) Tail() Node {
	if len(e.Children) == 0 {
		return nil
	}
	return e.Children[len(e.Children)-1]
}

// NilLiteral is the sole value of the Nil type.
type NilLiteral struct{ base }

func NewNilLiteral(pos token.Position) *NilLiteral { return &NilLiteral{base{position: pos}} }
func (n *NilLiteral) Accept(v Visitor) {
	v.VisitNilLiteral(n)
	v.EndVisitNilLiteral(n)
}
func (n *NilLiteral) Clone() Node { return NewNilLiteral(n.position) }
func (n *NilLiteral) Equal(other Node) bool {
	_, ok := other.(*NilLiteral)
	return ok
}

// BoolLiteral is a literal true/false.
type BoolLiteral struct {
	base
	Value bool
}

func NewBoolLiteral(pos token.Position, value bool) *BoolLiteral {
	return &BoolLiteral{base{position: pos}, value}
}
func (n *BoolLiteral) Accept(v Visitor) {
	v.VisitBoolLiteral(n)
	v.EndVisitBoolLiteral(n)
}
func (n *BoolLiteral) Clone() Node { return NewBoolLiteral(n.position, n.Value) }
func (n *BoolLiteral) Equal(other Node) bool {
	o, ok := other.(*BoolLiteral)
	return ok && o.Value == n.Value
}

// IntLiteral is a literal integer.
type IntLiteral struct {
	base
	Value int64
}

func NewIntLiteral(pos token.Position, value int64) *IntLiteral {
	return &IntLiteral{base{position: pos}, value}
}
func (n *IntLiteral) Accept(v Visitor) {
	v.VisitIntLiteral(n)
	v.EndVisitIntLiteral(n)
}
func (n *IntLiteral) Clone() Node { return NewIntLiteral(n.position, n.Value) }
func (n *IntLiteral) Equal(other Node) bool {
	o, ok := other.(*IntLiteral)
	return ok && o.Value == n.Value
}

// FloatLiteral is a literal floating-point number.
type FloatLiteral struct {
	base
	Value float64
}

func NewFloatLiteral(pos token.Position, value float64) *FloatLiteral {
	return &FloatLiteral{base{position: pos}, value}
}
func (n *FloatLiteral) Accept(v Visitor) {
	v.VisitFloatLiteral(n)
	v.EndVisitFloatLiteral(n)
}
func (n *FloatLiteral) Clone() Node { return NewFloatLiteral(n.position, n.Value) }
func (n *FloatLiteral) Equal(other Node) bool {
	o, ok := other.(*FloatLiteral)
	return ok && o.Value == n.Value
}

// CharLiteral is a literal character.
type CharLiteral struct {
	base
	Value rune
}

func NewCharLiteral(pos token.Position, value rune) *CharLiteral {
	return &CharLiteral{base{position: pos}, value}
}
func (n *CharLiteral) Accept(v Visitor) {
	v.VisitCharLiteral(n)
	v.EndVisitCharLiteral(n)
}
func (n *CharLiteral) Clone() Node { return NewCharLiteral(n.position, n.Value) }
func (n *CharLiteral) Equal(other Node) bool {
	o, ok := other.(*CharLiteral)
	return ok && o.Value == n.Value
}
