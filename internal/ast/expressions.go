package ast

import (
	"strings"
	"unicode"

	"github.com/halcyonlang/halcyon/internal/token"
)

// Var is a local, instance (@-prefixed), or constant (leading uppercase)
// identifier reference.
type Var struct {
	base
	Name string
}

func NewVar(pos token.Position, name string) *Var { return &Var{base{position: pos}, name} }

// IsInstanceVar reports whether this reference names an instance variable.
func (v *Var) IsInstanceVar() bool { return strings.HasPrefix(v.Name, "@") }

// IsConstant reports whether this reference names a class/module constant.
func (v *Var) IsConstant() bool {
	if v.IsInstanceVar() || v.Name == "" {
		return false
	}
	return unicode.IsUpper(rune(v.Name[0]))
}

// IsLocal reports whether this reference names a local binding.
func (v *Var) IsLocal() bool { return !v.IsInstanceVar() && !v.IsConstant() }

func (v *Var) Accept(vis Visitor) {
	vis.VisitVar(v)
	vis.EndVisitVar(v)
}
func (v *Var) Clone() Node { return NewVar(v.position, v.Name) }
func (v *Var) Equal(other Node) bool {
	o, ok := other.(*Var)
	return ok && o.Name == v.Name
}

// Assign is a target := value assignment. Target is
// always a *Var in this grammar.
type Assign struct {
	base
	Target *Var
	Value  Node
}

func NewAssign(pos token.Position, target *Var, value Node) *Assign {
	a := &Assign{base{position: pos}, target, value}
	attach(a, target)
	attach(a, value)
	return a
}

func (a *Assign) Accept(v Visitor) {
	if v.VisitAssign(a) {
		a.Target.Accept(v)
		a.Value.Accept(v)
	}
	v.EndVisitAssign(a)
}
func (a *Assign) Clone() Node {
	return NewAssign(a.position, a.Target.Clone().(*Var), a.Value.Clone())
}
func (a *Assign) Equal(other Node) bool {
	o, ok := other.(*Assign)
	return ok && a.Target.Equal(o.Target) && a.Value.Equal(o.Value)
}

// If is a two-armed conditional. Else may be nil, meaning an implicit nil
// branch.
type If struct {
	base
	Cond Node
	Then Node
	Else Node
}

func NewIf(pos token.Position, cond, then, els Node) *If {
	n := &If{base{position: pos}, cond, then, els}
	attach(n, cond)
	attach(n, then)
	attach(n, els)
	return n
}

func (n *If) Accept(v Visitor) {
	if v.VisitIf(n) {
		n.Cond.Accept(v)
		n.Then.Accept(v)
		if n.Else != nil {
			n.Else.Accept(v)
		}
	}
	v.EndVisitIf(n)
}
func (n *If) Clone() Node {
	var els Node
	if n.Else != nil {
		els = n.Else.Clone()
	}
	return NewIf(n.position, n.Cond.Clone(), n.Then.Clone(), els)
}
func (n *If) Equal(other Node) bool {
	o, ok := other.(*If)
	if !ok || !n.Cond.Equal(o.Cond) || !n.Then.Equal(o.Then) {
		return false
	}
	if (n.Else == nil) != (o.Else == nil) {
		return false
	}
	if n.Else == nil {
		return true
	}
	return n.Else.Equal(o.Else)
}

// While is a pre-tested loop; its type is always Nil.
type While struct {
	base
	Cond Node
	Body Node
}

func NewWhile(pos token.Position, cond, body Node) *While {
	n := &While{base{position: pos}, cond, body}
	attach(n, cond)
	attach(n, body)
	return n
}

func (n *While) Accept(v Visitor) {
	if v.VisitWhile(n) {
		n.Cond.Accept(v)
		n.Body.Accept(v)
	}
	v.EndVisitWhile(n)
}
func (n *While) Clone() Node { return NewWhile(n.position, n.Cond.Clone(), n.Body.Clone()) }
func (n *While) Equal(other Node) bool {
	o, ok := other.(*While)
	return ok && n.Cond.Equal(o.Cond) && n.Body.Equal(o.Body)
}

// Block is a method block argument, e.g. list.each { |x| ... }. Block-local
// arguments are fresh Local bindings for the body's duration.
type Block struct {
	base
	Args []string
	Body *Expressions
}

func NewBlock(pos token.Position, args []string, body Node) *Block {
	b := &Block{base{position: pos}, args, NewBody(body)}
	attach(b, b.Body)
	return b
}

func (b *Block) Accept(v Visitor) {
	if v.VisitBlock(b) {
		b.Body.Accept(v)
	}
	v.EndVisitBlock(b)
}
func (b *Block) Clone() Node {
	args := append([]string(nil), b.Args...)
	return NewBlock(b.position, args, b.Body.Clone())
}
func (b *Block) Equal(other Node) bool {
	o, ok := other.(*Block)
	if !ok || len(o.Args) != len(b.Args) {
		return false
	}
	for i := range b.Args {
		if b.Args[i] != o.Args[i] {
			return false
		}
	}
	return b.Body.Equal(o.Body)
}

// ControlExit covers Return/Break/Next/Yield: they share an
// identical shape (a kind tag plus zero or more value expressions) so they
// are modeled as one node type rather than four near-duplicates.
type ControlExit struct {
	base
	Kind ControlKind
	Exps []Node
}

func NewControlExit(pos token.Position, kind ControlKind, exps ...Node) *ControlExit {
	c := &ControlExit{base{position: pos}, kind, exps}
	for _, e := range exps {
		attach(c, e)
	}
	return c
}

func (c *ControlExit) Accept(v Visitor) {
	if v.VisitControlExit(c) {
		for _, e := range c.Exps {
			e.Accept(v)
		}
	}
	v.EndVisitControlExit(c)
}
func (c *ControlExit) Clone() Node {
	exps := make([]Node, len(c.Exps))
	for i, e := range c.Exps {
		exps[i] = e.Clone()
	}
	return NewControlExit(c.position, c.Kind, exps...)
}
func (c *ControlExit) Equal(other Node) bool {
	o, ok := other.(*ControlExit)
	if !ok || o.Kind != c.Kind || len(o.Exps) != len(c.Exps) {
		return false
	}
	for i := range c.Exps {
		if !c.Exps[i].Equal(o.Exps[i]) {
			return false
		}
	}
	return true
}
