package ast

import "github.com/halcyonlang/halcyon/internal/token"

// ClassDef declares (or re-opens) a class.
type ClassDef struct {
	base
	Name       string
	Superclass string // "" means no explicit superclass named (defaults to Object)
	Body       *Expressions
	TypeParams []string // non-empty for a generic class, e.g. Foo(T)
}

func NewClassDef(pos token.Position, name, superclass string, typeParams []string, body Node) *ClassDef {
	c := &ClassDef{base{position: pos}, name, superclass, NewBody(body), typeParams}
	attach(c, c.Body)
	return c
}

func (c *ClassDef) Accept(v Visitor) {
	if v.VisitClassDef(c) {
		c.Body.Accept(v)
	}
	v.EndVisitClassDef(c)
}
func (c *ClassDef) Clone() Node {
	return NewClassDef(c.position, c.Name, c.Superclass, append([]string(nil), c.TypeParams...), c.Body.Clone())
}
func (c *ClassDef) Equal(other Node) bool {
	o, ok := other.(*ClassDef)
	if !ok || o.Name != c.Name || o.Superclass != c.Superclass || len(o.TypeParams) != len(c.TypeParams) {
		return false
	}
	for i := range c.TypeParams {
		if c.TypeParams[i] != o.TypeParams[i] {
			return false
		}
	}
	return c.Body.Equal(o.Body)
}

// Param is one formal parameter of a Def. TypeAnnotation is the bare name
// written after ':' (e.g. "value : T" -> TypeAnnotation == "T"); it names
// either a type variable of the enclosing generic class or a concrete
// constant type, and is empty when the parameter carries no annotation.
type Param struct {
	Name           string
	TypeAnnotation string
}

// Def declares a method. Receiver is non-nil only for an explicit-receiver
// (class/static) method declaration, e.g. "def self.create".
type Def struct {
	base
	Receiver *Var
	Name     string
	Args     []Param
	Body     *Expressions
}

func NewDef(pos token.Position, receiver *Var, name string, args []Param, body Node) *Def {
	d := &Def{base{position: pos}, receiver, name, args, NewBody(body)}
	if receiver != nil {
		attach(d, receiver)
	}
	attach(d, d.Body)
	return d
}

// Arity is the number of declared parameters.
func (d *Def) Arity() int { return len(d.Args) }

func (d *Def) Accept(v Visitor) {
	if v.VisitDef(d) {
		if d.Receiver != nil {
			d.Receiver.Accept(v)
		}
		d.Body.Accept(v)
	}
	v.EndVisitDef(d)
}
func (d *Def) Clone() Node {
	var recv *Var
	if d.Receiver != nil {
		recv = d.Receiver.Clone().(*Var)
	}
	args := append([]Param(nil), d.Args...)
	return NewDef(d.position, recv, d.Name, args, d.Body.Clone())
}
func (d *Def) Equal(other Node) bool {
	o, ok := other.(*Def)
	if !ok || o.Name != d.Name || len(o.Args) != len(d.Args) {
		return false
	}
	if (d.Receiver == nil) != (o.Receiver == nil) || (d.Receiver != nil && !d.Receiver.Equal(o.Receiver)) {
		return false
	}
	for i := range d.Args {
		if d.Args[i] != o.Args[i] {
			return false
		}
	}
	return d.Body.Equal(o.Body)
}

// Call is an invocation: obj.name(args) { block }, or a bare name(args)
// when Obj is nil. The target is filled in by inference
// once the call has been resolved and (if needed) monomorphized. It is
// boxed as interface{} to keep this package free of a dependency on the
// type lattice: an ordinary call holds a *types.MethodInstance, a call on a
// hierarchy- or union-typed receiver holds an infer.DispatchSet, and a
// construction with no initializer or an explicit generic application
// holds the *types.ObjectType itself.
type Call struct {
	base
	Obj    Node // nil means self (inside a method) or the module (top level)
	Name   string
	Args   []Node
	Block  *Block
	target interface{}
}

func NewCall(pos token.Position, obj Node, name string, args []Node, block *Block) *Call {
	c := &Call{base: base{position: pos}, Obj: obj, Name: name, Args: args, Block: block}
	attach(c, obj)
	for _, a := range args {
		attach(c, a)
	}
	if block != nil {
		attach(c, block)
	}
	return c
}

// SetTarget records the resolved/monomorphized method instance for this
// call site.
func (c *Call) SetTarget(instance interface{}) { c.target = instance }

// Target returns the previously resolved method instance, or nil if this
// call has not been through inference yet.
func (c *Call) Target() interface{} { return c.target }

func (c *Call) Accept(v Visitor) {
	if v.VisitCall(c) {
		if c.Obj != nil {
			c.Obj.Accept(v)
		}
		for _, a := range c.Args {
			a.Accept(v)
		}
		if c.Block != nil {
			c.Block.Accept(v)
		}
	}
	v.EndVisitCall(c)
}
func (c *Call) Clone() Node {
	var obj Node
	if c.Obj != nil {
		obj = c.Obj.Clone()
	}
	args := make([]Node, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Clone()
	}
	var block *Block
	if c.Block != nil {
		block = c.Block.Clone().(*Block)
	}
	clone := NewCall(c.position, obj, c.Name, args, block)
	// target is deliberately NOT copied: a clone is a fresh call site
	// (e.g. inside a monomorphized method body) that must be resolved on
	// its own.
	return clone
}
func (c *Call) Equal(other Node) bool {
	o, ok := other.(*Call)
	if !ok || o.Name != c.Name || len(o.Args) != len(c.Args) {
		return false
	}
	if (c.Obj == nil) != (o.Obj == nil) {
		return false
	}
	if c.Obj != nil && !c.Obj.Equal(o.Obj) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	if (c.Block == nil) != (o.Block == nil) {
		return false
	}
	if c.Block == nil {
		return true
	}
	return c.Block.Equal(o.Block)
}
