// Package infer implements the flow-insensitive type inference pass: it
// walks the AST produced by an external parser, assigns a type to every
// expression, and drives method monomorphization as it goes. It is the
// only analysis pass in this repository that implements ast.Visitor.
package infer

import (
	"github.com/halcyonlang/halcyon/internal/ast"
	"github.com/halcyonlang/halcyon/internal/diagnostics"
	"github.com/halcyonlang/halcyon/internal/scope"
	"github.com/halcyonlang/halcyon/internal/types"
)

// Inferer is the type-inference visitor. Run constructs a fresh one with
// New for every program; an Inferer built directly with New is driven by
// passing it to program.Accept. Do not reuse an Inferer across two
// programs — each compilation owns its Module exclusively.
type Inferer struct {
	ast.BaseVisitor // non-overridden node kinds simply descend and do nothing

	module *types.Module
	scope  *scope.Scope
	nodes  map[ast.Node]types.Type

	// returnAcc points at the slice collecting the current method
	// instantiation's Return expression types; nil at the top
	// level, where a bare Return has no method to return from.
	returnAcc *[]types.Type
}

// New creates an Inferer over a fresh Module.
func New() *Inferer {
	m := types.NewModule()
	return &Inferer{
		module: m,
		scope:  scope.NewModuleScope(m),
		nodes:  make(map[ast.Node]types.Type),
	}
}

// Module returns the type environment this run populated.
func (inf *Inferer) Module() *types.Module { return inf.module }

// TypeOf returns the type inference assigned to node, or nil if node was
// never visited (e.g. any node of a Def's own body: each instantiation
// types a clone of the body, kept in MethodInstance.Body, never the
// original).
func (inf *Inferer) TypeOf(node ast.Node) types.Type { return inf.nodes[node] }

func (inf *Inferer) typeOf(node ast.Node) types.Type { return inf.nodes[node] }
func (inf *Inferer) setType(node ast.Node, t types.Type) types.Type {
	inf.nodes[node] = t
	return t
}

// fail raises fault as the run's single fatal error: it
// panics, to be recovered exactly once by Run, matching the "no per-node
// recovery" propagation rule instead of threading an error return through
// every Visit method of the ast.Visitor interface.
func (inf *Inferer) fail(fault *diagnostics.Fault) {
	fault.RunID = inf.module.RunID
	panic(fault)
}

// Run type-checks program against a fresh Inferer and returns the
// populated Module, or the single fatal *diagnostics.Fault if inference
// failed.
func Run(program *ast.Expressions) (mod *types.Module, err error) {
	inf := New()
	defer func() {
		if r := recover(); r != nil {
			fault, ok := r.(*diagnostics.Fault)
			if !ok {
				panic(r) // not ours: a genuine bug, let it surface
			}
			err = fault
		}
	}()
	program.Accept(inf)
	return inf.module, nil
}

// --- literals: fixed types ---

func (inf *Inferer) EndVisitNilLiteral(n *ast.NilLiteral) { inf.setType(n, inf.module.Nil()) }
func (inf *Inferer) EndVisitBoolLiteral(n *ast.BoolLiteral) { inf.setType(n, inf.module.Bool()) }
func (inf *Inferer) EndVisitIntLiteral(n *ast.IntLiteral)   { inf.setType(n, inf.module.Int()) }
func (inf *Inferer) EndVisitFloatLiteral(n *ast.FloatLiteral) {
	inf.setType(n, inf.module.Float())
}
func (inf *Inferer) EndVisitCharLiteral(n *ast.CharLiteral) { inf.setType(n, inf.module.Char()) }

// --- Var: local / instance var / constant ---

func (inf *Inferer) EndVisitVar(v *ast.Var) {
	switch {
	case v.IsInstanceVar():
		owner := inf.receiverClass()
		inf.setType(v, inf.module.ReadInstanceVar(owner, v.Name))
	case v.IsConstant():
		t, ok := inf.scope.LookupConstant(v.Name)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(v.Name, v.Pos()))
		}
		inf.setType(v, t)
	default:
		t, ok := inf.scope.LookupLocal(v.Name)
		if !ok {
			inf.fail(diagnostics.UndefinedLocal(v.Name, v.Pos()))
		}
		inf.setType(v, t)
	}
}

// receiverClass returns the class currently in scope for self/@ivar
// resolution, falling back to Object if inference somehow reaches an
// instance-variable reference outside of any method body.
func (inf *Inferer) receiverClass() *types.ObjectType {
	if self := inf.scope.Self(); self != nil {
		if obj, ok := self.(*types.ObjectType); ok {
			return obj
		}
	}
	return inf.module.Object()
}

// --- Assign ---
//
// Assign is handled entirely in VisitAssign (returning false) rather than
// letting the generic traversal descend into Target: a *Var assignment
// target is never "read" the way an ordinary Var reference is (a local's
// first assignment defines it; an instance variable's assignment
// accumulates rather than looks up).

func (inf *Inferer) VisitAssign(a *ast.Assign) bool {
	a.Value.Accept(inf)
	valueType := inf.typeOf(a.Value)

	var targetType types.Type
	switch {
	case a.Target.IsInstanceVar():
		owner := inf.receiverClass()
		inf.module.AccumulateInstanceVar(owner, a.Target.Name, valueType)
		targetType = valueType
	case a.Target.IsConstant():
		// Constants are normally introduced by ClassDef; a bare constant
		// assignment (not part of the canonical grammar fixtures) simply
		// registers the binding so later reads resolve it.
		inf.module.Types()[a.Target.Name] = valueType
		targetType = valueType
	default:
		inf.scope.DefineLocal(a.Target.Name, valueType)
		targetType = valueType
	}
	inf.setType(a.Target, targetType)
	inf.setType(a, targetType)
	return false
}

// --- If / While ---

func (inf *Inferer) EndVisitIf(n *ast.If) {
	thenType := inf.typeOf(n.Then)
	elseType := inf.module.Nil()
	if n.Else != nil {
		elseType = inf.typeOf(n.Else)
	}
	inf.setType(n, inf.module.UnionOf(thenType, elseType))
}

func (inf *Inferer) EndVisitWhile(n *ast.While) { inf.setType(n, inf.module.Nil()) }

// --- Block: fresh locals for block-local arguments; block parameter
// types default to Object ---

func (inf *Inferer) VisitBlock(b *ast.Block) bool {
	outer := inf.scope
	inf.scope = outer.Child()
	for _, arg := range b.Args {
		inf.scope.DefineLocal(arg, inf.module.Object())
	}
	b.Body.Accept(inf)
	inf.setType(b, inf.module.Nil())
	inf.scope = outer
	return false
}

// --- ControlExit: Return contributes to the enclosing method's
// return-type union; Break/Next/Yield are typed Nil.

func (inf *Inferer) VisitControlExit(c *ast.ControlExit) bool {
	for _, e := range c.Exps {
		e.Accept(inf)
	}
	if c.Kind == ast.KindReturn && inf.returnAcc != nil {
		for _, e := range c.Exps {
			*inf.returnAcc = append(*inf.returnAcc, inf.typeOf(e))
		}
	}
	inf.setType(c, inf.module.Nil())
	return false
}

// --- ClassDef ---

func (inf *Inferer) VisitClassDef(c *ast.ClassDef) bool {
	var superclass *types.ObjectType
	if c.Superclass != "" {
		t, ok := inf.scope.LookupConstant(c.Superclass)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(c.Superclass, c.Pos()))
		}
		obj, ok := t.(*types.ObjectType)
		if !ok {
			inf.fail(diagnostics.UninitializedConstant(c.Superclass, c.Pos()))
		}
		superclass = obj
	}

	class, existed := inf.module.DeclareClass(c.Name, superclass, c.TypeParams)
	if existed && superclass != nil && class.Parent != superclass {
		inf.fail(diagnostics.SuperclassMismatch(c.Name, superclass.Name, class.Parent.Name, c.Pos()))
	}

	if enclosing := inf.scope.CurrentClass(); enclosing != nil {
		inf.module.RegisterNested(enclosing, c.Name, class)
	}

	outer := inf.scope
	inf.scope = outer.ChildInClass(class)
	c.Body.Accept(inf)
	inf.seedInstanceVars(class)
	inf.scope = outer

	inf.setType(c, class)
	return false
}

// EndVisitExpressions types a statement sequence as the type of its last
// child: a block or class body's own type is its tail's type, the same
// implicit-return rule a method body follows.
func (inf *Inferer) EndVisitExpressions(e *ast.Expressions) {
	if tail := e.Tail(); tail != nil {
		inf.setType(e, inf.typeOf(tail))
		return
	}
	inf.setType(e, inf.module.Nil())
}

// seedInstanceVars pre-populates class's ivar map from every `@ivar =
// expr` assignment across all of its Defs, independent of whether any of
// those methods have been called yet. Without this, a self-referential
// ivar like Node#add's `@next` would read as plain Nil the first time its
// own method body inspects it (the method hasn't been monomorphized yet,
// so nothing has accumulated a Node onto @next), and a subsequent
// `@next.add` inside that very body would see a receiver with no `add`
// method at all — not a recursion the instantiation cache can rescue,
// since the cache only short-circuits calls that share a receiver type,
// and at that point the receiver genuinely is Nil, not Node. Scanning
// every assignment site up front, even ones whose right-hand side needs no
// further inference machinery to type (a literal, or `OtherClass.new`),
// gives the ivar its eventual union member before the real inference pass
// ever reaches it. The real pass re-accumulates over this seed, so the
// final result is identical to what a fixpoint solve would have produced.
func (inf *Inferer) seedInstanceVars(class *types.ObjectType) {
	var assigns []*ast.Assign
	for _, bucket := range class.Methods {
		for _, method := range bucket {
			collectIvarAssigns(method.Def.Body, &assigns)
		}
	}
	for _, a := range assigns {
		if guess, ok := inf.quickGuessType(class, a.Value); ok {
			inf.module.AccumulateInstanceVar(class, a.Target.Name, guess)
		}
	}
}

// collectIvarAssigns walks node looking for Assign nodes targeting an
// instance variable, at any nesting depth reachable without yet resolving
// a single Call.
func collectIvarAssigns(node ast.Node, out *[]*ast.Assign) {
	switch n := node.(type) {
	case nil:
	case *ast.Expressions:
		for _, child := range n.Children {
			collectIvarAssigns(child, out)
		}
	case *ast.If:
		collectIvarAssigns(n.Cond, out)
		collectIvarAssigns(n.Then, out)
		collectIvarAssigns(n.Else, out)
	case *ast.While:
		collectIvarAssigns(n.Cond, out)
		collectIvarAssigns(n.Body, out)
	case *ast.Assign:
		if n.Target.IsInstanceVar() {
			*out = append(*out, n)
		}
		collectIvarAssigns(n.Value, out)
	case *ast.Block:
		collectIvarAssigns(n.Body, out)
	case *ast.ControlExit:
		for _, e := range n.Exps {
			collectIvarAssigns(e, out)
		}
	case *ast.Call:
		if n.Obj != nil {
			collectIvarAssigns(n.Obj, out)
		}
		for _, a := range n.Args {
			collectIvarAssigns(a, out)
		}
		if n.Block != nil {
			collectIvarAssigns(n.Block, out)
		}
	}
}

// quickGuessType computes a type for node without running the full
// inference machinery, for the narrow set of expression shapes that
// appear as the right-hand side of the ivar assignments seedInstanceVars
// cares about: literals, another already-seeded ivar, a constant
// reference, and `SomeClass.new`/`.allocate` (which always yields
// SomeClass regardless of its constructor, so no recursive inference of
// SomeClass's own body is needed here). Anything else is left for the
// real pass to type; returning false just means this assignment
// contributes nothing to the pre-seed.
func (inf *Inferer) quickGuessType(class *types.ObjectType, node ast.Node) (types.Type, bool) {
	switch n := node.(type) {
	case *ast.NilLiteral:
		return inf.module.Nil(), true
	case *ast.BoolLiteral:
		return inf.module.Bool(), true
	case *ast.IntLiteral:
		return inf.module.Int(), true
	case *ast.FloatLiteral:
		return inf.module.Float(), true
	case *ast.CharLiteral:
		return inf.module.Char(), true
	case *ast.Var:
		if n.IsInstanceVar() {
			t, ok := class.InstanceVars[n.Name]
			return t, ok
		}
		if n.IsConstant() {
			return inf.scope.LookupConstant(n.Name)
		}
		return nil, false
	case *ast.Call:
		if n.Obj == nil || n.Block != nil {
			return nil, false
		}
		recvVar, ok := n.Obj.(*ast.Var)
		if !ok || !recvVar.IsConstant() || (n.Name != "new" && n.Name != "allocate") {
			return nil, false
		}
		t, ok := inf.scope.LookupConstant(recvVar.Name)
		if !ok {
			return nil, false
		}
		target, ok := t.(*types.ObjectType)
		if !ok || target.IsGenericClass() {
			return nil, false
		}
		return target, true
	default:
		return nil, false
	}
}

// --- Def: register, do not infer the body yet ---

func (inf *Inferer) VisitDef(d *ast.Def) bool {
	if class := inf.scope.CurrentClass(); class != nil {
		inf.module.DeclareMethod(class, d)
	} else {
		inf.module.DeclareTopLevelMethod(d)
	}
	inf.setType(d, inf.module.Nil())
	return false
}
