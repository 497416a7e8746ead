// Package scope implements nested name resolution: locals,
// instance variables, and constants, plus the superclass-chained method
// lookup that Call resolution builds on.
package scope

import (
	"github.com/halcyonlang/halcyon/internal/types"
)

// Scope is one frame of a nested lookup chain. A fresh child is pushed for
// every Def body and every Block body; locals defined in a child are
// invisible to its parent, but a child can read (not redefine) anything
// its parent already bound: block locals capture their enclosing scope
// read-only.
type Scope struct {
	parent *Scope
	module *types.Module
	locals map[string]types.Type

	// class is the class whose body is currently being walked (for
	// constant chaining and nested ClassDef registration). It is nil at
	// module/top level.
	class *types.ObjectType

	// self is the receiver type in effect while inferring a method body.
	// It is nil at the top level, where a bare call's receiver is the
	// module itself.
	self types.Type
}

// NewModuleScope returns the root scope for a fresh inference run.
func NewModuleScope(module *types.Module) *Scope {
	return &Scope{module: module, locals: make(map[string]types.Type)}
}

// Child pushes a fresh local-binding frame, inheriting the enclosing
// class and self receiver.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s, module: s.module, locals: make(map[string]types.Type), class: s.class, self: s.self}
}

// ChildInClass pushes a fresh frame for walking class's body: constant
// lookups from here see class's nested constants before falling through
// to the enclosing scope, and "self" is unset (classes don't have an
// instance receiver of their own until a method of theirs is invoked).
func (s *Scope) ChildInClass(class *types.ObjectType) *Scope {
	return &Scope{parent: s, module: s.module, locals: make(map[string]types.Type), class: class, self: nil}
}

// ChildInMethod pushes a fresh frame for inferring a method body against
// receiver: self resolves to receiver, and the class for constant lookups
// stays whatever it already was (methods don't introduce a new constant
// namespace).
func (s *Scope) ChildInMethod(receiver types.Type) *Scope {
	return &Scope{parent: s, module: s.module, locals: make(map[string]types.Type), class: s.class, self: receiver}
}

// Module returns the Module this scope chain resolves constants against.
func (s *Scope) Module() *types.Module { return s.module }

// CurrentClass returns the innermost enclosing class, or nil at the top
// level.
func (s *Scope) CurrentClass() *types.ObjectType { return s.class }

// Self returns the receiver type in effect, or nil if there is none (top
// level, or inside a class body but outside any method).
func (s *Scope) Self() types.Type { return s.self }

// DefineLocal binds name to t in the innermost frame. Produced by Def
// parameters and by Assign targets of a Var that is neither an instance
// var nor a constant.
func (s *Scope) DefineLocal(name string, t types.Type) { s.locals[name] = t }

// LookupLocal walks outward from the innermost frame looking for name.
func (s *Scope) LookupLocal(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.locals[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupConstant resolves a constant by walking the enclosing class chain
// first, then the module.
func (s *Scope) LookupConstant(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if c := sc.class; c != nil && c.NestedConstants != nil {
			if t, ok := c.NestedConstants[name]; ok {
				return t, true
			}
		}
	}
	return s.module.Lookup(name)
}
