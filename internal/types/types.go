// Package types implements the type lattice: primitive and user-defined
// object types, generic classes and their instantiations, hierarchy
// (covering) types, and tagged unions. Every type constructed through this
// package is interned inside a Module, so two requests for "the same" type
// (same name, same generic bindings, same union members) always return the
// identical pointer.
package types

import (
	"sort"
	"strings"

	"github.com/halcyonlang/halcyon/internal/ast"
)

// Type is implemented by every member of the type lattice. All
// implementations are pointer types so that identity comparison (==) is
// the same thing as "same interned type".
type Type interface {
	String() string
	isType()
}

// Method is one arity-bucketed overload of a name in a class's method
// table.
type Method struct {
	Def *ast.Def
}

// ObjectType is a nominal class: a primitive, a plain user class, an
// uninstantiated generic class, or a generic instantiation.
// Which of those four it is follows from which fields are populated:
// TypeParams non-empty means "generic class"; Generic non-nil means
// "instantiation of that generic class".
type ObjectType struct {
	Name   string
	Parent *ObjectType // nil only for Object

	// Methods maps a method name to its overloads, bucketed by arity.
	// Plain arity-based lookup is enough for this grammar.
	Methods map[string]map[int]*Method

	// InstanceVars maps "@name" to its accumulated type. Every entry's
	// type is Nil (an ivar read before any assignment) or a union that
	// includes Nil: ivars are always "possibly unset".
	InstanceVars map[string]Type

	// TypeParams is non-empty exactly when this is an uninstantiated
	// generic class, e.g. Foo(T).
	TypeParams []string

	// Generic and TypeArgs are set exactly when this ObjectType is a
	// generic instantiation: Generic points back at the uninstantiated
	// class, TypeArgs binds each of Generic's TypeParams to a concrete
	// Type.
	Generic  *ObjectType
	TypeArgs map[string]Type

	// NestedConstants holds classes declared directly inside this class's
	// body, consulted before the module-level table during constant
	// lookup: the enclosing class chain is searched before the module.
	NestedConstants map[string]Type
}

func (*ObjectType) isType() {}

func (o *ObjectType) String() string {
	if o.Generic == nil || len(o.TypeArgs) == 0 {
		return o.Name
	}
	parts := make([]string, 0, len(o.Generic.TypeParams))
	for _, p := range o.Generic.TypeParams {
		arg := o.TypeArgs[p]
		argStr := "?"
		if arg != nil {
			argStr = arg.String()
		}
		parts = append(parts, p+"="+argStr)
	}
	return o.Generic.Name + "(" + strings.Join(parts, ", ") + ")"
}

// IsGenericClass reports whether o is an uninstantiated generic class.
func (o *ObjectType) IsGenericClass() bool { return len(o.TypeParams) > 0 && o.Generic == nil }

// IsInstantiation reports whether o is a generic instantiation.
func (o *ObjectType) IsInstantiation() bool { return o.Generic != nil }

// IsSubclassOf reports whether o is ancestor, or a transitive subclass of
// ancestor. A class is considered a subclass of itself.
func (o *ObjectType) IsSubclassOf(ancestor *ObjectType) bool {
	for c := o; c != nil; c = c.Parent {
		if c == ancestor {
			return true
		}
	}
	return false
}

// LookupMethod walks o's class chain (and, for a generic instantiation,
// falls back to the generic class it was instantiated from) looking for a
// method named name with the given arity. Returns nil if none matches.
func (o *ObjectType) LookupMethod(name string, arity int) *Method {
	for c := o; c != nil; {
		if bucket, ok := c.Methods[name]; ok {
			if m, ok := bucket[arity]; ok {
				return m
			}
		}
		if c.Generic != nil {
			c = c.Generic
			continue
		}
		c = c.Parent
	}
	return nil
}

// HasMethodName reports whether any overload of name exists on o's class
// chain, regardless of arity. Used to distinguish "no such method"
// (undefined method) from "method exists, wrong arity" (arity mismatch).
func (o *ObjectType) HasMethodName(name string) bool {
	for c := o; c != nil; {
		if _, ok := c.Methods[name]; ok {
			return true
		}
		if c.Generic != nil {
			c = c.Generic
			continue
		}
		c = c.Parent
	}
	return false
}

// LookupInstanceVar returns the current type of "@name" on this exact
// object type (it does not walk up the superclass chain: ivar lookup only
// consults the current class's own ivar map), and whether it has been
// seen before.
func (o *ObjectType) LookupInstanceVar(name string) (Type, bool) {
	t, ok := o.InstanceVars[name]
	return t, ok
}

func (o *ObjectType) addMethod(name string, def *ast.Def) {
	if o.Methods == nil {
		o.Methods = make(map[string]map[int]*Method)
	}
	bucket, ok := o.Methods[name]
	if !ok {
		bucket = make(map[int]*Method)
		o.Methods[name] = bucket
	}
	bucket[def.Arity()] = &Method{Def: def}
}

// HierarchyType is the conceptual union of a class and all of its
// transitive subclasses. There is exactly one
// per root class, created lazily and cached on the Module.
type HierarchyType struct {
	Root *ObjectType
}

func (*HierarchyType) isType() {}
func (h *HierarchyType) String() string { return "hierarchy(" + h.Root.Name + ")" }

// TaggedUnion is an unordered, interned set of >= 2 distinct member types
//. Construct one only through Module.UnionOf.
type TaggedUnion struct {
	Members []Type // sorted by String() for deterministic display/equality
}

func (*TaggedUnion) isType() {}
func (u *TaggedUnion) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// Includes reports whether target is one of u's members (by identity).
func (u *TaggedUnion) Includes(target Type) bool {
	for _, m := range u.Members {
		if m == target {
			return true
		}
	}
	return false
}

// flattenAndDedupe splices nested unions and removes duplicate members by
// identity, preserving the relative order of first occurrence.
func flattenAndDedupe(members []Type) []Type {
	flat := make([]Type, 0, len(members))
	for _, m := range members {
		if u, ok := m.(*TaggedUnion); ok {
			flat = append(flat, u.Members...)
		} else {
			flat = append(flat, m)
		}
	}
	seen := make(map[Type]bool, len(flat))
	unique := make([]Type, 0, len(flat))
	for _, m := range flat {
		if !seen[m] {
			seen[m] = true
			unique = append(unique, m)
		}
	}
	return unique
}

// collapseToHierarchy checks whether one member of the set is a
// (transitive) ancestor of every other member; if so the whole set
// collapses to that member's hierarchy type. Returns nil if no such
// ancestor exists.
func collapseToHierarchy(members []Type) *ObjectType {
	for _, candidate := range members {
		root, ok := candidate.(*ObjectType)
		if !ok || root.IsInstantiation() || root.IsGenericClass() {
			continue
		}
		allCovered := true
		for _, other := range members {
			o, ok := other.(*ObjectType)
			if !ok || !o.IsSubclassOf(root) {
				allCovered = false
				break
			}
		}
		if allCovered {
			return root
		}
	}
	return nil
}

func sortTypes(members []Type) {
	sort.Slice(members, func(i, j int) bool { return members[i].String() < members[j].String() })
}
