package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/halcyonlang/halcyon/internal/ast"
)

// primitiveNames is the fixed set of primitive object types.
// Double has no literal syntax in this grammar but is a
// distinct primitive reachable by name, e.g. via an explicit annotation.
var primitiveNames = []string{"Nil", "Bool", "Int", "Float", "Double", "Char", "Object"}

// Module is the process-wide, single-run type environment: it
// interns every type built during inference and owns the method
// instantiation cache that drives monomorphization.
type Module struct {
	// RunID uniquely tags this compilation run so generated artifacts
	// (here, fatal inference faults) can be traced back to it.
	RunID string

	constants map[string]Type // constant-name -> registered top-level type
	classes   []*ObjectType   // every declared class, in declaration order

	hierarchies    map[*ObjectType]*HierarchyType
	unions         map[string]*TaggedUnion
	instantiations map[string]*ObjectType

	instanceCache map[string]*MethodInstance

	// topLevel holds Defs registered outside of any class, under the
	// enclosing module rather than a class, bucketed by arity exactly
	// like ObjectType.Methods.
	topLevel map[string]map[int]*Method
}

// NewModule creates a Module seeded with the primitive classes.
func NewModule() *Module {
	m := &Module{
		RunID:          uuid.NewString(),
		constants:      make(map[string]Type),
		hierarchies:    make(map[*ObjectType]*HierarchyType),
		unions:         make(map[string]*TaggedUnion),
		instantiations: make(map[string]*ObjectType),
		instanceCache:  make(map[string]*MethodInstance),
		topLevel:       make(map[string]map[int]*Method),
	}
	object := &ObjectType{Name: "Object"}
	m.constants["Object"] = object
	m.classes = append(m.classes, object)
	for _, name := range primitiveNames {
		if name == "Object" {
			continue
		}
		t := &ObjectType{Name: name, Parent: object}
		m.constants[name] = t
		m.classes = append(m.classes, t)
	}
	return m
}

func (m *Module) primitive(name string) *ObjectType {
	t, ok := m.constants[name].(*ObjectType)
	if !ok {
		panic("types: primitive " + name + " missing from module")
	}
	return t
}

func (m *Module) Nil() *ObjectType    { return m.primitive("Nil") }
func (m *Module) Bool() *ObjectType   { return m.primitive("Bool") }
func (m *Module) Int() *ObjectType    { return m.primitive("Int") }
func (m *Module) Float() *ObjectType  { return m.primitive("Float") }
func (m *Module) Double() *ObjectType { return m.primitive("Double") }
func (m *Module) Char() *ObjectType   { return m.primitive("Char") }
func (m *Module) Object() *ObjectType { return m.primitive("Object") }

// Lookup returns the constant registered under name, and whether it
// exists.
func (m *Module) Lookup(name string) (Type, bool) {
	t, ok := m.constants[name]
	return t, ok
}

// Types exposes the full constant table, e.g. for diagnostics or tooling.
func (m *Module) Types() map[string]Type { return m.constants }

// DeclareClass registers a new class named name under the given
// superclass (nil means Object). If the class was already declared, it is
// returned unchanged (its Parent still the superclass from its first
// declaration) with alreadyExisted set, so the caller can check for a
// redeclaration mismatch.
func (m *Module) DeclareClass(name string, superclass *ObjectType, typeParams []string) (class *ObjectType, alreadyExisted bool) {
	if existing, ok := m.constants[name]; ok {
		if obj, ok := existing.(*ObjectType); ok {
			return obj, true
		}
	}
	if superclass == nil {
		superclass = m.Object()
	}
	class = &ObjectType{
		Name:         name,
		Parent:       superclass,
		InstanceVars: make(map[string]Type),
		TypeParams:   typeParams,
	}
	m.constants[name] = class
	m.classes = append(m.classes, class)
	return class, false
}

// RegisterNested additionally exposes class under enclosing's nested
// constant table, so a class declared inside another class's body is
// found by the enclosing-class-chain step of constant lookup
// even though it is also, like every class, registered at module level.
func (m *Module) RegisterNested(enclosing *ObjectType, name string, class *ObjectType) {
	if enclosing.NestedConstants == nil {
		enclosing.NestedConstants = make(map[string]Type)
	}
	enclosing.NestedConstants[name] = class
}

// DeclareMethod registers def under receiver's method table. receiver
// should be the uninstantiated class: methods live on the generic class,
// not on each instantiation.
func (m *Module) DeclareMethod(receiver *ObjectType, def *ast.Def) {
	receiver.addMethod(def.Name, def)
}

// DeclareTopLevelMethod registers a Def that appears outside any class.
func (m *Module) DeclareTopLevelMethod(def *ast.Def) {
	bucket, ok := m.topLevel[def.Name]
	if !ok {
		bucket = make(map[int]*Method)
		m.topLevel[def.Name] = bucket
	}
	bucket[def.Arity()] = &Method{Def: def}
}

// LookupTopLevelMethod looks up a module-level Def by name and arity.
func (m *Module) LookupTopLevelMethod(name string, arity int) *Method {
	if bucket, ok := m.topLevel[name]; ok {
		if method, ok := bucket[arity]; ok {
			return method
		}
	}
	return nil
}

// HasTopLevelMethodName reports whether any arity of name is registered
// at module level.
func (m *Module) HasTopLevelMethodName(name string) bool {
	_, ok := m.topLevel[name]
	return ok
}

// AccumulateInstanceVar unions the new value with whatever the ivar held
// before (or Nil, if this is the first assignment), because an ivar's
// value is always "possibly unset" from some other code path's point of
// view.
func (m *Module) AccumulateInstanceVar(owner *ObjectType, name string, valueType Type) Type {
	if owner.InstanceVars == nil {
		owner.InstanceVars = make(map[string]Type)
	}
	previous, ok := owner.InstanceVars[name]
	if !ok {
		previous = m.Nil()
	}
	merged := m.UnionOf(previous, valueType)
	owner.InstanceVars[name] = merged
	return merged
}

// ReadInstanceVar handles the read side: the first read of an ivar that
// has never been assigned creates an entry defaulting to Nil.
func (m *Module) ReadInstanceVar(owner *ObjectType, name string) Type {
	if owner.InstanceVars == nil {
		owner.InstanceVars = make(map[string]Type)
	}
	if t, ok := owner.InstanceVars[name]; ok {
		return t
	}
	owner.InstanceVars[name] = m.Nil()
	return m.Nil()
}

// Subclasses returns root and every class transitively declared with root
// as an ancestor, in declaration order. Used to fan a hierarchy-typed
// call out across its concrete variants.
func (m *Module) Subclasses(root *ObjectType) []*ObjectType {
	var out []*ObjectType
	for _, c := range m.classes {
		if c.IsSubclassOf(root) {
			out = append(out, c)
		}
	}
	return out
}

// HierarchyOf returns the cached hierarchy type rooted at class, creating
// it on first request.
func (m *Module) HierarchyOf(class *ObjectType) *HierarchyType {
	if h, ok := m.hierarchies[class]; ok {
		return h
	}
	h := &HierarchyType{Root: class}
	m.hierarchies[class] = h
	return h
}

// GenericOf returns the interned instantiation of generic class class
// bound by bindings, creating it (with a fresh, empty instance-var map) on
// miss. Identical type-var maps are identity-equal.
func (m *Module) GenericOf(class *ObjectType, bindings map[string]Type) *ObjectType {
	key := genericKey(class, bindings)
	if existing, ok := m.instantiations[key]; ok {
		return existing
	}
	boundCopy := make(map[string]Type, len(bindings))
	for k, v := range bindings {
		boundCopy[k] = v
	}
	instance := &ObjectType{
		Name:         class.Name,
		Parent:       class.Parent,
		InstanceVars: make(map[string]Type),
		Generic:      class,
		TypeArgs:     boundCopy,
	}
	m.instantiations[key] = instance
	m.classes = append(m.classes, instance)
	return instance
}

func genericKey(class *ObjectType, bindings map[string]Type) string {
	parts := make([]string, 0, len(class.TypeParams))
	for _, p := range class.TypeParams {
		v := bindings[p]
		s := "?"
		if v != nil {
			s = v.String()
		}
		parts = append(parts, p+"="+s)
	}
	return class.Name + "<" + strings.Join(parts, ",") + ">"
}

// UnionOf builds the tagged union of the given types:
// duplicates are removed by identity, nested unions are spliced, a
// singleton result degenerates to its single member, and a result whose
// members form a class/subclass chain collapses to that class's hierarchy
// type. Equal inputs up to flattening/dedup/collapse produce
// the identical interned *TaggedUnion pointer.
func (m *Module) UnionOf(ts ...Type) Type {
	unique := flattenAndDedupe(ts)
	if len(unique) == 0 {
		return m.Nil()
	}
	if len(unique) == 1 {
		return unique[0]
	}
	if root := collapseToHierarchy(unique); root != nil {
		return m.HierarchyOf(root)
	}
	sortTypes(unique)
	key := unionKey(unique)
	if existing, ok := m.unions[key]; ok {
		return existing
	}
	u := &TaggedUnion{Members: unique}
	m.unions[key] = u
	return u
}

func unionKey(sorted []Type) string {
	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = t.String()
	}
	return strings.Join(parts, "|")
}

// MethodInstance is a monomorphized method: a typed clone of a Def
// specialized to one concrete (receiver, argument types) combination.
// An ordinary call's Call.Target() holds one of these, boxed as
// interface{} to keep the ast package free of a dependency on this one.
type MethodInstance struct {
	Def          *ast.Def
	Body         *ast.Expressions // cloned, freshly parented body
	Receiver     Type
	ParamTypes   []Type
	TypeBindings map[string]Type // type vars solved while binding params
	ReturnType   Type            // provisional Nil while body is being inferred
}

// InstantiationKey builds the monomorphization cache key from
// (def, receiver_type, arg_types, block_signature). Types are interned, so
// their String() form is already a faithful identity signature.
func InstantiationKey(def *ast.Def, receiver Type, args []Type, blockSignature string) string {
	argParts := make([]string, len(args))
	for i, a := range args {
		argParts[i] = a.String()
	}
	recvStr := "<module>"
	if receiver != nil {
		recvStr = receiver.String()
	}
	return fmt.Sprintf("%p|%s|(%s)|%s", def, recvStr, strings.Join(argParts, ","), blockSignature)
}

// LookupInstance returns the cached monomorphized instance for key, if
// any.
func (m *Module) LookupInstance(key string) (*MethodInstance, bool) {
	inst, ok := m.instanceCache[key]
	return inst, ok
}

// InstallInstance installs inst (typically a placeholder with a
// provisional Nil return type) under key, so that a recursive self-call
// encountered while inferring the same method's body terminates against a
// sound fixpoint instead of recursing forever.
func (m *Module) InstallInstance(key string, inst *MethodInstance) {
	m.instanceCache[key] = inst
}
