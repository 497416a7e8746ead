package infer

import (
	"fmt"

	"github.com/halcyonlang/halcyon/internal/ast"
	"github.com/halcyonlang/halcyon/internal/diagnostics"
	"github.com/halcyonlang/halcyon/internal/token"
	"github.com/halcyonlang/halcyon/internal/types"
)

// DispatchSet is what Call.Target() holds for a hierarchy- or union-typed
// receiver: one monomorphized instance per concrete member class, rather
// than the single *types.MethodInstance an ordinary call produces.
type DispatchSet []*types.MethodInstance

// VisitCall is the central operation of the inference pass.
// It infers the receiver, each argument and then the block itself, in that
// order, resolves the call against their types, and returns false so the
// generic traversal does not visit those children a second time.
func (inf *Inferer) VisitCall(call *ast.Call) bool {
	if call.Obj != nil {
		call.Obj.Accept(inf)
	}
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		a.Accept(inf)
		argTypes[i] = inf.typeOf(a)
	}
	if call.Block != nil {
		call.Block.Accept(inf)
	}

	resultType, target := inf.resolveCall(call, argTypes)
	call.SetTarget(target)
	inf.setType(call, resultType)
	return false
}

func (inf *Inferer) blockSignature(call *ast.Call) string {
	if call.Block == nil {
		return ""
	}
	return fmt.Sprintf("block(%d)", len(call.Block.Args))
}

// resolveCall dispatches call against the receiver's type, covering bare
// construction, explicit generic type application, hierarchy and union
// receivers, and ordinary method lookup.
func (inf *Inferer) resolveCall(call *ast.Call, argTypes []types.Type) (types.Type, interface{}) {
	// `new`/`allocate` always construct, regardless of whether the receiver
	// expression is a bare class constant (`Foo.new`) or itself the result
	// of an explicit generic type application (`Foo(Int).new`).
	if call.Obj != nil && (call.Name == "new" || call.Name == "allocate") {
		if class, ok := inf.typeOf(call.Obj).(*types.ObjectType); ok {
			return inf.resolveConstruction(call, class, argTypes)
		}
	}

	// A receiver-less call to a generic class's own name, e.g. the `Foo(Int)`
	// in `Foo(Int).new`, applies type arguments positionally rather than
	// dispatching a method: there is no method literally named "Foo".
	if call.Obj == nil {
		if t, ok := inf.scope.LookupConstant(call.Name); ok {
			if class, ok := t.(*types.ObjectType); ok && class.IsGenericClass() {
				return inf.resolveExplicitGenericApplication(class, argTypes)
			}
		}
	}

	var objType types.Type
	if call.Obj != nil {
		objType = inf.typeOf(call.Obj)
	} else {
		objType = inf.scope.Self()
	}

	if hierarchy, ok := objType.(*types.HierarchyType); ok {
		return inf.resolveHierarchyCall(call, hierarchy, argTypes)
	}

	if union, ok := objType.(*types.TaggedUnion); ok {
		return inf.resolveUnionCall(call, union, argTypes)
	}

	if objType == nil {
		// Bare call at the top level: dispatch against module-level Defs.
		method := inf.module.LookupTopLevelMethod(call.Name, len(argTypes))
		if method == nil {
			if inf.module.HasTopLevelMethodName(call.Name) {
				inf.fail(diagnostics.ArityMismatch(call.Pos()))
			}
			inf.fail(diagnostics.UndefinedLocal(call.Name, call.Pos()))
		}
		instance := inf.instantiate(method.Def, nil, argTypes, inf.blockSignature(call), call.Pos())
		return instance.ReturnType, instance
	}

	recv, ok := objType.(*types.ObjectType)
	if !ok {
		inf.fail(diagnostics.UndefinedMethod(call.Name, objType.String(), call.Pos()))
	}
	method := recv.LookupMethod(call.Name, len(argTypes))
	if method == nil {
		if recv.HasMethodName(call.Name) {
			inf.fail(diagnostics.ArityMismatch(call.Pos()))
		}
		if call.Obj == nil {
			inf.fail(diagnostics.UndefinedLocal(call.Name, call.Pos()))
		}
		inf.fail(diagnostics.UndefinedMethod(call.Name, recv.String(), call.Pos()))
	}
	instance := inf.instantiate(method.Def, recv, argTypes, inf.blockSignature(call), call.Pos())
	return instance.ReturnType, instance
}

// resolveHierarchyCall fans a call to a hierarchy-typed receiver out
// across every concrete subclass, monomorphizing one instance per
// subclass and unioning their return types.
func (inf *Inferer) resolveHierarchyCall(call *ast.Call, hierarchy *types.HierarchyType, argTypes []types.Type) (types.Type, interface{}) {
	subclasses := inf.module.Subclasses(hierarchy.Root)
	dispatch := make(DispatchSet, 0, len(subclasses))
	results := make([]types.Type, 0, len(subclasses))
	for _, sub := range subclasses {
		method := sub.LookupMethod(call.Name, len(argTypes))
		if method == nil {
			if sub.HasMethodName(call.Name) {
				inf.fail(diagnostics.ArityMismatch(call.Pos()))
			}
			inf.fail(diagnostics.UndefinedMethod(call.Name, sub.String(), call.Pos()))
		}
		instance := inf.instantiate(method.Def, sub, argTypes, inf.blockSignature(call), call.Pos())
		dispatch = append(dispatch, instance)
		results = append(results, instance.ReturnType)
	}
	return inf.module.UnionOf(results...), dispatch
}

// resolveConstruction handles `new` and `allocate`. class may
// itself already be a generic instantiation (the receiver came from an
// explicit `Foo(Int)` type application): LookupMethod already falls back
// from an instantiation to its generic class, so that case needs no
// special handling here beyond skipping the type-variable solve.
func (inf *Inferer) resolveConstruction(call *ast.Call, class *types.ObjectType, argTypes []types.Type) (types.Type, interface{}) {
	if call.Name == "allocate" {
		// No constructor arguments to infer bindings from: an allocate on
		// an uninstantiated generic class stays generic-but-unresolved.
		// Target is the class itself: there is no method instance to
		// report.
		return class, class
	}

	// "new": allocate then initialize.
	if !class.IsGenericClass() {
		method := class.LookupMethod("initialize", len(argTypes))
		if method == nil {
			if class.HasMethodName("initialize") || len(argTypes) != 0 {
				inf.fail(diagnostics.ArityMismatch(call.Pos()))
			}
			return class, class
		}
		instance := inf.instantiate(method.Def, class, argTypes, inf.blockSignature(call), call.Pos())
		return class, instance
	}

	// Generic class: unify `initialize`'s annotated parameters against
	// the argument types to solve each type variable, then
	// intern the instantiation before typechecking the constructor body
	// against it.
	initDef := inf.findGenericInitializer(class, len(argTypes))
	if initDef == nil {
		if len(argTypes) != 0 {
			inf.fail(diagnostics.ArityMismatch(call.Pos()))
		}
		return class, class
	}
	bindings := bindGenericParams(class, initDef, argTypes)
	instantiation := inf.module.GenericOf(class, bindings)
	instance := inf.instantiate(initDef, instantiation, argTypes, inf.blockSignature(call), call.Pos())
	return instantiation, instance
}

// resolveExplicitGenericApplication implements the `Foo(Int)` form: bind
// class's type parameters positionally to the given type arguments and
// return the (interned) instantiation. There is no method dispatch
// involved, so the target is the instantiation itself.
func (inf *Inferer) resolveExplicitGenericApplication(class *types.ObjectType, argTypes []types.Type) (types.Type, interface{}) {
	bindings := make(map[string]types.Type, len(class.TypeParams))
	for i, param := range class.TypeParams {
		if i < len(argTypes) {
			bindings[param] = argTypes[i]
		}
	}
	instantiation := inf.module.GenericOf(class, bindings)
	return instantiation, instantiation
}

// resolveUnionCall dispatches a call whose receiver is a tagged union:
// every non-Nil member must define the method, since an instance
// variable's type is always "possibly unset" and that Nil member never
// itself needs to answer the call. The result is the union of each
// member's return type.
func (inf *Inferer) resolveUnionCall(call *ast.Call, union *types.TaggedUnion, argTypes []types.Type) (types.Type, interface{}) {
	var dispatch DispatchSet
	var results []types.Type
	for _, member := range union.Members {
		if hierarchy, ok := member.(*types.HierarchyType); ok {
			result, set := inf.resolveHierarchyCall(call, hierarchy, argTypes)
			dispatch = append(dispatch, set.(DispatchSet)...)
			results = append(results, result)
			continue
		}
		obj, ok := member.(*types.ObjectType)
		if !ok || obj == inf.module.Nil() {
			continue
		}
		method := obj.LookupMethod(call.Name, len(argTypes))
		if method == nil {
			if obj.HasMethodName(call.Name) {
				inf.fail(diagnostics.ArityMismatch(call.Pos()))
			}
			inf.fail(diagnostics.UndefinedMethod(call.Name, obj.String(), call.Pos()))
		}
		instance := inf.instantiate(method.Def, obj, argTypes, inf.blockSignature(call), call.Pos())
		dispatch = append(dispatch, instance)
		results = append(results, instance.ReturnType)
	}
	if len(results) == 0 {
		return inf.module.Nil(), dispatch
	}
	return inf.module.UnionOf(results...), dispatch
}

func (inf *Inferer) findGenericInitializer(class *types.ObjectType, arity int) *ast.Def {
	if method := class.LookupMethod("initialize", arity); method != nil {
		return method.Def
	}
	return nil
}

// bindGenericParams solves each type variable of class from initDef's
// annotated parameters against the concrete argument types. A
// type variable bound by more than one parameter takes the most recent
// binding, matching the Box.new(1, false) tie-break example.
func bindGenericParams(class *types.ObjectType, initDef *ast.Def, argTypes []types.Type) map[string]types.Type {
	isTypeParam := make(map[string]bool, len(class.TypeParams))
	for _, p := range class.TypeParams {
		isTypeParam[p] = true
	}
	bindings := make(map[string]types.Type)
	for i, param := range initDef.Args {
		if i >= len(argTypes) {
			break
		}
		if param.TypeAnnotation != "" && isTypeParam[param.TypeAnnotation] {
			bindings[param.TypeAnnotation] = argTypes[i]
		}
	}
	return bindings
}

// instantiate looks up the instantiation cache, and on miss clones the
// Def, binds its parameters, pre-installs a Nil-returning placeholder (so
// a recursive self-call terminates), infers the cloned body, then
// finalizes the cached return type.
func (inf *Inferer) instantiate(def *ast.Def, receiver types.Type, argTypes []types.Type, blockSignature string, pos token.Position) *types.MethodInstance {
	key := types.InstantiationKey(def, receiver, argTypes, blockSignature)
	if cached, ok := inf.module.LookupInstance(key); ok {
		return cached
	}
	if len(def.Args) != len(argTypes) {
		inf.fail(diagnostics.ArityMismatch(pos))
	}

	clone := def.Clone().(*ast.Def)
	placeholder := &types.MethodInstance{
		Def:        def,
		Receiver:   receiver,
		ParamTypes: argTypes,
		ReturnType: inf.module.Nil(),
	}
	inf.module.InstallInstance(key, placeholder)

	bodyScope := inf.scope.ChildInMethod(receiver)
	bindings := inf.bindReceiverTypeArgs(receiver)
	for i, param := range clone.Args {
		t := argTypes[i]
		if bound, ok := bindings[param.TypeAnnotation]; ok {
			t = bound
		}
		bodyScope.DefineLocal(param.Name, t)
	}

	outerScope, outerReturns := inf.scope, inf.returnAcc
	returns := []types.Type{}
	inf.scope = bodyScope
	inf.returnAcc = &returns
	clone.Body.Accept(inf)
	inf.scope, inf.returnAcc = outerScope, outerReturns

	if tail := clone.Body.Tail(); tail != nil {
		returns = append(returns, inf.typeOf(tail))
	} else {
		returns = append(returns, inf.module.Nil())
	}

	placeholder.Body = clone.Body
	placeholder.TypeBindings = bindings
	placeholder.ReturnType = inf.module.UnionOf(returns...)
	return placeholder
}

// bindReceiverTypeArgs exposes a generic instantiation's TypeArgs so that
// a parameter annotated "value : T" resolves T against the instantiation
// the receiver was constructed with, not just the raw argument type.
func (inf *Inferer) bindReceiverTypeArgs(receiver types.Type) map[string]types.Type {
	obj, ok := receiver.(*types.ObjectType)
	if !ok || !obj.IsInstantiation() {
		return map[string]types.Type{}
	}
	out := make(map[string]types.Type, len(obj.TypeArgs))
	for k, v := range obj.TypeArgs {
		out[k] = v
	}
	return out
}
