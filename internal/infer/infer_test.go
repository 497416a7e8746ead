package infer_test

import (
	"testing"

	"github.com/halcyonlang/halcyon/internal/diagnostics"
	"github.com/halcyonlang/halcyon/internal/infer"
	"github.com/halcyonlang/halcyon/internal/scenarios"
	"github.com/halcyonlang/halcyon/internal/types"
)

// runScenario builds and runs the named fixture, failing the test if the
// scenario name isn't registered.
func runScenario(t *testing.T, name string) (*types.Module, error) {
	t.Helper()
	s, ok := scenarios.Lookup(name)
	if !ok {
		t.Fatalf("no such scenario %q", name)
	}
	return infer.Run(s.Build())
}

// expectFault runs name and asserts it fails with exactly the given code.
func expectFault(t *testing.T, name string, code diagnostics.Code) *diagnostics.Fault {
	t.Helper()
	_, err := runScenario(t, name)
	if err == nil {
		t.Fatalf("%s: expected fault %s, got none", name, code)
	}
	fault, ok := err.(*diagnostics.Fault)
	if !ok {
		t.Fatalf("%s: expected *diagnostics.Fault, got %T (%v)", name, err, err)
	}
	if fault.Code != code {
		t.Fatalf("%s: expected code %s, got %s (%s)", name, code, fault.Code, fault.Message)
	}
	return fault
}

func TestAllocateWithoutInitialize(t *testing.T) {
	mod, err := runScenario(t, "allocate-without-initialize")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	foo, ok := mod.Lookup("Foo")
	if !ok {
		t.Fatal("Foo was never declared")
	}
	if foo != mod.Types()["Foo"] {
		t.Fatal("Foo lookup inconsistent with constant table")
	}
}

func TestReturnTypeFromCall(t *testing.T) {
	mod, err := runScenario(t, "return-type-from-call")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	fooT, ok := mod.Lookup("Foo")
	if !ok {
		t.Fatal("Foo was never declared")
	}
	foo := fooT.(*types.ObjectType)
	method := foo.LookupMethod("coco", 0)
	if method == nil {
		t.Fatal("Foo#coco was never registered")
	}
}

func TestGenericExplicitInstantiation(t *testing.T) {
	mod, err := runScenario(t, "generic-explicit-instantiation")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	fooT, ok := mod.Lookup("Foo")
	if !ok {
		t.Fatal("Foo was never declared")
	}
	foo := fooT.(*types.ObjectType)
	if !foo.IsGenericClass() {
		t.Fatal("Foo should remain an uninstantiated generic class")
	}

	fooInt := mod.GenericOf(foo, map[string]types.Type{"T": mod.Int()})
	fooDouble := mod.GenericOf(foo, map[string]types.Type{"T": mod.Double()})
	if fooInt == fooDouble {
		t.Fatal("Foo(Int) and Foo(Double) must be distinct interned instantiations")
	}

	coco, ok := fooInt.LookupInstanceVar("@coco")
	if !ok {
		t.Fatal("Foo(Int)'s @coco was never seeded/accumulated")
	}
	if coco != mod.UnionOf(mod.Nil(), mod.Int()) {
		t.Fatalf("Foo(Int)'s @coco should be union(Nil, Int), got %s", coco)
	}

	cocoDouble, ok := fooDouble.LookupInstanceVar("@coco")
	if !ok {
		t.Fatal("Foo(Double)'s @coco was never seeded/accumulated")
	}
	if cocoDouble != mod.UnionOf(mod.Nil(), mod.Double()) {
		t.Fatalf("Foo(Double)'s @coco should be union(Nil, Double), got %s", cocoDouble)
	}
}

func TestRecursiveSelfReference(t *testing.T) {
	mod, err := runScenario(t, "recursive-self-reference")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	nodeT, ok := mod.Lookup("Node")
	if !ok {
		t.Fatal("Node was never declared")
	}
	node := nodeT.(*types.ObjectType)
	next, ok := node.LookupInstanceVar("@next")
	if !ok {
		t.Fatal("@next was never accumulated")
	}
	want := mod.UnionOf(mod.Nil(), node)
	if next != want {
		t.Fatalf("expected @next == union(Nil, Node), got %s", next)
	}
}

func TestHierarchyUnionCollapse(t *testing.T) {
	mod, err := runScenario(t, "hierarchy-union-collapse")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	fooT, ok := mod.Lookup("Foo")
	if !ok {
		t.Fatal("Foo was never declared")
	}
	foo := fooT.(*types.ObjectType)
	barT, ok := mod.Lookup("Bar")
	if !ok {
		t.Fatal("Bar was never declared")
	}
	bar := barT.(*types.ObjectType)
	if !bar.IsSubclassOf(foo) {
		t.Fatal("Bar must be a subclass of Foo")
	}

	union := mod.UnionOf(foo, bar)
	hierarchy, ok := union.(*types.HierarchyType)
	if !ok {
		t.Fatalf("union(Foo, Bar) should collapse to a hierarchy type, got %T (%s)", union, union)
	}
	if hierarchy.Root != foo {
		t.Fatalf("hierarchy root should be Foo, got %s", hierarchy.Root)
	}
}

func TestGenericTiebreak(t *testing.T) {
	mod, err := runScenario(t, "generic-tiebreak")
	if err != nil {
		t.Fatalf("unexpected fault: %v", err)
	}
	boxT, ok := mod.Lookup("Box")
	if !ok {
		t.Fatal("Box was never declared")
	}
	box := boxT.(*types.ObjectType)

	// Box.new(1, false): the annotated parameter is `value : T`, bound by
	// the second (Bool) argument, not the first (Int) one.
	boxBool := mod.GenericOf(box, map[string]types.Type{"T": mod.Bool()})
	value, ok := boxBool.LookupInstanceVar("@value")
	if !ok {
		t.Fatal("Box(T=Bool)'s @value was never accumulated")
	}
	if value != mod.UnionOf(mod.Nil(), mod.Bool()) {
		t.Fatalf("expected @value == union(Nil, Bool), got %s", value)
	}

	boxInt := mod.GenericOf(box, map[string]types.Type{"T": mod.Int()})
	if boxBool == boxInt {
		t.Fatal("Box(T=Bool) and Box(T=Int) must not be the same instantiation")
	}
}

func TestUninitializedConstant(t *testing.T) {
	fault := expectFault(t, "uninitialized-constant", diagnostics.CodeUninitializedConstant)
	if fault.Message != "uninitialized constant Foo" {
		t.Fatalf("unexpected message: %s", fault.Message)
	}
}

func TestArityMismatch(t *testing.T) {
	fault := expectFault(t, "arity-mismatch", diagnostics.CodeArityMismatch)
	if fault.Message != "wrong number of arguments" {
		t.Fatalf("unexpected message: %s", fault.Message)
	}
}

func TestSuperclassMismatch(t *testing.T) {
	fault := expectFault(t, "superclass-mismatch", diagnostics.CodeSuperclassMismatch)
	want := "superclass mismatch for class Foo (Bar for Object)"
	if fault.Message != want {
		t.Fatalf("expected %q, got %q", want, fault.Message)
	}
}

// TestEveryInstanceVarIncludesNil asserts the invariant holds across every
// scenario that completes successfully: an ivar's accumulated type always
// includes Nil, since assignment never replaces the prior accumulation
// outright.
func TestEveryInstanceVarIncludesNil(t *testing.T) {
	for _, s := range scenarios.All() {
		mod, err := infer.Run(s.Build())
		if err != nil {
			continue // error scenarios have nothing to check here
		}
		for name, t2 := range mod.Types() {
			obj, ok := t2.(*types.ObjectType)
			if !ok {
				continue
			}
			for ivar, ivarType := range obj.InstanceVars {
				if u, ok := ivarType.(*types.TaggedUnion); ok {
					if !u.Includes(mod.Nil()) {
						t.Errorf("%s: %s's %s (%s) does not include Nil", s.Name, name, ivar, ivarType)
					}
					continue
				}
				if ivarType != mod.Nil() {
					t.Errorf("%s: %s's %s (%s) is neither Nil nor a union including Nil", s.Name, name, ivar, ivarType)
				}
			}
		}
	}
}
