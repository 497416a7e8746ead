package types_test

import (
	"testing"

	"github.com/halcyonlang/halcyon/internal/types"
)

func TestUnionOfSingletonIsIdentity(t *testing.T) {
	m := types.NewModule()
	if got := m.UnionOf(m.Int()); got != types.Type(m.Int()) {
		t.Errorf("UnionOf(Int) = %s, want Int", got)
	}
}

func TestUnionOfDedupesIdenticalMembers(t *testing.T) {
	m := types.NewModule()
	if got := m.UnionOf(m.Int(), m.Int()); got != types.Type(m.Int()) {
		t.Errorf("UnionOf(Int, Int) = %s, want Int", got)
	}
}

func TestUnionOfFlattensNestedUnions(t *testing.T) {
	m := types.NewModule()
	inner := m.UnionOf(m.Int(), m.Bool())
	outer := m.UnionOf(inner, m.Char())
	flat := m.UnionOf(m.Int(), m.Bool(), m.Char())
	if outer != flat {
		t.Errorf("UnionOf(UnionOf(Int,Bool),Char) = %s, want identical to flat union %s", outer, flat)
	}
}

func TestUnionOfIsOrderIndependent(t *testing.T) {
	m := types.NewModule()
	a := m.UnionOf(m.Int(), m.Bool(), m.Char())
	b := m.UnionOf(m.Char(), m.Int(), m.Bool())
	if a != b {
		t.Errorf("UnionOf should intern regardless of argument order: %s != %s", a, b)
	}
}

func TestUnionOfEmptyIsNil(t *testing.T) {
	m := types.NewModule()
	if got := m.UnionOf(); got != types.Type(m.Nil()) {
		t.Errorf("UnionOf() = %s, want Nil", got)
	}
}

func TestUnionOfCollapsesToHierarchy(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	bar, _ := m.DeclareClass("Bar", foo, nil)
	union := m.UnionOf(foo, bar)
	h, ok := union.(*types.HierarchyType)
	if !ok {
		t.Fatalf("expected a HierarchyType, got %T (%s)", union, union)
	}
	if h.Root != foo {
		t.Errorf("hierarchy root = %s, want Foo", h.Root)
	}
}

func TestUnionOfUnrelatedClassesDoesNotCollapse(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	baz, _ := m.DeclareClass("Baz", nil, nil)
	union := m.UnionOf(foo, baz)
	if _, ok := union.(*types.HierarchyType); ok {
		t.Fatalf("unrelated classes should not collapse to a hierarchy, got %s", union)
	}
	if _, ok := union.(*types.TaggedUnion); !ok {
		t.Fatalf("expected a TaggedUnion, got %T", union)
	}
}

func TestGenericOfInterning(t *testing.T) {
	m := types.NewModule()
	box, _ := m.DeclareClass("Box", nil, []string{"T"})
	a := m.GenericOf(box, map[string]types.Type{"T": m.Int()})
	b := m.GenericOf(box, map[string]types.Type{"T": m.Int()})
	if a != b {
		t.Error("GenericOf with identical bindings should return the identical pointer")
	}
	c := m.GenericOf(box, map[string]types.Type{"T": m.Bool()})
	if a == c {
		t.Error("GenericOf with different bindings must not be identity-equal")
	}
}

func TestGenericOfInstantiationHasOwnInstanceVars(t *testing.T) {
	m := types.NewModule()
	box, _ := m.DeclareClass("Box", nil, []string{"T"})
	boxInt := m.GenericOf(box, map[string]types.Type{"T": m.Int()})
	boxBool := m.GenericOf(box, map[string]types.Type{"T": m.Bool()})
	m.AccumulateInstanceVar(boxInt, "@value", m.Int())
	if _, ok := boxBool.LookupInstanceVar("@value"); ok {
		t.Error("Box(Int)'s ivar accumulation must not leak into Box(Bool)")
	}
}

func TestAccumulateInstanceVarAlwaysIncludesNil(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	m.AccumulateInstanceVar(foo, "@x", m.Int())
	got, _ := foo.LookupInstanceVar("@x")
	want := m.UnionOf(m.Nil(), m.Int())
	if got != want {
		t.Errorf("@x = %s, want %s", got, want)
	}
}

func TestAccumulateInstanceVarUnionsAcrossAssignments(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	m.AccumulateInstanceVar(foo, "@x", m.Int())
	m.AccumulateInstanceVar(foo, "@x", m.Bool())
	got, _ := foo.LookupInstanceVar("@x")
	want := m.UnionOf(m.Nil(), m.Int(), m.Bool())
	if got != want {
		t.Errorf("@x = %s, want %s", got, want)
	}
}

func TestReadInstanceVarDefaultsToNil(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	got := m.ReadInstanceVar(foo, "@never_assigned")
	if got != m.Nil() {
		t.Errorf("unassigned ivar read = %s, want Nil", got)
	}
}

func TestDeclareClassRedeclarationReturnsSameObject(t *testing.T) {
	m := types.NewModule()
	foo1, existed1 := m.DeclareClass("Foo", nil, nil)
	if existed1 {
		t.Fatal("first declaration should report !existed")
	}
	foo2, existed2 := m.DeclareClass("Foo", foo1, nil)
	if !existed2 {
		t.Fatal("second declaration should report existed")
	}
	if foo1 != foo2 {
		t.Fatal("reopening a class should return the same ObjectType")
	}
}

func TestIsSubclassOfIncludesSelf(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	if !foo.IsSubclassOf(foo) {
		t.Error("a class should be considered a subclass of itself")
	}
}

func TestSubclassesIncludesTransitiveDescendants(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	bar, _ := m.DeclareClass("Bar", foo, nil)
	baz, _ := m.DeclareClass("Baz", bar, nil)
	subs := m.Subclasses(foo)
	want := map[*types.ObjectType]bool{foo: true, bar: true, baz: true}
	if len(subs) != len(want) {
		t.Fatalf("Subclasses(Foo) = %v, want 3 entries", subs)
	}
	for _, s := range subs {
		if !want[s] {
			t.Errorf("unexpected subclass %s", s)
		}
	}
}

func TestLookupMethodFallsBackThroughSuperclass(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	bar, _ := m.DeclareClass("Bar", foo, nil)
	// LookupMethod only needs the presence of a bucket to resolve, so a
	// nil *ast.Def stand-in is enough to exercise the walk-up-the-chain
	// behavior without pulling in the ast package's Def constructor.
	foo.Methods = map[string]map[int]*types.Method{"greet": {0: {}}}
	if bar.LookupMethod("greet", 0) == nil {
		t.Error("Bar should inherit Foo's greet method")
	}
	if bar.LookupMethod("greet", 1) != nil {
		t.Error("wrong arity should not match")
	}
	if !bar.HasMethodName("greet") {
		t.Error("HasMethodName should see inherited methods regardless of arity")
	}
}

func TestHierarchyOfIsCached(t *testing.T) {
	m := types.NewModule()
	foo, _ := m.DeclareClass("Foo", nil, nil)
	if m.HierarchyOf(foo) != m.HierarchyOf(foo) {
		t.Error("HierarchyOf should return the same pointer for the same root")
	}
}
