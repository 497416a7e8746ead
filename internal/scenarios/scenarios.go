// Package scenarios builds small, self-contained AST fixtures exercising
// each corner of the inference pass, and a YAML-described catalog of them
// for the CLI to list and run. The AST is built directly with
// internal/ast's constructors rather than parsed from source text, since
// parsing and lexing are out of scope for this module: a fixture
// here plays the role an external parser's output would.
package scenarios

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/halcyonlang/halcyon/internal/ast"
	"github.com/halcyonlang/halcyon/internal/token"
)

var zero = token.Position{}

// Scenario is one named, buildable fixture.
type Scenario struct {
	Name        string
	Description string
	Build       func() *ast.Expressions
}

var registry = map[string]Scenario{
	"allocate-without-initialize": {
		Name:        "allocate-without-initialize",
		Description: "Foo.allocate on a class with no initialize yields the bare class type.",
		Build:       buildAllocateWithoutInitialize,
	},
	"return-type-from-call": {
		Name:        "return-type-from-call",
		Description: "Foo.new.coco resolves through a zero-arg initializer-less constructor into a regular method call.",
		Build:       buildReturnTypeFromCall,
	},
	"generic-explicit-instantiation": {
		Name:        "generic-explicit-instantiation",
		Description: "Foo(Int).new and Foo(Double).new produce distinct instantiations with independently accumulated ivars.",
		Build:       buildGenericExplicitInstantiation,
	},
	"recursive-self-reference": {
		Name:        "recursive-self-reference",
		Description: "Node#add calls itself through a self-referential ivar; the instantiation cache and ivar pre-seeding keep it from diverging.",
		Build:       buildRecursiveSelfReference,
	},
	"hierarchy-union-collapse": {
		Name:        "hierarchy-union-collapse",
		Description: "A union of a class and its subclass collapses to that class's hierarchy type.",
		Build:       buildHierarchyUnionCollapse,
	},
	"generic-tiebreak": {
		Name:        "generic-tiebreak",
		Description: "Box.new(1, false) solves its type variable from the annotated constructor parameter, not the first argument.",
		Build:       buildGenericTiebreak,
	},
	"uninitialized-constant": {
		Name:        "uninitialized-constant",
		Description: "Foo.new with Foo never declared fails with an uninitialized-constant fault.",
		Build:       buildUninitializedConstant,
	},
	"arity-mismatch": {
		Name:        "arity-mismatch",
		Description: "Foo.new against a two-parameter initialize called with no arguments fails with an arity-mismatch fault.",
		Build:       buildArityMismatch,
	},
	"superclass-mismatch": {
		Name:        "superclass-mismatch",
		Description: "Reopening a class with a different superclass than its first declaration fails with a superclass-mismatch fault.",
		Build:       buildSuperclassMismatch,
	},
}

// Lookup returns the named scenario, if registered.
func Lookup(name string) (Scenario, bool) {
	s, ok := registry[name]
	return s, ok
}

// All returns every registered scenario, sorted by name for stable CLI
// listing.
func All() []Scenario {
	out := make([]Scenario, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// CatalogEntry mirrors one scenario's descriptive metadata, as loaded from
// a YAML catalog file: the catalog documents the
// scenarios for a CLI listing, it does not itself describe the AST (Go
// functions remain the source of truth for that).
type CatalogEntry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog is the top-level shape of catalog.yaml.
type Catalog struct {
	Scenarios []CatalogEntry `yaml:"scenarios"`
}

// LoadCatalog reads and parses a scenario catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data, path)
}

// ParseCatalog parses catalog YAML content from bytes. path is used only
// for error messages.
func ParseCatalog(data []byte, path string) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cat, nil
}

// FindCatalog searches for internal/scenarios/catalog.yaml beneath dir and
// then beneath each of its parent directories in turn. Returns "" with a
// nil error if no catalog is found.
func FindCatalog(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "internal", "scenarios", "catalog.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func buildAllocateWithoutInitialize() *ast.Expressions {
	classFoo := ast.NewClassDef(zero, "Foo", "", nil, nil)
	allocate := ast.NewCall(zero, ast.NewVar(zero, "Foo"), "allocate", nil, nil)
	return ast.NewExpressions(zero, classFoo, allocate)
}

func buildReturnTypeFromCall() *ast.Expressions {
	coco := ast.NewDef(zero, nil, "coco", nil, ast.NewIntLiteral(zero, 1))
	classFoo := ast.NewClassDef(zero, "Foo", "", nil, ast.NewExpressions(zero, coco))
	newCall := ast.NewCall(zero, ast.NewVar(zero, "Foo"), "new", nil, nil)
	cocoCall := ast.NewCall(zero, newCall, "coco", nil, nil)
	return ast.NewExpressions(zero, classFoo, cocoCall)
}

func buildGenericExplicitInstantiation() *ast.Expressions {
	set := ast.NewDef(zero, nil, "set", []ast.Param{{Name: "v", TypeAnnotation: "T"}},
		ast.NewAssign(zero, ast.NewVar(zero, "@coco"), ast.NewVar(zero, "v")))
	classFoo := ast.NewClassDef(zero, "Foo", "", []string{"T"}, ast.NewExpressions(zero, set))

	fooInt := ast.NewCall(zero, nil, "Foo", []ast.Node{ast.NewVar(zero, "Int")}, nil)
	fNew := ast.NewCall(zero, fooInt, "new", nil, nil)
	fAssign := ast.NewAssign(zero, ast.NewVar(zero, "f"), fNew)
	fSet := ast.NewCall(zero, ast.NewVar(zero, "f"), "set", []ast.Node{ast.NewIntLiteral(zero, 2)}, nil)

	fooDouble := ast.NewCall(zero, nil, "Foo", []ast.Node{ast.NewVar(zero, "Double")}, nil)
	gNew := ast.NewCall(zero, fooDouble, "new", nil, nil)
	gAssign := ast.NewAssign(zero, ast.NewVar(zero, "g"), gNew)
	gSet := ast.NewCall(zero, ast.NewVar(zero, "g"), "set", []ast.Node{ast.NewFloatLiteral(zero, 2.5)}, nil)

	return ast.NewExpressions(zero, classFoo, fAssign, fSet, gAssign, gSet)
}

func buildRecursiveSelfReference() *ast.Expressions {
	addBody := ast.NewIf(zero,
		ast.NewVar(zero, "@next"),
		ast.NewCall(zero, ast.NewVar(zero, "@next"), "add", nil, nil),
		ast.NewAssign(zero, ast.NewVar(zero, "@next"), ast.NewCall(zero, ast.NewVar(zero, "Node"), "new", nil, nil)),
	)
	add := ast.NewDef(zero, nil, "add", nil, addBody)
	classNode := ast.NewClassDef(zero, "Node", "", nil, ast.NewExpressions(zero, add))

	nAssign := ast.NewAssign(zero, ast.NewVar(zero, "n"), ast.NewCall(zero, ast.NewVar(zero, "Node"), "new", nil, nil))
	nAdd := ast.NewCall(zero, ast.NewVar(zero, "n"), "add", nil, nil)
	nTail := ast.NewVar(zero, "n")

	return ast.NewExpressions(zero, classNode, nAssign, nAdd, nTail)
}

func buildHierarchyUnionCollapse() *ast.Expressions {
	classFoo := ast.NewClassDef(zero, "Foo", "", nil, nil)
	classBar := ast.NewClassDef(zero, "Bar", "Foo", nil, nil)
	disjunction := ast.NewIf(zero,
		ast.NewCall(zero, ast.NewVar(zero, "Foo"), "new", nil, nil),
		ast.NewCall(zero, ast.NewVar(zero, "Foo"), "new", nil, nil),
		ast.NewCall(zero, ast.NewVar(zero, "Bar"), "new", nil, nil),
	)
	aAssign := ast.NewAssign(zero, ast.NewVar(zero, "a"), disjunction)
	return ast.NewExpressions(zero, classFoo, classBar, aAssign)
}

func buildGenericTiebreak() *ast.Expressions {
	initialize := ast.NewDef(zero, nil, "initialize",
		[]ast.Param{{Name: "x"}, {Name: "value", TypeAnnotation: "T"}},
		ast.NewAssign(zero, ast.NewVar(zero, "@value"), ast.NewVar(zero, "value")))
	classBox := ast.NewClassDef(zero, "Box", "", []string{"T"}, ast.NewExpressions(zero, initialize))
	boxNew := ast.NewCall(zero, ast.NewVar(zero, "Box"), "new",
		[]ast.Node{ast.NewIntLiteral(zero, 1), ast.NewBoolLiteral(zero, false)}, nil)
	return ast.NewExpressions(zero, classBox, boxNew)
}

func buildUninitializedConstant() *ast.Expressions {
	newCall := ast.NewCall(zero, ast.NewVar(zero, "Foo"), "new", nil, nil)
	return ast.NewExpressions(zero, newCall)
}

func buildArityMismatch() *ast.Expressions {
	initialize := ast.NewDef(zero, nil, "initialize", []ast.Param{{Name: "x"}, {Name: "y"}}, nil)
	classFoo := ast.NewClassDef(zero, "Foo", "", nil, ast.NewExpressions(zero, initialize))
	newCall := ast.NewCall(zero, ast.NewVar(zero, "Foo"), "new", nil, nil)
	return ast.NewExpressions(zero, classFoo, newCall)
}

func buildSuperclassMismatch() *ast.Expressions {
	classFoo := ast.NewClassDef(zero, "Foo", "", nil, nil)
	classBar := ast.NewClassDef(zero, "Bar", "", nil, nil)
	classFooReopen := ast.NewClassDef(zero, "Foo", "Bar", nil, nil)
	return ast.NewExpressions(zero, classFoo, classBar, classFooReopen)
}
