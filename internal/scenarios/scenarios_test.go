package scenarios_test

import (
	"testing"

	"github.com/halcyonlang/halcyon/internal/scenarios"
)

func TestCatalogMatchesRegistry(t *testing.T) {
	path, err := scenarios.FindCatalog(".")
	if err != nil {
		t.Fatalf("FindCatalog: %v", err)
	}
	if path == "" {
		t.Skip("catalog.yaml not reachable from the test's working directory")
	}
	cat, err := scenarios.LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	all := scenarios.All()
	if len(cat.Scenarios) != len(all) {
		t.Fatalf("catalog has %d entries, registry has %d", len(cat.Scenarios), len(all))
	}
	for _, entry := range cat.Scenarios {
		s, ok := scenarios.Lookup(entry.Name)
		if !ok {
			t.Errorf("catalog names %q, which is not registered", entry.Name)
			continue
		}
		if s.Description != entry.Description {
			t.Errorf("%s: catalog description %q does not match registry %q", entry.Name, entry.Description, s.Description)
		}
	}
}

func TestEveryScenarioBuilds(t *testing.T) {
	for _, s := range scenarios.All() {
		program := s.Build()
		if program == nil {
			t.Errorf("%s: Build returned nil", s.Name)
		}
	}
}

func TestLookupUnknownScenario(t *testing.T) {
	if _, ok := scenarios.Lookup("does-not-exist"); ok {
		t.Fatal("Lookup should report false for an unregistered name")
	}
}
