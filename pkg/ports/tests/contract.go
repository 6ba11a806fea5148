package tests

import (
	"context"
	"testing"

	"github.com/aretw0/twoway/pkg/domain"
	"github.com/aretw0/twoway/pkg/ports"
)

// DefinitionLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.DefinitionLoader.
func DefinitionLoaderContractTest(t *testing.T, loader ports.DefinitionLoader, want domain.Definition) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading definition: %v", err)
		}
		assertDefinition(t, want, got)
	})

	t.Run("Load_Repeatable", func(t *testing.T) {
		first, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error on first load: %v", err)
		}
		if len(first.States) > 0 {
			first.States[0] = "mutated"
		}

		second, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error on second load: %v", err)
		}
		assertDefinition(t, want, second)
	})

	t.Run("Name", func(t *testing.T) {
		if loader.Name() == "" {
			t.Error("expected a non-empty loader name")
		}
	})
}

func assertDefinition(t *testing.T, want, got domain.Definition) {
	t.Helper()

	if len(got.States) != len(want.States) {
		t.Fatalf("states: got %v, want %v", got.States, want.States)
	}
	for i := range want.States {
		if got.States[i] != want.States[i] {
			t.Errorf("state %d: got %q, want %q", i, got.States[i], want.States[i])
		}
	}

	if len(got.Alphabet) != len(want.Alphabet) {
		t.Fatalf("alphabet: got %v, want %v", got.Alphabet, want.Alphabet)
	}
	for i := range want.Alphabet {
		if got.Alphabet[i] != want.Alphabet[i] {
			t.Errorf("symbol %d: got %q, want %q", i, got.Alphabet[i], want.Alphabet[i])
		}
	}

	if got.Start != want.Start || got.Accept != want.Accept || got.Reject != want.Reject {
		t.Errorf("designated states: got (%s, %s, %s), want (%s, %s, %s)",
			got.Start, got.Accept, got.Reject, want.Start, want.Accept, want.Reject)
	}

	if len(got.Transitions) != len(want.Transitions) {
		t.Fatalf("transitions: got %d, want %d", len(got.Transitions), len(want.Transitions))
	}
	for i := range want.Transitions {
		if got.Transitions[i] != want.Transitions[i] {
			t.Errorf("transition %d: got %v, want %v", i, got.Transitions[i], want.Transitions[i])
		}
	}
}
