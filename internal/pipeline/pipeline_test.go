package pipeline

import (
	"testing"

	"go.uber.org/zap"

	"github.com/solrdex/solrdex/internal/query"
)

type markerStage struct {
	name string
	key  string
}

func (s *markerStage) Name() string { return s.name }

func (s *markerStage) Apply(rel *query.Relation, _ *Params) {
	rel.SetLocalParameter(s.key, "applied")
}

func TestRegistryChain(t *testing.T) {
	reg := NewRegistry(
		&markerStage{name: "first", key: "k1"},
		&markerStage{name: "second", key: "k2"},
	)

	chain, err := reg.Chain("second", "first")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(chain.Stages()); got != 2 {
		t.Fatalf("chain length = %d", got)
	}

	rel := query.NewRelation(0)
	chain.Apply(rel, &Params{})
	for _, key := range []string{"k1", "k2"} {
		if _, ok := rel.LocalParameter(key); !ok {
			t.Errorf("stage for %q did not run", key)
		}
	}
}

func TestRegistryUnknownStage(t *testing.T) {
	reg := NewRegistry(DefaultStages(testConfig(), zap.NewNop())...)
	if _, err := reg.Chain(StageQuery, "no_such_stage"); err == nil {
		t.Fatal("expected an error for an unregistered stage name")
	}
}

func TestRegistryReplace(t *testing.T) {
	reg := NewRegistry(DefaultStages(testConfig(), zap.NewNop())...)
	reg.Register(&markerStage{name: StageSorting, key: "custom_sort"})

	chain, err := reg.Chain(DefaultOrder()...)
	if err != nil {
		t.Fatal(err)
	}

	rel := query.NewRelation(0)
	chain.Apply(rel, &Params{Query: "q"})
	if _, ok := rel.LocalParameter("custom_sort"); !ok {
		t.Error("replacement stage did not run")
	}
}

func TestDefaultOrderMatchesRegisteredStages(t *testing.T) {
	stages := DefaultStages(testConfig(), nil)
	order := DefaultOrder()
	if len(stages) != len(order) {
		t.Fatalf("stage count %d != order count %d", len(stages), len(order))
	}
	for i, s := range stages {
		if s.Name() != order[i] {
			t.Errorf("stage %d = %q, want %q", i, s.Name(), order[i])
		}
	}
}
