package stats

import (
	"testing"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

func fullSnapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Player:    &domain.Player{HP: 7, MaxHP: 10},
		World:     &domain.World{Location: "Cave"},
		Inventory: []domain.Item{{Name: "torch", Count: 1}},
	}
}

func TestApplyReplacesAllSections(t *testing.T) {
	t.Parallel()

	p := NewProjector()
	p.Apply(&domain.Snapshot{
		Player:    &domain.Player{HP: 10, MaxHP: 10},
		World:     &domain.World{Location: "Village"},
		Inventory: []domain.Item{{Name: "Gold Coin", Count: 5}, {Name: "Wooden Sword", Count: 1}},
	})
	p.Apply(fullSnapshot())

	if got := p.Health().String(); got != "7/10" {
		t.Fatalf("expected health 7/10, got %q", got)
	}
	if got := p.Location(); got != "Cave" {
		t.Fatalf("expected location Cave, got %q", got)
	}
	inv := p.Inventory()
	if len(inv) != 1 || inv[0].Name != "torch" || inv[0].Count != 1 {
		t.Fatalf("prior inventory not discarded: %v", inv)
	}
}

func TestAbsentSectionsRetainPreviousValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap *domain.Snapshot
	}{
		{"nil snapshot", nil},
		{"all sections absent", &domain.Snapshot{}},
		{"player absent", &domain.Snapshot{
			World:     &domain.World{Location: "Cave"},
			Inventory: []domain.Item{{Name: "torch", Count: 1}},
		}},
		{"world absent", &domain.Snapshot{
			Player:    &domain.Player{HP: 7, MaxHP: 10},
			Inventory: []domain.Item{{Name: "torch", Count: 1}},
		}},
		{"inventory absent", &domain.Snapshot{
			Player: &domain.Player{HP: 7, MaxHP: 10},
			World:  &domain.World{Location: "Cave"},
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewProjector()
			p.Apply(fullSnapshot())
			p.Apply(tt.snap)

			if got := p.Health().String(); got != "7/10" {
				t.Fatalf("health flickered to %q", got)
			}
			if got := p.Location(); got != "Cave" {
				t.Fatalf("location flickered to %q", got)
			}
			inv := p.Inventory()
			if len(inv) != 1 || inv[0].Name != "torch" {
				t.Fatalf("inventory flickered to %v", inv)
			}
		})
	}
}

func TestEmptyInventoryIsAReplacementNotAnAbsence(t *testing.T) {
	t.Parallel()

	p := NewProjector()
	p.Apply(fullSnapshot())
	p.Apply(&domain.Snapshot{Inventory: []domain.Item{}})

	if inv := p.Inventory(); len(inv) != 0 {
		t.Fatalf("expected emptied inventory, got %v", inv)
	}
	// Sections not present in that snapshot are still retained.
	if got := p.Location(); got != "Cave" {
		t.Fatalf("location flickered to %q", got)
	}
}

func TestNoValidationAgainstPriorValues(t *testing.T) {
	t.Parallel()

	p := NewProjector()
	p.Apply(fullSnapshot())
	// Health increasing and inventory shrinking are accepted as-is; the
	// narrator is the sole authority.
	p.Apply(&domain.Snapshot{
		Player:    &domain.Player{HP: 12, MaxHP: 10},
		Inventory: []domain.Item{},
	})

	if got := p.Health(); got.Current != 12 || got.Max != 10 {
		t.Fatalf("unexpected health: %+v", got)
	}
}

func TestInventoryAccessorReturnsACopy(t *testing.T) {
	t.Parallel()

	p := NewProjector()
	p.Apply(fullSnapshot())

	inv := p.Inventory()
	inv[0].Name = "mangled"

	if got := p.Inventory(); got[0].Name != "torch" {
		t.Fatalf("caller mutated published inventory: %v", got)
	}
}
