// Package narrator implements the dev narrator service: a rule-based game
// master that resolves player turns against a per-session game state. It
// replaces the original model-backed narrator with deterministic rules while
// keeping the same wire contract and state shape.
package narrator

import (
	"strings"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

var knownLocations = []string{"Village", "Market", "Tavern", "Cave", "Blacksmith"}

// NewState creates a fresh game state for a new session.
func NewState() *domain.Snapshot {
	return &domain.Snapshot{
		Turn:   0,
		Player: &domain.Player{Name: "Hero", HP: 10, MaxHP: 10, Level: 1, XP: 0},
		World:  &domain.World{Location: "Village", TimeOfDay: "morning"},
		Quest: &domain.Quest{
			ID:     "beer_keg",
			Title:  "Recover the goblins' stolen beer keg and return it to the tavern",
			Status: "in_progress",
		},
		Inventory: []domain.Item{
			{Name: "Gold Coin", Count: 5},
			{Name: "Wooden Sword", Count: 1},
		},
	}
}

// applyHealthChange clamps hp to [0, max_hp] and returns the new value.
func applyHealthChange(state *domain.Snapshot, amount int) int {
	p := state.Player
	hp := p.HP + amount
	if hp < 0 {
		hp = 0
	}
	if hp > p.MaxHP {
		hp = p.MaxHP
	}
	p.HP = hp
	return hp
}

// countCoins returns the player's Gold Coin count.
func countCoins(state *domain.Snapshot) int {
	for _, it := range state.Inventory {
		if strings.EqualFold(it.Name, "Gold Coin") {
			return it.Count
		}
	}
	return 0
}

// addItem merges qty of name into the inventory.
func addItem(state *domain.Snapshot, name string, qty int) {
	for i := range state.Inventory {
		if strings.EqualFold(state.Inventory[i].Name, name) {
			state.Inventory[i].Count += qty
			return
		}
	}
	state.Inventory = append(state.Inventory, domain.Item{Name: name, Count: qty})
}

// removeItem removes up to qty of name; reports whether enough were held.
func removeItem(state *domain.Snapshot, name string, qty int) bool {
	for i := range state.Inventory {
		if strings.EqualFold(state.Inventory[i].Name, name) {
			if state.Inventory[i].Count < qty {
				return false
			}
			state.Inventory[i].Count -= qty
			if state.Inventory[i].Count == 0 {
				state.Inventory = append(state.Inventory[:i], state.Inventory[i+1:]...)
			}
			return true
		}
	}
	return false
}

// removeCoins debits qty Gold Coins; reports whether the player could pay.
func removeCoins(state *domain.Snapshot, qty int) bool {
	return removeItem(state, "Gold Coin", qty)
}

// inInventory reports whether the player holds at least qty of name.
func inInventory(state *domain.Snapshot, name string, qty int) bool {
	for _, it := range state.Inventory {
		if strings.EqualFold(it.Name, name) && it.Count >= qty {
			return true
		}
	}
	return false
}

// applyItemEffect applies a consumable's effect and returns a short narration
// fragment, or "" when the item has none.
func applyItemEffect(state *domain.Snapshot, name string) string {
	key, def, ok := getItem(name)
	if !ok || def.Type != "consumable" || def.HPGain == 0 {
		return ""
	}
	before := state.Player.HP
	applyHealthChange(state, def.HPGain)
	gained := state.Player.HP - before
	if gained == 0 {
		return "You use the " + key + ", but it has no effect."
	}
	return "You use the " + key + " and recover some strength."
}

// sanityCheck rejects impossible or cheating intents before any state changes.
func sanityCheck(state *domain.Snapshot, intent Intent) (bool, string) {
	if state.GameOver {
		return false, "The adventure has already ended."
	}
	if state.Player.HP <= 0 {
		return false, "You are incapacitated and cannot act."
	}
	if intent.Action == ActionUse {
		if intent.Item == "" {
			return false, "You must specify an item to use."
		}
		if !inInventory(state, intent.Item, 1) {
			return false, "You don't have " + intent.Item + "."
		}
		if _, def, ok := getItem(intent.Item); !ok || (def.Type != "consumable" && def.Type != "utility") {
			return false, "You can't really 'use' the " + intent.Item + " directly."
		}
	}
	return true, ""
}
