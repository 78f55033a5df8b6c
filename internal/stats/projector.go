// Package stats publishes the derived game status (health, inventory,
// location) projected from the narrator's state snapshots.
package stats

import (
	"fmt"
	"sync"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

// Health is the player's current and maximum hit points. The narrator
// guarantees current <= max; the client does not re-validate.
type Health struct {
	Current int
	Max     int
}

// String renders the familiar "7/10" form.
func (h Health) String() string {
	return fmt.Sprintf("%d/%d", h.Current, h.Max)
}

// Projector holds the authoritative derived values from the latest snapshot.
// Each Apply replaces present sections wholesale; there is no merging and no
// validation against prior values.
type Projector struct {
	mu        sync.RWMutex
	health    Health
	inventory []domain.Item
	location  string
}

// NewProjector creates an empty projector. Values are zero until the first
// snapshot arrives.
func NewProjector() *Projector {
	return &Projector{}
}

// Apply replaces the published values from snap. A nil snapshot, or a snapshot
// with an absent section (nil Player, nil World, nil Inventory), retains the
// previously published values for the missing parts so a transient narrator
// anomaly does not blank the display. Present sections replace fully.
func (p *Projector) Apply(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if snap.Player != nil {
		p.health = Health{Current: snap.Player.HP, Max: snap.Player.MaxHP}
	}
	if snap.World != nil {
		p.location = snap.World.Location
	}
	if snap.Inventory != nil {
		p.inventory = append([]domain.Item(nil), snap.Inventory...)
	}
}

// Health returns the published health values.
func (p *Projector) Health() Health {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.health
}

// Inventory returns a copy of the published inventory.
func (p *Projector) Inventory() []domain.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]domain.Item(nil), p.inventory...)
}

// Location returns the published location token. Opaque to the core; the
// presentation surface maps it to a tile.
func (p *Projector) Location() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location
}
