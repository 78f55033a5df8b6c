package domain

// Snapshot is the complete game state returned with each turn. The narrator is
// the sole authority: each snapshot wholly replaces any previously received
// state on the client, with no merging or client-side prediction.
//
// Sections are pointers (and the inventory a nil-able slice) so a consumer can
// tell an absent section apart from an empty one.
type Snapshot struct {
	Turn      int        `json:"turn"`
	Player    *Player    `json:"player,omitempty"`
	World     *World     `json:"world,omitempty"`
	Quest     *Quest     `json:"quest,omitempty"`
	Inventory []Item     `json:"inventory,omitempty"`
	Log       []Exchange `json:"log,omitempty"`
	GameOver  bool       `json:"game_over,omitempty"`
}

// Player holds the player character's vitals and progression.
type Player struct {
	Name  string `json:"name"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	Level int    `json:"lvl"`
	XP    int    `json:"xp"`
}

// World holds the player's position in the game world. Location is an opaque
// token; mapping it to map tiles is presentation configuration.
type World struct {
	Location  string `json:"location"`
	TimeOfDay string `json:"time_of_day"`
}

// Quest describes the currently tracked quest.
type Quest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Item is one inventory entry. Names are not required to be unique, although
// duplicates are a narrator anomaly.
type Item struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	if s.Player != nil {
		p := *s.Player
		out.Player = &p
	}
	if s.World != nil {
		w := *s.World
		out.World = &w
	}
	if s.Quest != nil {
		q := *s.Quest
		out.Quest = &q
	}
	if s.Inventory != nil {
		out.Inventory = append([]Item(nil), s.Inventory...)
	}
	if s.Log != nil {
		out.Log = append([]Exchange(nil), s.Log...)
	}
	return &out
}
