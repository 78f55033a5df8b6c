package narrator

import "strings"

// ItemDef describes one item the game knows about.
type ItemDef struct {
	Type   string // weapon, armor, consumable, utility, currency, quest
	HPGain int    // for consumables
}

// itemsDB is the canonical item database. Lookups are case-insensitive against
// the canonical names used as keys.
var itemsDB = map[string]ItemDef{
	"Gold Coin":     {Type: "currency"},
	"Wooden Sword":  {Type: "weapon"},
	"Iron Sword":    {Type: "weapon"},
	"Dagger":        {Type: "weapon"},
	"Shield":        {Type: "armor"},
	"Torch":         {Type: "utility"},
	"Rope":          {Type: "utility"},
	"Loaf of Bread": {Type: "consumable", HPGain: 2},
	"Bandage":       {Type: "consumable", HPGain: 3},
	"Healing Herbs": {Type: "consumable", HPGain: 4},
	"Beer Keg":      {Type: "quest"},
}

// aliases maps loose player phrasing to canonical item names.
var aliases = map[string]string{
	"gold coins":   "Gold Coin",
	"gold coin":    "Gold Coin",
	"coins":        "Gold Coin",
	"coin":         "Gold Coin",
	"bread":        "Loaf of Bread",
	"loaf":         "Loaf of Bread",
	"herbs":        "Healing Herbs",
	"keg":          "Beer Keg",
	"beer":         "Beer Keg",
	"better sword": "Iron Sword",
	"sword":        "Iron Sword", // in a shop context this means the better one
}

// getItem performs a case-insensitive lookup and returns the canonical name.
func getItem(name string) (string, ItemDef, bool) {
	for key, def := range itemsDB {
		if strings.EqualFold(key, name) {
			return key, def, true
		}
	}
	return "", ItemDef{}, false
}

// normalizeItemName resolves aliases, canonical names, and trivial plurals.
// Returns "" when the name matches nothing the game knows about.
func normalizeItemName(name string) string {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return ""
	}
	if alias, ok := aliases[strings.ToLower(raw)]; ok {
		return alias
	}
	if key, _, ok := getItem(raw); ok {
		return key
	}
	if strings.HasSuffix(strings.ToLower(raw), "s") {
		if key, _, ok := getItem(raw[:len(raw)-1]); ok {
			return key
		}
	}
	return ""
}
