package narrator

import (
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ImportantSeal/aidventure/internal/domain"
)

var defaultChoices = []string{"LOOK around", "Go to cave", "Return to tavern"}

var lookNarration = map[string]string{
	"Village":    "The village square bustles around you. The tavern keeper still grumbles about the beer keg the goblins stole.",
	"Market":     "Stalls crowd the small village market, smelling of bread and rope oil.",
	"Tavern":     "The tavern is gloomy and quiet; the tap runs dry without its keg.",
	"Cave":       "The cave mouth breathes cold air. Goblin tracks are everywhere in the mud.",
	"Blacksmith": "The forge glows and rings. Racks of plain but honest steel line the walls.",
}

var talkNarration = map[string]string{
	"Village":    "A villager points north. \"The goblins dragged that keg toward the cave, if you're asking.\"",
	"Market":     "A merchant eyes your coin purse. \"Buying, or just browsing?\"",
	"Tavern":     "The tavern keeper sighs. \"Bring back my keg and the first round is yours forever.\"",
	"Cave":       "Your voice echoes off wet stone. Something skitters deeper in.",
	"Blacksmith": "The blacksmith wipes his hands. \"Steel for coin. Ask about the sword if you're going after goblins.\"",
}

var marketCatalog = map[string]int{
	"Loaf of Bread": 2,
	"Torch":         1,
	"Rope":          2,
	"Bandage":       2,
	"Healing Herbs": 3,
}

var blacksmithCatalog = map[string]int{
	"Iron Sword": 10,
	"Shield":     8,
	"Dagger":     4,
}

// Engine resolves player turns against a session's game state. It is the
// rule-based stand-in for the original model-backed game master.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine with a time-seeded dice roller.
func NewEngine() *Engine {
	return NewEngineWithSeed(time.Now().UnixNano())
}

// NewEngineWithSeed creates an engine with deterministic dice, for tests.
func NewEngineWithSeed(seed int64) *Engine {
	return &Engine{rng: rand.New(rand.NewSource(seed))}
}

func (e *Engine) d20() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(20) + 1
}

// Resolve plays one turn: it mutates state in place and returns the turn
// result carrying the narration, suggested choices, end-of-game flag, and the
// full updated snapshot.
func (e *Engine) Resolve(state *domain.Snapshot, text string) *domain.TurnResult {
	intent := parseIntent(text)

	if ok, reason := sanityCheck(state, intent); !ok {
		return finish(state, text, reason+" Try something else.", defaultChoices, state.GameOver)
	}

	moveText := maybeMove(state, intent)

	if shopText := tryShopPurchase(state, intent); shopText != "" {
		narration := join(moveText, shopText)
		return finish(state, text, narration, shopChoices(state), false)
	}

	var narration string
	endGame := false

	switch intent.Action {
	case ActionLook:
		narration = lookNarration[state.World.Location]
	case ActionTalk:
		narration = talkNarration[state.World.Location]
	case ActionAttack:
		narration, endGame = e.resolveAttack(state)
	case ActionUse:
		narration = resolveUse(state, intent.Item)
	case ActionGive:
		narration, endGame = resolveGive(state, intent.Item)
	case ActionRun:
		narration = "You fall back to safer ground."
		if state.World.Location == "Cave" {
			state.World.Location = "Village"
			narration = "You scramble out of the cave and back to the village."
		}
	case ActionWait:
		narration = "Time passes. The light shifts."
		if state.World.Location == "Tavern" || state.World.Location == "Village" {
			before := state.Player.HP
			if applyHealthChange(state, 1) > before {
				narration = "You rest a while and feel a little better."
			}
		}
	case ActionMove:
		if moveText == "" {
			narration = "You wander for a bit but end up where you started."
		}
	default:
		narration = "You consider your options. The goblin cave lies north; the village has a market, a tavern, and a blacksmith."
	}

	narration = join(moveText, narration)
	if narration == "" {
		narration = "Nothing much comes of it."
	}
	return finish(state, text, narration, defaultChoices, endGame)
}

// resolveAttack plays out a goblin skirmish in the cave; elsewhere there is
// nothing to fight.
func (e *Engine) resolveAttack(state *domain.Snapshot) (string, bool) {
	if state.World.Location != "Cave" {
		return "You swing at the air. Whatever you were fighting isn't here.", false
	}
	if state.Quest != nil && state.Quest.Status != "in_progress" {
		return "The cave is quiet now. The goblins have scattered.", false
	}

	roll := e.d20()
	if inInventory(state, "Iron Sword", 1) {
		roll += 3
	}
	if roll >= 10 {
		addItem(state, "Beer Keg", 1)
		if state.Quest != nil {
			state.Quest.Status = "keg_recovered"
		}
		return "You drive the goblins off and haul their loot into the light: the tavern's stolen beer keg!", false
	}

	applyHealthChange(state, -2)
	if state.Player.HP <= 0 {
		state.GameOver = true
		if state.Quest != nil {
			state.Quest.Status = "failed"
		}
		return "A goblin club catches you across the temple. The cave goes dark, and so do you.", true
	}
	return "The goblins fight you off, jabbing and shrieking. You take a beating and regroup.", false
}

func resolveUse(state *domain.Snapshot, item string) string {
	key, def, ok := getItem(item)
	if !ok {
		return "You fumble around but can't make use of that."
	}
	if def.Type == "consumable" {
		if !removeItem(state, key, 1) {
			return "You don't have " + key + "."
		}
		if eff := applyItemEffect(state, key); eff != "" {
			return eff
		}
		return "You use the " + key + "."
	}
	if key == "Torch" {
		return "You light the torch. Shadows pull back around you."
	}
	return "You ready the " + key + "."
}

// resolveGive handles quest delivery: returning the keg to the tavern ends the
// adventure.
func resolveGive(state *domain.Snapshot, item string) (string, bool) {
	if item != "Beer Keg" {
		return "Nobody here wants that.", false
	}
	if !inInventory(state, "Beer Keg", 1) {
		return "You don't have the beer keg.", false
	}
	if state.World.Location != "Tavern" {
		return "The keg belongs at the tavern. Best carry it there first.", false
	}
	removeItem(state, "Beer Keg", 1)
	if state.Quest != nil {
		state.Quest.Status = "done"
	}
	state.GameOver = true
	return "The tavern keeper whoops and taps the keg on the spot. The whole village drinks to your name. Your quest is complete!", true
}

// maybeMove updates the location when the intent asks for a clear transition
// and returns the travel narration.
func maybeMove(state *domain.Snapshot, intent Intent) string {
	if intent.Action != ActionMove {
		return ""
	}
	t := intent.FreeText
	switch {
	case strings.Contains(t, "blacksmith") || strings.Contains(t, "smith") || strings.Contains(t, "forge"):
		state.World.Location = "Blacksmith"
		return "You head to the blacksmith's forge."
	case strings.Contains(t, "market"):
		state.World.Location = "Market"
		return "You head to the small village market."
	case strings.Contains(t, "tavern"):
		state.World.Location = "Tavern"
		return "You return to the tavern."
	case strings.Contains(t, "cave") || strings.Contains(t, "north"):
		state.World.Location = "Cave"
		return "You make your way toward the goblin cave."
	case strings.Contains(t, "village"):
		state.World.Location = "Village"
		return "You are back in the village square."
	}
	return ""
}

// tryShopPurchase handles price queries and purchases at the market, village
// square, and blacksmith. Returns "" when the turn is not shop business.
func tryShopPurchase(state *domain.Snapshot, intent Intent) string {
	loc := state.World.Location
	if loc != "Blacksmith" && loc != "Market" && loc != "Village" {
		return ""
	}

	catalog := marketCatalog
	if loc == "Blacksmith" {
		catalog = blacksmithCatalog
	}

	// A price or stock question without a purchase gets an informative reply
	// with no payment and no inventory change.
	hintWords := []string{"price", "cost", "sell", "weapon", "sword", "shield", "dagger", "torch", "rope", "bread"}
	if intent.Action != ActionBuy {
		for _, w := range hintWords {
			if strings.Contains(intent.FreeText, w) {
				return listOffers(loc, catalog)
			}
		}
		return ""
	}

	asked := intent.Item
	var wanted []priced
	if asked == "" || strings.Contains(intent.FreeText, "supplies") {
		// "supplies": the two cheapest things on offer.
		wanted = cheapest(catalog, 2)
		if len(wanted) == 0 {
			return "There aren't any suitable supplies available to buy here."
		}
	} else {
		price, ok := catalog[asked]
		if !ok {
			if _, _, known := getItem(asked); known {
				return "That item isn't sold at this location."
			}
			return "That item isn't available here."
		}
		wanted = []priced{{asked, price}}
	}

	total := 0
	names := make([]string, 0, len(wanted))
	for _, w := range wanted {
		total += w.price
		names = append(names, w.name)
	}
	if countCoins(state) < total {
		return "You don't have enough coins to buy " + strings.Join(names, ", ") + ". Total cost is " + strconv.Itoa(total) + "."
	}
	if !removeCoins(state, total) {
		return "Purchase failed: not enough Gold Coins."
	}
	for _, w := range wanted {
		addItem(state, w.name, 1)
	}
	return "You buy " + strings.Join(names, ", ") + " for " + strconv.Itoa(total) + " Gold Coin(s)."
}

type priced struct {
	name  string
	price int
}

func cheapest(catalog map[string]int, n int) []priced {
	all := make([]priced, 0, len(catalog))
	for name, price := range catalog {
		all = append(all, priced{name, price})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].price != all[j].price {
			return all[i].price < all[j].price
		}
		return all[i].name < all[j].name
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

func listOffers(loc string, catalog map[string]int) string {
	offers := make([]string, 0, len(catalog))
	for _, p := range cheapest(catalog, len(catalog)) {
		offers = append(offers, p.name+" for "+strconv.Itoa(p.price)+" coins")
	}
	if loc == "Blacksmith" {
		return "The blacksmith shows you his wares: " + strings.Join(offers, ", ") + "."
	}
	return "Stalls around you offer " + strings.Join(offers, ", ") + "."
}

func shopChoices(state *domain.Snapshot) []string {
	if state.World.Location == "Blacksmith" {
		return []string{"Buy Dagger", "Buy Iron Sword", "Buy Shield"}
	}
	return []string{"Buy Torch", "Buy Rope", "Buy Loaf of Bread"}
}

// finish advances the turn counter, appends to the session log, and assembles
// the wire result around the updated snapshot.
func finish(state *domain.Snapshot, playerText, narration string, choices []string, endGame bool) *domain.TurnResult {
	state.Turn++
	state.Log = append(state.Log, domain.Exchange{Player: playerText, Narration: narration})
	if endGame {
		state.GameOver = true
	}
	return &domain.TurnResult{
		Narration: strings.TrimSpace(narration),
		Choices:   append([]string(nil), choices...),
		EndGame:   endGame,
		State:     state,
	}
}

func join(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " " + b
}
