package narrator

import "strings"

// Action classifies what the player is trying to do.
type Action string

const (
	ActionLook   Action = "LOOK"
	ActionMove   Action = "MOVE"
	ActionTalk   Action = "TALK"
	ActionAttack Action = "ATTACK"
	ActionUse    Action = "USE_ITEM"
	ActionRun    Action = "RUN"
	ActionWait   Action = "WAIT"
	ActionBuy    Action = "BUY"
	ActionGive   Action = "GIVE_ITEM"
	ActionOther  Action = "OTHER"
)

// Intent is the parsed form of one player command.
type Intent struct {
	Action   Action
	Item     string // canonical item name, when one was recognized
	FreeText string // the original command, lowercased
}

var verbActions = []struct {
	verbs  []string
	action Action
}{
	{[]string{"buy", "purchase", "trade"}, ActionBuy},
	{[]string{"use", "drink", "eat", "apply"}, ActionUse},
	{[]string{"give", "return", "deliver", "hand"}, ActionGive},
	{[]string{"go", "head", "walk", "travel", "enter", "move", "sneak"}, ActionMove},
	{[]string{"look", "inspect", "search", "examine", "check", "start"}, ActionLook},
	{[]string{"talk", "speak", "ask", "chat", "greet"}, ActionTalk},
	{[]string{"attack", "fight", "hit", "strike", "kill", "slay"}, ActionAttack},
	{[]string{"run", "flee", "escape"}, ActionRun},
	{[]string{"wait", "rest", "sleep", "camp"}, ActionWait},
}

// parseIntent classifies a player command with keyword rules. The original
// narrator asked a model for this; the dev server keeps the same action
// taxonomy but resolves it deterministically.
func parseIntent(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	intent := Intent{Action: ActionOther, FreeText: lower}

	words := strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
	})

	for _, va := range verbActions {
		for _, verb := range va.verbs {
			for _, w := range words {
				if w == verb {
					intent.Action = va.action
					intent.Item = findItem(lower, verb)
					return intent
				}
			}
		}
	}

	// Bare destination names count as movement.
	for _, loc := range knownLocations {
		if strings.Contains(lower, strings.ToLower(loc)) {
			intent.Action = ActionMove
			return intent
		}
	}
	if strings.Contains(lower, "north") {
		intent.Action = ActionMove
	}
	return intent
}

// findItem scans the text after the verb for a recognizable item name.
func findItem(lower, verb string) string {
	rest := lower
	if idx := strings.Index(lower, verb); idx >= 0 {
		rest = lower[idx+len(verb):]
	}
	rest = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), "the "))
	rest = strings.TrimPrefix(rest, "a ")
	rest = strings.TrimPrefix(rest, "an ")
	if norm := normalizeItemName(rest); norm != "" {
		return norm
	}
	// Fall back to scanning the whole command for any known name or alias.
	for key := range itemsDB {
		if strings.Contains(lower, strings.ToLower(key)) {
			return key
		}
	}
	for alias, canonical := range aliases {
		if strings.Contains(lower, alias) {
			return canonical
		}
	}
	return ""
}
