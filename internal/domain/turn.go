// Package domain contains core domain types shared by the AIdventure client
// driver and the narrator dev server.
package domain

// TurnRequest is the wire payload for submitting one player turn.
type TurnRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// TurnResult is the narrator's reply to a submitted turn: the narration for
// this exchange, suggested follow-up commands, the end-of-game flag, and the
// full game-state snapshot.
type TurnResult struct {
	Narration string    `json:"narration"`
	Choices   []string  `json:"choices"`
	EndGame   bool      `json:"end_game"`
	State     *Snapshot `json:"state"`
}

// Exchange is one resolved turn: the player's command paired with the
// narration it produced.
type Exchange struct {
	Player    string `json:"player"`
	Narration string `json:"gm"`
}
