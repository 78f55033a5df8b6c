// AIdventure terminal client: renders the session history, current turn,
// choices, stats, and map published by the session core, and feeds player
// commands back into it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/ImportantSeal/aidventure/internal/config"
	"github.com/ImportantSeal/aidventure/internal/reveal"
	"github.com/ImportantSeal/aidventure/internal/session"
	"github.com/ImportantSeal/aidventure/internal/tiles"
	"github.com/ImportantSeal/aidventure/internal/transport"
	"github.com/joho/godotenv"
	runewidth "github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

func main() {
	// Termbox owns the terminal, so logs are discarded rather than scribbled
	// over the game screen.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	var client transport.Client
	switch cfg.Transport {
	case config.TransportWS:
		ws := transport.NewWS(cfg.TurnSocketURL(), cfg.RequestTimeout, logger)
		defer func() { _ = ws.Close() }()
		client = ws
	default:
		client = transport.NewHTTP(cfg.NarratorURL, cfg.RequestTimeout, logger)
	}

	sess, err := session.New(client, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create session:", err)
		os.Exit(1)
	}

	if err := termbox.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init terminal:", err)
		os.Exit(1)
	}
	defer termbox.Close()

	u := &ui{
		sess:   sess,
		redraw: make(chan struct{}, 1),
	}
	u.revealer = reveal.New(cfg.RevealInterval, func(string) { u.requestRedraw() })
	sess.AttachReveal(u.revealer)
	defer u.revealer.Stop()

	u.run()
}

// ui holds the terminal client's presentation state. Everything it renders
// comes from the session's published view; the ui itself owns only the input
// line and the status message.
type ui struct {
	sess     *session.Session
	revealer *reveal.Controller
	redraw   chan struct{}

	mu     sync.Mutex
	input  []rune
	status string
}

func (u *ui) requestRedraw() {
	select {
	case u.redraw <- struct{}{}:
	default:
	}
}

func (u *ui) setStatus(s string) {
	u.mu.Lock()
	u.status = s
	u.mu.Unlock()
	u.requestRedraw()
}

// submit runs a turn in the background so the event loop stays responsive.
// On failure the player's text is put back in the input line for retry.
func (u *ui) submit(text string) {
	go func() {
		err := u.sess.Send(context.Background(), text)
		switch {
		case errors.Is(err, session.ErrTurnInFlight):
			u.setStatus("The narrator is still answering your last command.")
		case err != nil:
			u.mu.Lock()
			u.input = []rune(text)
			u.mu.Unlock()
			u.setStatus("The narrator is unreachable. Press Enter to try again.")
		default:
			u.setStatus("")
		}
	}()
}

func (u *ui) run() {
	// Bootstrap turn: the scripted opening command fetches the first scene.
	u.setStatus("Contacting the narrator...")
	u.submit(session.OpeningCommand)

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	u.draw()
	for {
		select {
		case <-u.redraw:
			u.draw()
		case ev := <-events:
			if !u.handleEvent(ev) {
				return
			}
			u.draw()
		}
	}
}

// handleEvent processes one terminal event; returns false to quit.
func (u *ui) handleEvent(ev termbox.Event) bool {
	if ev.Type != termbox.EventKey {
		return true
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return false
	case termbox.KeyEnter:
		text := strings.TrimSpace(string(u.input))
		u.input = u.input[:0]
		if text != "" {
			u.submit(text)
		}
	case termbox.KeyBackspace, termbox.KeyBackspace2:
		if len(u.input) > 0 {
			u.input = u.input[:len(u.input)-1]
		}
	case termbox.KeySpace:
		u.input = append(u.input, ' ')
	default:
		if ev.Ch == 0 {
			return true
		}
		// With an empty input line, digits pick a suggested choice.
		if len(u.input) == 0 && ev.Ch >= '1' && ev.Ch <= '9' {
			choices := u.sess.Choices()
			if idx := int(ev.Ch - '1'); idx < len(choices) {
				u.submit(choices[idx])
				return true
			}
		}
		u.input = append(u.input, ev.Ch)
	}
	return true
}

const (
	tileWidth     = 7
	mapPanelWidth = tiles.Cols*tileWidth + 1
)

func (u *ui) draw() {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return
	}
	w, h := termbox.Size()
	textWidth := w - mapPanelWidth - 3
	drawMap := true
	if textWidth < 20 {
		textWidth = w - 2
		drawMap = false
	}

	title := "AIdventure"
	if u.sess.Busy() {
		title += "  [narrator is thinking...]"
	}
	if u.sess.Over() {
		title += "  [THE END]"
	}
	drawText(1, 0, termbox.ColorYellow|termbox.AttrBold, title)

	u.drawConversation(1, 2, textWidth, h-6)
	if drawMap {
		u.drawMap(w-mapPanelWidth-1, 2)
	}
	u.drawStats(1, h-5, w-2)
	u.drawChoices(1, h-4, w-2)

	u.mu.Lock()
	input := string(u.input)
	status := u.status
	u.mu.Unlock()

	drawText(1, h-3, termbox.ColorRed, status)
	drawText(1, h-2, termbox.ColorDefault|termbox.AttrBold, "> "+input+"_")

	termbox.Flush()
}

type line struct {
	text string
	fg   termbox.Attribute
}

// drawConversation renders the archived history followed by the current turn,
// bottom-aligned so the newest text stays visible above the input area.
func (u *ui) drawConversation(x, top, width, bottom int) {
	var lines []line

	for _, ex := range u.sess.History() {
		lines = appendWrapped(lines, "You: "+ex.Player, width, termbox.ColorCyan)
		lines = appendWrapped(lines, "GM: "+ex.Narration, width, termbox.ColorDefault)
		lines = append(lines, line{})
	}
	if cur, ok := u.sess.Current(); ok {
		lines = appendWrapped(lines, "You: "+cur.Player, width, termbox.ColorCyan|termbox.AttrBold)
		lines = appendWrapped(lines, "GM: "+u.revealer.Displayed(), width, termbox.ColorGreen)
	}

	if avail := bottom - top; len(lines) > avail {
		lines = lines[len(lines)-avail:]
	}
	y := top
	for _, l := range lines {
		drawText(x, y, l.fg, l.text)
		y++
	}
}

// drawMap renders the fixed tile grid with the player's location highlighted.
// Unknown location tokens leave the player marker off the map.
func (u *ui) drawMap(x, y int) {
	player, placed := tiles.Lookup(u.sess.Stats().Location())

	for row := 0; row < tiles.Rows; row++ {
		for col := 0; col < tiles.Cols; col++ {
			c := tiles.Coord{Col: col, Row: row}
			cellX := x + col*tileWidth

			label := tiles.NameAt(c)
			fg := termbox.ColorDefault
			if label == "" {
				label = "."
			} else {
				fg = termbox.ColorBlue
				label = clip(label, tileWidth-2)
			}
			if placed && c == player {
				label = "@" + label
				fg = termbox.ColorYellow | termbox.AttrBold
			}
			drawText(cellX, y+row, fg, label)
		}
	}
	if !placed {
		drawText(x, y+tiles.Rows+1, termbox.ColorDefault, "(location unknown)")
	}
}

func (u *ui) drawStats(x, y, width int) {
	st := u.sess.Stats()
	parts := []string{"HP " + st.Health().String()}
	if loc := st.Location(); loc != "" {
		parts = append(parts, loc)
	}
	for _, it := range st.Inventory() {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Count))
	}
	drawText(x, y, termbox.ColorMagenta, clip(strings.Join(parts, " | "), width))
}

func (u *ui) drawChoices(x, y, width int) {
	choices := u.sess.Choices()
	if len(choices) == 0 {
		return
	}
	parts := make([]string, 0, len(choices))
	for i, c := range choices {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, c))
	}
	drawText(x, y, termbox.ColorBlue, clip(strings.Join(parts, "  "), width))
}

func drawText(x, y int, fg termbox.Attribute, text string) {
	for _, r := range text {
		termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		x += runewidth.RuneWidth(r)
	}
}

// appendWrapped word-wraps text to width and appends the lines.
func appendWrapped(lines []line, text string, width int, fg termbox.Attribute) []line {
	if width <= 0 {
		return lines
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return append(lines, line{})
	}
	cur := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) > width {
			lines = append(lines, line{text: cur, fg: fg})
			cur = word
			continue
		}
		cur += " " + word
	}
	return append(lines, line{text: cur, fg: fg})
}

func clip(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
