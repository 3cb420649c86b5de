// Package tui renders a live spectator view of the table with Bubble Tea
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"pokerarena/internal/arena"
	"pokerarena/internal/deck"
	"pokerarena/internal/game"
)

const maxLogLines = 500

// Model is the Bubble Tea model for the spectator view
type Model struct {
	events <-chan arena.Event
	logger *log.Logger

	state       game.GameState
	haveState   bool
	gameLog     []string
	logViewport viewport.Model

	width       int
	height      int
	initialized bool
	finished    bool
	quitting    bool
}

type eventMsg struct {
	event arena.Event
}

type streamClosedMsg struct{}

// New creates a spectator model consuming the given event stream
func New(events <-chan arena.Event, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	return &Model{
		events:      events,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
	}
}

// Init starts listening for table events
func (m *Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg{event}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 4
		m.logViewport.Height = max(msg.Height-16, 3)
		m.initialized = true
		m.refreshLog()
		return m, nil

	case eventMsg:
		m.apply(msg.event)
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

func (m *Model) apply(event arena.Event) {
	m.state = event.State
	m.haveState = true

	switch event.Type {
	case arena.EventHandStarted:
		m.appendLog(fmt.Sprintf("--- Hand #%d ---", event.State.HandNumber))
	case arena.EventActionApplied:
		if event.Action != nil {
			m.appendLog(formatAction(event.State, *event.Action))
		}
	case arena.EventHandEnded:
		for _, w := range event.State.Winners {
			line := fmt.Sprintf("%s wins %d", playerName(event.State, w.PlayerID), w.Amount)
			if w.Hand != nil {
				line += fmt.Sprintf(" with %s", w.Hand.Rank)
			}
			m.appendLog(line)
		}
	case arena.EventGameOver:
		if winner := game.GameWinner(event.State); winner != nil {
			m.appendLog(fmt.Sprintf("GAME OVER: %s wins with %d chips", winner.Name, winner.Chips))
		} else {
			m.appendLog("GAME OVER")
		}
	}
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	if len(m.gameLog) > maxLogLines {
		m.gameLog = m.gameLog[len(m.gameLog)-maxLogLines:]
	}
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logViewport.SetContent(logStyle.Render(strings.Join(m.gameLog, "\n")))
	m.logViewport.GotoBottom()
}

func formatAction(state game.GameState, action game.PlayerAction) string {
	line := fmt.Sprintf("%s %s", playerName(state, action.PlayerID), action.Type)
	if action.Amount > 0 {
		line += fmt.Sprintf(" %d", action.Amount)
	}
	if action.Reasoning != "" {
		line += fmt.Sprintf("  (%s)", action.Reasoning)
	}
	return line
}

func playerName(state game.GameState, playerID string) string {
	if idx := state.PlayerIndex(playerID); idx != -1 && state.Players[idx].Name != "" {
		return state.Players[idx].Name
	}
	return playerID
}

// View renders the table
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.haveState {
		return helpStyle.Render("waiting for the first hand...")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("LLM POKER ARENA"))
	b.WriteString("\n")
	b.WriteString(handInfoStyle.Render(fmt.Sprintf(
		"Hand #%d  %s  Pot: %d", m.state.HandNumber, strings.ToUpper(m.state.Phase.String()), m.state.TotalPot())))
	b.WriteString("\n\n")

	b.WriteString("Board: ")
	b.WriteString(renderCards(m.state.CommunityCards))
	b.WriteString("\n\n")

	for i := range m.state.Players {
		b.WriteString(renderPlayer(&m.state.Players[i]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.logViewport.View())
	b.WriteString("\n")
	if m.finished {
		b.WriteString(helpStyle.Render("game finished - q to exit"))
	} else {
		b.WriteString(helpStyle.Render("q to quit"))
	}
	return b.String()
}

func renderPlayer(p *game.Player) string {
	marker := "  "
	if p.IsDealer {
		marker = "D "
	}

	style := playerStyle
	switch {
	case p.IsTurn:
		style = turnStyle
	case p.Status == game.StatusFolded || p.Status == game.StatusOut:
		style = foldedStyle
	}

	line := fmt.Sprintf("%s%-12s %5d chips  %-7s", marker, p.Name, p.Chips, p.Status)
	if p.CurrentBet > 0 {
		line += fmt.Sprintf("  bet %d", p.CurrentBet)
	}
	rendered := style.Render(line)
	if len(p.HoleCards) > 0 {
		rendered += "  " + renderCards(p.HoleCards)
	}
	return rendered
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return helpStyle.Render("--")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
			parts[i] = redCardStyle.Render(c.String())
		} else {
			parts[i] = blackCardStyle.Render(c.String())
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
}
