// Package tui is the terminal front end for the blackjack engine. It only
// reads engine state and forwards the player's intents; all rules live in
// the game package.
package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/muesli/termenv"
)

const sidebarWidth = 26

// Options configures the presentation of a TUIModel
type Options struct {
	Theme   string
	NoColor bool
	// Output is the terminal the renderer inspects for colour support.
	// Defaults to os.Stdout.
	Output io.Writer
	// Stats, when set, is shown in the sidebar
	Stats *statistics.Collector
}

// TUIModel is the Bubble Tea model for a blackjack session
type TUIModel struct {
	engine    *game.Engine
	logger    *log.Logger
	formatter *game.EventFormatter
	stats     *statistics.Collector
	styles    Styles

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	gameLog  []string
	status   string
	err      error
	quitting bool

	// Dimensions
	width       int
	height      int
	initialized bool
}

// NewTUIModel creates a model driving engine. The model subscribes to the
// engine's event bus to fill its round log.
func NewTUIModel(engine *game.Engine, logger *log.Logger, opts Options) *TUIModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	renderer := lipgloss.NewRenderer(opts.Output)
	if opts.NoColor {
		renderer.SetColorProfile(termenv.Ascii)
	}

	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet amount"
	ti.CharLimit = 7
	ti.Width = 12
	ti.Prompt = "$ "
	ti.PromptStyle = renderer.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.Focus()

	m := &TUIModel{
		engine:      engine,
		logger:      logger.WithPrefix("tui"),
		formatter:   game.NewEventFormatter(game.FormattingOptions{}),
		stats:       opts.Stats,
		styles:      NewStyles(renderer, opts.Theme),
		logViewport: vp,
		betInput:    ti,
		gameLog:     []string{},
	}

	engine.EventBus().Subscribe(game.EventSubscriberFunc(m.onEvent))

	m.AddLogEntry(fmt.Sprintf("Welcome to the table, %s. You have $%d.", engine.PlayerName(), engine.Balance()))
	if !engine.CanBet() {
		m.AddLogEntry("You have no money to bet.")
	}
	return m
}

func (m *TUIModel) onEvent(event game.GameEvent) {
	if line := m.formatter.Format(event); line != "" {
		m.AddLogEntry(line)
	}
}

// Err returns the fatal error that ended the session, if any
func (m *TUIModel) Err() error {
	return m.err
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.engine.State() == game.AwaitingBet {
		var cmd tea.Cmd
		m.betInput, cmd = m.betInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *TUIModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m.quit()
	case "up":
		m.logViewport.ScrollUp(1)
		return m, nil
	case "down":
		m.logViewport.ScrollDown(1)
		return m, nil
	case "pgup":
		m.logViewport.HalfPageUp()
		return m, nil
	case "pgdown":
		m.logViewport.HalfPageDown()
		return m, nil
	case "home":
		m.logViewport.GotoTop()
		return m, nil
	case "end":
		m.logViewport.GotoBottom()
		return m, nil
	}

	switch m.engine.State() {
	case game.AwaitingBet:
		return m.handleBetKey(msg)
	case game.PlayerTurn:
		switch msg.String() {
		case "h":
			return m.hit()
		case "s":
			return m.stand()
		}
	case game.Resolved:
		switch msg.String() {
		case "enter", " ", "n":
			return m.playAgain()
		}
	}
	return m, nil
}

func (m *TUIModel) handleBetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.engine.CanBet() {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m.placeBet()
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m *TUIModel) placeBet() (tea.Model, tea.Cmd) {
	input := m.betInput.Value()
	m.betInput.SetValue("")

	err := m.engine.PlaceBetInput(input)
	switch {
	case err == nil:
		m.status = ""
		return m, nil
	case errors.Is(err, game.ErrInvalidBet):
		m.logger.Debug("Rejected bet", "input", input, "error", err)
		m.status = fmt.Sprintf("Enter a whole number from 1 to %d", m.engine.Balance())
		return m, nil
	default:
		return m.fail(err)
	}
}

func (m *TUIModel) hit() (tea.Model, tea.Cmd) {
	if _, err := m.engine.Hit(); err != nil {
		return m.fail(err)
	}
	return m, nil
}

func (m *TUIModel) stand() (tea.Model, tea.Cmd) {
	if _, err := m.engine.Stand(); err != nil {
		return m.fail(err)
	}
	return m, nil
}

func (m *TUIModel) playAgain() (tea.Model, tea.Cmd) {
	if _, err := m.engine.PlayAgain(); err != nil {
		return m.fail(err)
	}
	m.betInput.SetValue("")
	if !m.engine.CanBet() {
		m.AddLogEntry("You are out of money. Game over.")
	}
	return m, nil
}

// fail handles an engine error. Wrong-state intents are ignored; anything
// else ends the session.
func (m *TUIModel) fail(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, game.ErrWrongState) {
		m.logger.Debug("Ignoring intent", "error", err)
		return m, nil
	}

	m.logger.Error("Fatal engine error", "error", err, "state", m.engine.State())
	m.err = err
	return m.quit()
}

func (m *TUIModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}

	// Don't render until we have valid dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := m.styles.Header.Render("Blackjack")

	tableContent := m.renderTablePane()
	tableWidth := max(m.width-sidebarWidth-4, 1)
	tablePane := m.styles.FocusPane.Width(tableWidth).Render(tableContent)

	sidebarPane := m.styles.Pane.
		Width(sidebarWidth).
		Height(max(lipgloss.Height(tablePane)-2, 1)).
		Render(m.renderSidebarPane())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, sidebarPane)

	logWidth := max(m.width-2, 1)
	logHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(topRow)-2, 1)
	m.logViewport.Width = logWidth
	m.logViewport.Height = logHeight

	// On first proper sizing, jump to the newest entries
	if !m.initialized && logWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logPane := m.styles.Pane.
		Width(logWidth).
		Height(logHeight).
		Render(m.logViewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, topRow, logPane)
}

// renderTablePane renders both hands and the prompt for the current state
func (m *TUIModel) renderTablePane() string {
	var content strings.Builder

	state := m.engine.State()
	if state == game.AwaitingBet {
		content.WriteString(m.styles.HandLabel.Render("Dealer:"))
		content.WriteString("\n")
		content.WriteString(m.styles.HandLabel.Render(m.engine.PlayerName() + ":"))
		content.WriteString("\n\n")
		content.WriteString(m.renderBetPrompt())
		return content.String()
	}

	content.WriteString(m.styles.HandLabel.Render("Dealer:"))
	content.WriteString(" ")
	content.WriteString(m.renderDealerHand())
	content.WriteString("\n")
	content.WriteString(m.styles.HandLabel.Render(m.engine.PlayerName() + ":"))
	content.WriteString(" ")
	content.WriteString(fmt.Sprintf("%s (%d)", m.formatCards(m.engine.PlayerHand()), m.engine.PlayerTotal()))
	content.WriteString("\n\n")

	switch state {
	case game.PlayerTurn:
		content.WriteString(m.styles.Actions.Render("[h] hit  [s] stand"))
	case game.Resolved:
		content.WriteString(m.renderOutcome())
		content.WriteString("\n")
		content.WriteString(m.styles.Actions.Render("[enter] play again"))
	}
	content.WriteString("\n")
	content.WriteString(m.styles.Help.Render("↑↓ scroll log • q to quit"))

	return content.String()
}

func (m *TUIModel) renderBetPrompt() string {
	var content strings.Builder

	if !m.engine.CanBet() {
		content.WriteString(m.styles.Error.Render("You are out of money. Game over."))
		content.WriteString("\n")
		content.WriteString(m.styles.Help.Render("q to quit"))
		return content.String()
	}

	content.WriteString(m.styles.Info.Render(fmt.Sprintf("Place your bet (1-%d):", m.engine.Balance())))
	content.WriteString("\n")
	content.WriteString(m.betInput.View())
	content.WriteString("\n")
	if m.status != "" {
		content.WriteString(m.styles.Error.Render(m.status))
		content.WriteString("\n")
	}
	content.WriteString(m.styles.Help.Render("enter to deal • q to quit"))
	return content.String()
}

// renderDealerHand shows the hole card face down while the player acts
func (m *TUIModel) renderDealerHand() string {
	cards := m.engine.DealerHand()
	if m.engine.DealerHoleHidden() && len(cards) > 0 {
		up := m.formatCards(cards[1:])
		return "[" + m.styles.HiddenCard.Render("??") + " " + strings.TrimPrefix(up, "[")
	}
	return fmt.Sprintf("%s (%d)", m.formatCards(cards), m.engine.DealerTotal())
}

func (m *TUIModel) renderOutcome() string {
	outcome := m.engine.Outcome()
	message := outcome.Message()
	if m.engine.Natural() {
		message = "Blackjack! " + message
	}

	switch outcome {
	case game.Win:
		return m.styles.Success.Render(message)
	case game.Lose:
		return m.styles.Error.Render(message)
	default:
		return m.styles.Warning.Render(message)
	}
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane() string {
	var content strings.Builder

	content.WriteString(m.styles.Warning.Render(fmt.Sprintf("Balance: $%d", m.engine.Balance())))
	content.WriteString("\n")
	if bet := m.engine.Bet(); bet > 0 {
		content.WriteString(m.styles.Warning.Render(fmt.Sprintf("Bet: $%d", bet)))
		content.WriteString("\n")
	}
	content.WriteString(m.styles.Info.Render(fmt.Sprintf("Round: %d", m.engine.Round())))
	content.WriteString("\n")

	if m.stats != nil {
		s := m.stats.Statistics()
		content.WriteString("\n")
		content.WriteString(m.styles.HandLabel.Render("Session"))
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("W/L/D: %d/%d/%d\n", s.Wins, s.Losses, s.Draws))
		content.WriteString(fmt.Sprintf("Blackjacks: %d\n", s.Naturals))
		content.WriteString(fmt.Sprintf("Net: %+d\n", s.Net()))
	}

	return content.String()
}

// formatCards formats cards with colors
func (m *TUIModel) formatCards(cards []deck.Card) string {
	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			formatted[i] = m.styles.RedCard.Render(card.String())
		} else {
			formatted[i] = m.styles.BlackCard.Render(card.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// AddLogEntry adds an entry to the round log and scrolls to it
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// Log returns a copy of the round log
func (m *TUIModel) Log() []string {
	result := make([]string, len(m.gameLog))
	copy(result, m.gameLog)
	return result
}
