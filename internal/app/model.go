// Package app contains the demo host model that embeds the overlay portal.
package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/modalstack/internal/config"
	"github.com/riordanpawley/modalstack/internal/types"
	"github.com/riordanpawley/modalstack/internal/ui/overlay"
	"github.com/riordanpawley/modalstack/internal/ui/statusbar"
	"github.com/riordanpawley/modalstack/internal/ui/styles"
	"github.com/riordanpawley/modalstack/internal/ui/toast"
)

const toastTTL = 3 * time.Second

type tickMsg time.Time

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type event struct {
	at   time.Time
	text string
}

// Model is the host screen. It hands every message to the portal first and
// only handles what the portal leaves alone.
type Model struct {
	manager *overlay.Manager
	portal  *overlay.Portal

	config *config.Config
	styles *styles.Styles
	keys   KeyMap
	help   help.Model

	notes          []string
	events         []event
	toasts         []types.Toast
	pendingDiscard string

	width  int
	height int

	logger *slog.Logger
}

// New creates the host model around a manager and its mounted portal
func New(cfg *config.Config, manager *overlay.Manager, portal *overlay.Portal, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		manager: manager,
		portal:  portal,
		config:  cfg,
		styles:  styles.New(),
		keys:    DefaultKeyMap(),
		help:    help.New(),
		logger:  logger.With("component", "app"),
	}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	return m.portal.Init()
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	handled, cmd := m.portal.Update(msg)
	if handled {
		return m, cmd
	}
	cmds := []tea.Cmd{cmd}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case noteSavedMsg:
		m.notes = append(m.notes, msg.text)
		m.addEvent(fmt.Sprintf("saved note %q", msg.text))
		cmds = append(cmds, m.addToast(types.ToastSuccess, "Note saved"))

	case overlay.ConfirmSettledMsg:
		cmds = append(cmds, m.handleSettled(msg))

	case tickMsg:
		m.toasts = toast.Expire(m.toasts, time.Time(msg))
		if len(m.toasts) > 0 {
			cmds = append(cmds, tickEvery(time.Second))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Dialog):
		m.showAbout()
	case key.Matches(msg, m.keys.Drawer):
		m.showNoteDrawer()
	case key.Matches(msg, m.keys.Pinned):
		m.showPinned()
	case key.Matches(msg, m.keys.Help):
		m.showHelp()
	case key.Matches(msg, m.keys.Confirm):
		if len(m.notes) == 0 {
			return m.addToast(types.ToastWarning, "No notes to discard")
		}
		return m.confirmDiscard()
	}
	return nil
}

func (m *Model) handleSettled(msg overlay.ConfirmSettledMsg) tea.Cmd {
	if msg.ID != m.pendingDiscard {
		return nil
	}
	m.pendingDiscard = ""

	switch {
	case msg.Err != nil:
		m.logger.Error("discard failed", "error", msg.Err)
		m.addEvent("discard failed")
		return m.addToast(types.ToastError, msg.Err.Error())
	case msg.Confirmed:
		n := len(m.notes)
		m.notes = nil
		m.addEvent(fmt.Sprintf("discarded %d note(s)", n))
		return m.addToast(types.ToastSuccess, "Notes discarded")
	default:
		m.addEvent("kept the notes")
		return m.addToast(types.ToastInfo, "Notes kept")
	}
}

func (m *Model) addEvent(text string) {
	m.events = append(m.events, event{at: time.Now(), text: text})
	m.logger.Info(text)
}

// addToast shows a toast and starts the expiry tick if none is running
func (m *Model) addToast(level types.ToastLevel, message string) tea.Cmd {
	m.toasts = append(m.toasts, types.Toast{
		Level:   level,
		Message: message,
		Expires: time.Now().Add(toastTTL),
	})
	if len(m.toasts) == 1 {
		return tickEvery(time.Second)
	}
	return nil
}

// View renders the host screen and lets the portal draw the overlays on top
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.portal.Snapshot()
	top, _ := snap.Top()
	statusBar := statusbar.New(len(snap.Records), top.Kind, m.width, m.styles).Render()

	toastView := toast.New(m.styles).Render(m.toasts, m.width)

	available := m.height - lipgloss.Height(statusBar)
	if toastView != "" {
		available -= lipgloss.Height(toastView)
	}
	if available < 0 {
		available = 0
	}

	content := lipgloss.NewStyle().
		Width(m.width).
		Height(available).
		MaxHeight(available).
		Render(m.renderContent())

	parts := []string{content}
	if toastView != "" {
		parts = append(parts, toastView)
	}
	parts = append(parts, statusBar)

	return m.portal.View(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("modalstack"))
	b.WriteString("\n")

	if len(m.notes) == 0 {
		b.WriteString(m.styles.Muted.Render("No notes yet. Press w to write one."))
	} else {
		for _, n := range m.notes {
			b.WriteString(m.styles.Event.Render("• " + n))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n\n")

	// newest first so the oldest lines are the ones cut off
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		b.WriteString(m.styles.Event.Render(m.styles.EventTime.Render(e.at.Format("15:04:05")) + "  " + e.text))
		b.WriteString("\n")
	}

	return b.String()
}
