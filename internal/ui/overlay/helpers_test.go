package overlay

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/modalstack/internal/types"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestManager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithLogger(discardLogger())}, opts...)
	m := NewManager(opts...)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newRecorder(t *testing.T) (*tracetest.SpanRecorder, Option) {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(testContext(t)) })
	return rec, WithTracer(tp.Tracer("test"))
}

// runCmd executes cmd and flattens batches into the messages they produce
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, runCmd(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func testRecord(id string) *Record {
	return &Record{
		ID:                 id,
		Kind:               types.KindDialog,
		Status:             types.StatusOpening,
		EscDismissible:     true,
		OutsideDismissible: true,
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// fakeContent records what it receives
type fakeContent struct {
	msgs    []tea.Msg
	editing bool
	regions []Region
	initMsg tea.Msg
}

func (p *fakeContent) Init() tea.Cmd {
	if p.initMsg == nil {
		return nil
	}
	msg := p.initMsg
	return func() tea.Msg { return msg }
}

func (p *fakeContent) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	p.msgs = append(p.msgs, msg)
	return p, nil
}

func (p *fakeContent) View() string { return "content" }

func (p *fakeContent) EditingText() bool { return p.editing }

func (p *fakeContent) Regions() []Region { return p.regions }
