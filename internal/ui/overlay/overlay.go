package overlay

import tea "github.com/charmbracelet/bubbletea"

// Overlay is content that knows its own title and size. Content that does
// not implement it is sized to its rendered view.
type Overlay interface {
	tea.Model
	Title() string
	Size() (width, height int)
}

// RegionProvider is content that owns areas beyond its own surface, such as
// an open dropdown. Rects are relative to the surface's top-left corner.
type RegionProvider interface {
	Regions() []Region
}

// busySetter is content that can show an in-flight dismissal
type busySetter interface {
	SetBusy(busy bool)
}

// Text is static content
type Text struct {
	body string
}

// NewText creates static text content
func NewText(body string) Text {
	return Text{body: body}
}

// Init implements tea.Model
func (t Text) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (t Text) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return t, nil
}

// View implements tea.Model
func (t Text) View() string {
	return t.body
}
