package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tidymark/internal/model"
	"tidymark/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// Picker is a simple TUI for selecting from search results, with an
// optional narrowing filter.
type Picker struct {
	all       []search.Result
	results   []search.Result
	query     string
	filter    textinput.Model
	filtering bool
	cursor    int
	selected  bool
	cancelled bool
	width     int
	height    int
}

// New creates a new Picker with the given search results.
func New(results []search.Result, query string) Picker {
	filter := textinput.New()
	filter.Placeholder = "filter"
	filter.CharLimit = 64

	return Picker{
		all:     results,
		results: results,
		query:   query,
		filter:  filter,
		cursor:  0,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		if p.filtering {
			return p.updateFilter(msg)
		}

		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown:
			return p.moveCursor(1), nil

		case tea.KeyUp:
			return p.moveCursor(-1), nil
		}

		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				return p.moveCursor(1), nil
			case "k":
				return p.moveCursor(-1), nil
			case "/":
				p.filtering = true
				p.filter.Focus()
				return p, textinput.Blink
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

// updateFilter handles keys while the filter input has focus.
func (p Picker) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		p.filtering = false
		p.filter.Blur()
		p.filter.SetValue("")
		p.results = p.all
		p.cursor = 0
		return p, nil

	case tea.KeyEnter:
		p.filtering = false
		p.filter.Blur()
		return p, nil
	}

	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.applyFilter()
	return p, cmd
}

// applyFilter narrows the visible results by fuzzy-matching the filter
// text against the original result set.
func (p *Picker) applyFilter() {
	value := p.filter.Value()
	if value == "" {
		p.results = p.all
		p.cursor = 0
		return
	}

	bookmarks := make([]model.ExportedBookmark, len(p.all))
	for i, r := range p.all {
		bookmarks[i] = r.Bookmark
	}

	p.results = search.FuzzySearch(bookmarks, value)
	p.cursor = 0
}

func (p Picker) moveCursor(delta int) Picker {
	next := p.cursor + delta
	if next >= 0 && next < len(p.results) {
		p.cursor = next
	}
	return p
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	if p.filtering || p.filter.Value() != "" {
		b.WriteString(p.filter.View())
		b.WriteString("\n\n")
	}

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := style.Render(result.Bookmark.Title)
		location := result.Bookmark.URL
		if result.Bookmark.FolderPath != "" {
			location = result.Bookmark.FolderPath + "  " + location
		}

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", pathStyle.Render(location)))
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("j/k: move  /: filter  Enter: select  q/Esc: cancel"))

	return b.String()
}

// Selected returns the selected bookmark, or nil if cancelled.
func (p Picker) Selected() *model.ExportedBookmark {
	if p.cancelled || !p.selected {
		return nil
	}
	if p.cursor < len(p.results) {
		return &p.results[p.cursor].Bookmark
	}
	return nil
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}
