package screen

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
	"github.com/clearmetax/bundler/internal/ui/component"
	"github.com/clearmetax/bundler/internal/ui/router"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// ViewConfigScreen is the read-only inspection screen: checklist status,
// every recognized key (private keys masked) and the passthrough count.
type ViewConfigScreen struct {
	width  int
	height int
	deps   Deps

	statusHeader *component.StatusHeader
	helpBar      *component.HelpBar

	titleStyle lipgloss.Style
	countStyle lipgloss.Style
	emptyStyle lipgloss.Style
}

// NewViewConfigScreen creates the configuration view screen
func NewViewConfigScreen(deps Deps) *ViewConfigScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	statusHeader := component.NewStatusHeader(deps.Store.Path())
	statusHeader.SetStatus(deps.Store.Status())

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteViewConfig))

	return &ViewConfigScreen{
		deps:         deps,
		statusHeader: statusHeader,
		helpBar:      helpBar,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		countStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			MarginTop(1),

		emptyStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
	}
}

// Init initializes the screen
func (s *ViewConfigScreen) Init() tea.Cmd {
	s.statusHeader.SetStatus(s.deps.Store.Status())
	return nil
}

// Update handles screen updates
func (s *ViewConfigScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyCtrlC || keyMsg.String() == "q" {
			return s, tea.Quit
		}
	}
	return s, nil
}

// View renders the screen
func (s *ViewConfigScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("🔍 View configuration"))
	content.WriteString("\n")
	content.WriteString(s.statusHeader.View())
	content.WriteString("\n")
	content.WriteString(s.renderKeys())
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// renderKeys renders the recognized keys in document order plus the count
// of passthrough lines the tool does not manage.
func (s *ViewConfigScreen) renderKeys() string {
	pairs := s.deps.Store.Pairs()

	table := component.NewTable().
		AddColumn("Key", 26, lipgloss.Left).
		AddColumn("Value", 52, lipgloss.Left).
		SetZebra(true)

	passthrough := 0
	for _, pair := range pairs {
		if !bundler.IsManagedKey(pair.Key) {
			passthrough++
			continue
		}
		value := pair.Value
		if bundler.IsWalletKey(pair.Key) {
			value = maskSecret(value)
		}
		table.AddRow([]string{pair.Key, value})
	}

	var content strings.Builder
	if table.GetRowCount() == 0 {
		content.WriteString(s.emptyStyle.Render("Nothing configured yet"))
	} else {
		if s.width > 0 {
			table.SetSize(s.width-4, 0)
		}
		content.WriteString(table.View())
	}

	if passthrough > 0 {
		content.WriteString("\n")
		content.WriteString(s.countStyle.Render(fmt.Sprintf("%d other keys pass through untouched", passthrough)))
	}

	return content.String()
}

// maskSecret keeps the first and last four characters of key material.
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "…"
	}
	return value[:4] + "…" + value[len(value)-4:]
}

// SetSize sets the screen dimensions
func (s *ViewConfigScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.statusHeader.SetWidth(width)
	s.helpBar.SetWidth(width)
}
