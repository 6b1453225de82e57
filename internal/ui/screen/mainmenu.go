package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clearmetax/bundler/internal/logger"
	"github.com/clearmetax/bundler/internal/ui"
	"github.com/clearmetax/bundler/internal/ui/component"
	"github.com/clearmetax/bundler/internal/ui/router"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// recentLogCount is how many buffered log lines the footer shows.
const recentLogCount = 5

// MenuItem represents a menu item
type MenuItem struct {
	Digit       string
	Label       string
	Description string
	Route       ui.Route
	Quit        bool
}

// MainMenuScreen is the checklist hub: every configuration step starts here
// and returns here when it is done.
type MainMenuScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps

	statusHeader *component.StatusHeader
	helpBar      *component.HelpBar

	selectedIndex int
	menuItems     []MenuItem

	menuItemStyle    lipgloss.Style
	selectedStyle    lipgloss.Style
	descriptionStyle lipgloss.Style
	logTitleStyle    lipgloss.Style
	logLineStyle     lipgloss.Style
}

// NewMainMenuScreen creates the main menu screen
func NewMainMenuScreen(deps Deps) *MainMenuScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	menuItems := []MenuItem{
		{
			Digit:       "1",
			Label:       "Set dev wallet private key",
			Description: "Store the primary wallet key that signs the launch",
			Route:       ui.RouteWalletKey,
		},
		{
			Digit:       "2",
			Label:       "Set RPC endpoint",
			Description: "Point the bundler at a Solana RPC node",
			Route:       ui.RouteRPC,
		},
		{
			Digit:       "3",
			Label:       "Create wallet keypairs",
			Description: "Generate fresh buyer keypairs for the bundle",
			Route:       ui.RouteKeypairs,
		},
		{
			Digit:       "4",
			Label:       "Configure bundle fees",
			Description: "Tune the MEV tip floor, percent and recipient",
			Route:       ui.RouteFees,
		},
		{
			Digit:       "5",
			Label:       "Create pool bundle",
			Description: "Assemble the bundle plan from the configured wallets",
			Route:       ui.RouteBundle,
		},
		{
			Digit:       "6",
			Label:       "Manage wallets",
			Description: "List, add, remove or promote wallet keys",
			Route:       ui.RouteWallets,
		},
		{
			Digit:       "7",
			Label:       "View configuration",
			Description: "Inspect everything the env file currently holds",
			Route:       ui.RouteViewConfig,
		},
		{
			Digit:       "8",
			Label:       "Exit",
			Description: "Leave the bundler",
			Quit:        true,
		},
	}

	statusHeader := component.NewStatusHeader(deps.Store.Path())
	statusHeader.SetStatus(deps.Store.Status())

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteMainMenu)).
		SetCompact(false)

	return &MainMenuScreen{
		keyMap:        keyMap,
		deps:          deps,
		selectedIndex: 0,
		menuItems:     menuItems,
		statusHeader:  statusHeader,
		helpBar:       helpBar,

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 2),

		selectedStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 2).
			Bold(true),

		descriptionStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 5).
			Italic(true),

		logTitleStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			MarginTop(1),

		logLineStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}

// Init refreshes the checklist and starts the footer refresh tick. It runs
// again every time a finished operation pops back to this screen.
func (m *MainMenuScreen) Init() tea.Cmd {
	m.statusHeader.SetStatus(m.deps.Store.Status())
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tea.Msg(t)
	})
}

// Update handles screen updates
func (m *MainMenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keyMap.Up):
			m.moveUp()

		case key.Matches(msg, m.keyMap.Down):
			m.moveDown()

		case key.Matches(msg, m.keyMap.Enter):
			cmds = append(cmds, m.activate(m.selectedIndex))

		case key.Matches(msg, m.keyMap.Digits):
			index := int(msg.String()[0] - '1')
			cmds = append(cmds, m.activate(index))
		}

	case time.Time:
		m.statusHeader.SetStatus(m.deps.Store.Status())
		cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return tea.Msg(t)
		}))
	}

	return m, tea.Batch(cmds...)
}

// View renders the main menu screen
func (m *MainMenuScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	content.WriteString(m.statusHeader.View())
	content.WriteString("\n")
	content.WriteString(m.renderMenu())
	content.WriteString("\n")
	content.WriteString(m.renderLogs())
	content.WriteString("\n")
	content.WriteString(m.helpBar.SetWidth(m.width).View())

	return content.String()
}

// SetSize sets the screen dimensions
func (m *MainMenuScreen) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.statusHeader.SetWidth(width)
	m.helpBar.SetWidth(width)
}

// renderMenu renders the numbered menu items
func (m *MainMenuScreen) renderMenu() string {
	var menuItems []string

	for i, item := range m.menuItems {
		itemStyle := m.menuItemStyle
		if i == m.selectedIndex {
			itemStyle = m.selectedStyle
		}

		styledItem := itemStyle.Render(fmt.Sprintf("%s) %s", item.Digit, item.Label))
		menuItems = append(menuItems, styledItem)

		if i == m.selectedIndex {
			menuItems = append(menuItems, m.descriptionStyle.Render(item.Description))
		}
	}

	menu := strings.Join(menuItems, "\n")

	menuStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.DefaultPalette().Primary).
		Padding(1, 3)

	return menuStyle.Render(menu)
}

// renderLogs renders the recent-activity footer from the log buffer
func (m *MainMenuScreen) renderLogs() string {
	if m.deps.Logs == nil {
		return ""
	}

	var lines []string
	lines = append(lines, m.logTitleStyle.Render("Recent activity"))

	entries := m.deps.Logs.GetRecentLogs(recentLogCount)
	if len(entries) == 0 {
		lines = append(lines, m.logLineStyle.Render("No activity yet"))
	}
	for _, entry := range entries {
		lines = append(lines, m.renderLogLine(entry))
	}

	return strings.Join(lines, "\n")
}

// renderLogLine renders one buffered entry, colored by level
func (m *MainMenuScreen) renderLogLine(entry logger.LogEntry) string {
	palette := style.DefaultPalette()

	lineStyle := m.logLineStyle
	switch strings.ToLower(entry.Level) {
	case "error", "fatal":
		lineStyle = lineStyle.Foreground(palette.Error)
	case "warn", "warning":
		lineStyle = lineStyle.Foreground(palette.Warning)
	}

	line := fmt.Sprintf("%s %-5s %s",
		entry.Timestamp.Format("15:04:05"),
		strings.ToUpper(entry.Level),
		entry.Message)

	if m.width > 8 && len(line) > m.width-4 {
		line = line[:m.width-4]
	}

	return lineStyle.Render(line)
}

// moveUp moves selection up
func (m *MainMenuScreen) moveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	} else {
		m.selectedIndex = len(m.menuItems) - 1
	}
}

// moveDown moves selection down
func (m *MainMenuScreen) moveDown() {
	if m.selectedIndex < len(m.menuItems)-1 {
		m.selectedIndex++
	} else {
		m.selectedIndex = 0
	}
}

// activate selects the item at index and returns the command that runs it.
func (m *MainMenuScreen) activate(index int) tea.Cmd {
	if index < 0 || index >= len(m.menuItems) {
		return nil
	}

	m.selectedIndex = index
	item := m.menuItems[index]

	if item.Quit {
		return tea.Quit
	}

	route := item.Route
	return func() tea.Msg {
		return ui.RouterMsg{To: route}
	}
}

// GetSelectedRoute returns the currently selected route
func (m *MainMenuScreen) GetSelectedRoute() ui.Route {
	if m.selectedIndex < len(m.menuItems) {
		return m.menuItems[m.selectedIndex].Route
	}
	return ui.RouteMainMenu
}
