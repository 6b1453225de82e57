package screen

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
	"github.com/clearmetax/bundler/internal/ui/component"
	"github.com/clearmetax/bundler/internal/ui/router"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// walletsMode is the active input mode of the wallets screen.
type walletsMode int

const (
	walletsModeMenu walletsMode = iota
	walletsModeAdd
	walletsModeRemove
	walletsModePromote
)

// WalletsScreen manages the wallet family: the dev key plus the numbered
// buyer keys. The table always reflects the document; the digit submenu
// switches between list, add, remove and promote.
type WalletsScreen struct {
	width  int
	height int
	deps   Deps

	mode walletsMode
	form *component.Form

	helpBar *component.HelpBar

	titleStyle    lipgloss.Style
	menuStyle     lipgloss.Style
	menuItemStyle lipgloss.Style
	emptyStyle    lipgloss.Style
	hintStyle     lipgloss.Style
}

// NewWalletsScreen creates the wallet management screen
func NewWalletsScreen(deps Deps) *WalletsScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteWallets))

	return &WalletsScreen{
		deps:    deps,
		mode:    walletsModeMenu,
		helpBar: helpBar,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		menuStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2).
			MarginTop(1),

		menuItemStyle: lipgloss.NewStyle().
			Foreground(palette.Text),

		emptyStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			MarginTop(1),
	}
}

// Init initializes the screen
func (s *WalletsScreen) Init() tea.Cmd {
	return nil
}

// Update handles screen updates
func (s *WalletsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.form != nil {
			form, cmd := s.form.Update(msg)
			s.form = form
			return s, cmd
		}
		return s, nil
	}

	if keyMsg.Type == tea.KeyCtrlC {
		return s, tea.Quit
	}

	if s.mode == walletsModeMenu {
		if keyMsg.String() == "q" {
			return s, tea.Quit
		}
		return s, s.handleMenuKey(keyMsg)
	}

	if keyMsg.Type == tea.KeyEnter {
		s.submit()
		return s, nil
	}

	form, cmd := s.form.Update(keyMsg)
	s.form = form
	return s, cmd
}

// handleMenuKey dispatches the digit submenu.
func (s *WalletsScreen) handleMenuKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "1":
		// The table above is the list; nothing to switch.
		return nil
	case "2":
		return s.enterMode(walletsModeAdd)
	case "3":
		return s.enterMode(walletsModeRemove)
	case "4":
		return s.enterMode(walletsModePromote)
	case "5":
		return func() tea.Msg {
			return ui.RouterMsg{To: ui.RouteMainMenu}
		}
	}
	return nil
}

// enterMode builds the input form for the chosen action.
func (s *WalletsScreen) enterMode(mode walletsMode) tea.Cmd {
	form := component.NewForm()

	switch mode {
	case walletsModeAdd:
		form.AddField("wallet_key", component.FieldTypePassword, "Private key to add", true, "base58 private key")
		form.SetFieldValidation("wallet_key", func(value string) error {
			if len(strings.TrimSpace(value)) < bundler.MinKeyLength {
				return fmt.Errorf("private key must be at least %d characters", bundler.MinKeyLength)
			}
			return nil
		})
	case walletsModeRemove:
		form.AddField("k", component.FieldTypeNumber, "Wallet # to remove", true, "1")
	case walletsModePromote:
		form.AddField("k", component.FieldTypeNumber, "Wallet # to promote to dev", true, "1")
	}

	s.mode = mode
	s.form = form
	return form.Init()
}

// leaveMode returns to the digit submenu.
func (s *WalletsScreen) leaveMode() {
	s.mode = walletsModeMenu
	s.form = nil
}

// submit runs the active action. Enter on an empty input cancels back to
// the submenu.
func (s *WalletsScreen) submit() {
	switch s.mode {
	case walletsModeAdd:
		s.submitAdd()
	case walletsModeRemove, walletsModePromote:
		s.submitIndexed()
	}
}

func (s *WalletsScreen) submitAdd() {
	if strings.TrimSpace(s.form.GetValue("wallet_key")) == "" {
		s.leaveMode()
		return
	}
	if !s.form.Validate() {
		return
	}

	entry, err := s.deps.Store.AddWallet(s.form.GetValue("wallet_key"))
	if err != nil {
		ui.PublishError(err, "Wallet not added")
		return
	}

	ui.PublishSuccess(fmt.Sprintf("Added %s", entry.EnvKey), "Wallets")
	s.leaveMode()
}

func (s *WalletsScreen) submitIndexed() {
	raw := strings.TrimSpace(s.form.GetValue("k"))
	if raw == "" {
		s.leaveMode()
		return
	}

	k, err := strconv.Atoi(raw)
	if err != nil || k < 1 {
		s.form.SetFieldError("k", "enter the wallet number shown in the list")
		return
	}

	if s.mode == walletsModeRemove {
		removed, err := s.deps.Store.RemoveWallet(k)
		if err != nil {
			s.form.SetFieldError("k", err.Error())
			return
		}
		ui.PublishSuccess(fmt.Sprintf("Removed %s", removed), "Wallets")
	} else {
		if err := s.deps.Store.PromoteWallet(k); err != nil {
			s.form.SetFieldError("k", err.Error())
			return
		}
		ui.PublishSuccess(fmt.Sprintf("Wallet %d promoted to dev", k), "Wallets")
	}

	s.leaveMode()
}

// View renders the screen
func (s *WalletsScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("👛 Manage wallets"))
	content.WriteString("\n")
	content.WriteString(s.renderTable())
	content.WriteString("\n")

	if s.mode == walletsModeMenu {
		content.WriteString(s.renderMenu())
	} else {
		content.WriteString(s.form.View())
		content.WriteString("\n")
		content.WriteString(s.hintStyle.Render("Enter submits; enter on an empty field cancels."))
	}

	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// renderTable renders the wallet family in file order. Numbered wallets
// carry the 1-based position used by remove and promote.
func (s *WalletsScreen) renderTable() string {
	entries := s.deps.Store.ListWallets()
	if len(entries) == 0 {
		return s.emptyStyle.Render("No wallets configured yet")
	}

	table := component.NewTable().
		AddColumn("#", 5, lipgloss.Left).
		AddColumn("Env key", 26, lipgloss.Left).
		AddColumn("Public key", 46, lipgloss.Left).
		SetZebra(true)

	position := 0
	for _, entry := range entries {
		label := "dev"
		if entry.Role != bundler.RoleDev {
			position++
			label = strconv.Itoa(position)
		}
		pub := entry.PublicKey
		if entry.Err != nil {
			pub = fmt.Sprintf("⚠ %v", entry.Err)
		}
		table.AddRow([]string{label, entry.EnvKey, pub})
	}

	if s.width > 0 {
		table.SetSize(s.width-4, 0)
	}
	return table.View()
}

// renderMenu renders the digit submenu
func (s *WalletsScreen) renderMenu() string {
	items := []string{
		"1) List wallets",
		"2) Add wallet",
		"3) Remove wallet",
		"4) Promote wallet to dev",
		"5) Back",
	}

	var lines []string
	for _, item := range items {
		lines = append(lines, s.menuItemStyle.Render(item))
	}
	return s.menuStyle.Render(strings.Join(lines, "\n"))
}

// SetSize sets the screen dimensions
func (s *WalletsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	if s.form != nil {
		s.form.SetWidth(width)
	}
	s.helpBar.SetWidth(width)
}
