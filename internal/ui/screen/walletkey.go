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

// WalletKeyScreen prompts for the primary dev wallet private key. The input
// is masked; only the length is validated here, decoding happens in the
// operations that use the key material.
type WalletKeyScreen struct {
	width  int
	height int
	deps   Deps

	form    *component.Form
	helpBar *component.HelpBar

	titleStyle lipgloss.Style
	hintStyle  lipgloss.Style
}

// NewWalletKeyScreen creates the wallet key entry screen
func NewWalletKeyScreen(deps Deps) *WalletKeyScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm()
	form.AddField("wallet_key", component.FieldTypePassword, "Dev wallet private key", true, "base58 private key")
	form.SetFieldValidation("wallet_key", func(value string) error {
		if len(strings.TrimSpace(value)) < bundler.MinKeyLength {
			return fmt.Errorf("private key must be at least %d characters", bundler.MinKeyLength)
		}
		return nil
	})

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteWalletKey))

	return &WalletKeyScreen{
		deps:    deps,
		form:    form,
		helpBar: helpBar,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		hintStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			MarginTop(1),
	}
}

// Init initializes the screen
func (s *WalletKeyScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update handles screen updates
func (s *WalletKeyScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return s, tea.Quit
		case tea.KeyEnter:
			return s, s.submit()
		}
	}

	form, cmd := s.form.Update(msg)
	s.form = form
	return s, cmd
}

// submit validates the key and persists it through the store.
func (s *WalletKeyScreen) submit() tea.Cmd {
	if !s.form.Validate() {
		return nil
	}

	if err := s.deps.Store.SetWalletKey(s.form.GetValue("wallet_key")); err != nil {
		ui.PublishError(err, "Wallet key not saved")
		return nil
	}

	ui.PublishSuccess("Dev wallet key saved", "Wallet")
	return func() tea.Msg {
		return ui.RouterMsg{To: ui.RouteMainMenu}
	}
}

// View renders the screen
func (s *WalletKeyScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("🔑 Set dev wallet private key"))
	content.WriteString("\n\n")
	content.WriteString(s.form.View())
	content.WriteString("\n")
	content.WriteString(s.hintStyle.Render("The key is stored in the env file and never echoed."))
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// SetSize sets the screen dimensions
func (s *WalletKeyScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetWidth(width)
	s.helpBar.SetWidth(width)
}
