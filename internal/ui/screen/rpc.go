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

// RPCScreen prompts for the Solana RPC endpoint URL.
type RPCScreen struct {
	width  int
	height int
	deps   Deps

	form    *component.Form
	helpBar *component.HelpBar

	titleStyle lipgloss.Style
	hintStyle  lipgloss.Style
}

// NewRPCScreen creates the RPC endpoint entry screen
func NewRPCScreen(deps Deps) *RPCScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm()
	form.AddField("rpc_url", component.FieldTypeText, "RPC endpoint", true, "https://mainnet.helius-rpc.com/?api-key=...")
	form.SetFieldValidation("rpc_url", func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("RPC URL cannot be empty")
		}
		return nil
	})
	if current, ok := deps.Store.Get(bundler.EnvRPCURL); ok {
		form.SetFieldValue("rpc_url", current)
	}

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteRPC))

	return &RPCScreen{
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
func (s *RPCScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update handles screen updates
func (s *RPCScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
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

// submit persists the endpoint. A URL without an http(s) scheme is
// accepted; the store logs it as suspicious.
func (s *RPCScreen) submit() tea.Cmd {
	if !s.form.Validate() {
		return nil
	}

	if err := s.deps.Store.SetRPCURL(s.form.GetValue("rpc_url")); err != nil {
		ui.PublishError(err, "RPC endpoint not saved")
		return nil
	}

	ui.PublishSuccess("RPC endpoint saved", "RPC")
	return func() tea.Msg {
		return ui.RouterMsg{To: ui.RouteMainMenu}
	}
}

// View renders the screen
func (s *RPCScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("🌐 Set RPC endpoint"))
	content.WriteString("\n\n")
	content.WriteString(s.form.View())
	content.WriteString("\n")
	content.WriteString(s.hintStyle.Render("Use a private RPC node; public endpoints rate-limit bundle traffic."))
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// SetSize sets the screen dimensions
func (s *RPCScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetWidth(width)
	s.helpBar.SetWidth(width)
}
