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

// KeypairsScreen generates a batch of buyer keypairs and appends them to
// the env document. After a successful run it shows the derived public
// keys so the operator can fund them.
type KeypairsScreen struct {
	width  int
	height int
	deps   Deps

	form    *component.Form
	helpBar *component.HelpBar

	generated []bundler.GeneratedWallet

	titleStyle  lipgloss.Style
	hintStyle   lipgloss.Style
	resultStyle lipgloss.Style
}

// NewKeypairsScreen creates the keypair generation screen
func NewKeypairsScreen(deps Deps) *KeypairsScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	form := component.NewForm()
	form.AddField("count", component.FieldTypeNumber, "Number of keypairs", true, fmt.Sprintf("1-%d", bundler.MaxKeypairBatch))
	form.SetFieldValidation("count", func(value string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return fmt.Errorf("count must be a whole number")
		}
		if n < 1 || n > bundler.MaxKeypairBatch {
			return fmt.Errorf("count must be between 1 and %d", bundler.MaxKeypairBatch)
		}
		return nil
	})

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteKeypairs))

	return &KeypairsScreen{
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

		resultStyle: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true).
			Margin(1, 0),
	}
}

// Init initializes the screen
func (s *KeypairsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update handles screen updates
func (s *KeypairsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return s, tea.Quit
		case tea.KeyEnter:
			s.submit()
			return s, nil
		}
	}

	if len(s.generated) > 0 {
		// Result phase: only esc (handled by the router) and quit apply.
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	s.form = form
	return s, cmd
}

// submit runs the generation batch. Prerequisite and key-decode failures
// come back from the store with the offending step or key named.
func (s *KeypairsScreen) submit() {
	if len(s.generated) > 0 {
		return
	}
	if !s.form.Validate() {
		return
	}

	count, _ := strconv.Atoi(strings.TrimSpace(s.form.GetValue("count")))
	wallets, err := s.deps.Store.CreateKeypairs(count)
	if err != nil {
		ui.PublishError(err, "Keypairs not created")
		return
	}

	s.generated = wallets
	ui.PublishSuccess(fmt.Sprintf("Created %d wallet keypairs", len(wallets)), "Keypairs")
}

// View renders the screen
func (s *KeypairsScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("🔐 Create wallet keypairs"))
	content.WriteString("\n\n")

	if len(s.generated) > 0 {
		content.WriteString(s.resultStyle.Render(fmt.Sprintf("✅ %d keypairs written to %s", len(s.generated), s.deps.Store.Path())))
		content.WriteString("\n\n")
		content.WriteString(s.renderGenerated())
		content.WriteString("\n")
		content.WriteString(s.hintStyle.Render("Fund these addresses before creating the bundle. Press esc to return."))
	} else {
		content.WriteString(s.form.View())
		content.WriteString("\n")
		content.WriteString(s.hintStyle.Render("Keys are generated locally and appended to the env file."))
	}

	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// renderGenerated renders the env key / public key table for the batch
func (s *KeypairsScreen) renderGenerated() string {
	table := component.NewTable().
		AddColumn("Env key", 26, lipgloss.Left).
		AddColumn("Public key", 46, lipgloss.Left).
		SetZebra(true)

	for _, wallet := range s.generated {
		table.AddRow([]string{wallet.EnvKey, wallet.PublicKey})
	}

	if s.width > 0 {
		table.SetSize(s.width-4, 0)
	}
	return table.View()
}

// SetSize sets the screen dimensions
func (s *KeypairsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetWidth(width)
	s.helpBar.SetWidth(width)
}
