package screen

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gagliardetto/solana-go"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
	"github.com/clearmetax/bundler/internal/ui/component"
	"github.com/clearmetax/bundler/internal/ui/router"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// FeesScreen configures the MEV tip schedule. The three fields are
// pre-filled from the document (falling back to the configured defaults)
// and a preview of the resulting cost is recomputed on every keystroke.
type FeesScreen struct {
	width  int
	height int
	deps   Deps

	form    *component.Form
	helpBar *component.HelpBar

	titleStyle   lipgloss.Style
	previewStyle lipgloss.Style
	invalidStyle lipgloss.Style
}

// NewFeesScreen creates the fee configuration screen
func NewFeesScreen(deps Deps) *FeesScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	current, err := deps.Store.FeeSchedule()
	if err != nil {
		// A malformed stored value falls back to defaults; the operator
		// fixes it by saving this form.
		ui.PublishError(err, "Stored fees unreadable")
		defaults := deps.Store.Defaults()
		current = bundler.FeeSchedule{
			MinTipLamports: defaults.MinTipLamports,
			TipPercent:     defaults.TipPercent,
			Recipient:      defaults.FeeRecipient,
		}
	}

	form := component.NewForm()
	form.AddField("min_tip", component.FieldTypeNumber, "Min tip (lamports)", true, "10000")
	form.AddField("tip_percent", component.FieldTypeNumber, "Tip percent (0-100)", true, "50")
	form.AddField("fee_recipient", component.FieldTypeText, "Fee recipient address", true, "base58 address")

	form.SetFieldValue("min_tip", strconv.FormatUint(current.MinTipLamports, 10))
	form.SetFieldValue("tip_percent", strconv.FormatUint(current.TipPercent, 10))
	form.SetFieldValue("fee_recipient", current.Recipient)

	form.SetFieldValidation("min_tip", func(value string) error {
		if _, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64); err != nil {
			return fmt.Errorf("min tip must be a whole number of lamports")
		}
		return nil
	})
	form.SetFieldValidation("tip_percent", func(value string) error {
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil || n > 100 {
			return fmt.Errorf("percent must be between 0 and 100")
		}
		return nil
	})
	form.SetFieldValidation("fee_recipient", func(value string) error {
		trimmed := strings.TrimSpace(value)
		if len(trimmed) < bundler.MinKeyLength {
			return fmt.Errorf("recipient must be at least %d characters", bundler.MinKeyLength)
		}
		if _, err := solana.PublicKeyFromBase58(trimmed); err != nil {
			return fmt.Errorf("recipient is not a valid Solana address")
		}
		return nil
	})

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteFees))

	return &FeesScreen{
		deps:    deps,
		form:    form,
		helpBar: helpBar,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		previewStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 2).
			MarginTop(1),

		invalidStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true),
	}
}

// Init initializes the screen
func (s *FeesScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update handles screen updates
func (s *FeesScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return s, tea.Quit
		case "ctrl+s":
			return s, s.submit()
		}
	}

	form, cmd := s.form.Update(msg)
	s.form = form
	return s, cmd
}

// currentSchedule parses the form into a schedule. The bool reports
// whether every field parsed; the preview shows a placeholder until then.
func (s *FeesScreen) currentSchedule() (bundler.FeeSchedule, bool) {
	minTip, err := strconv.ParseUint(strings.TrimSpace(s.form.GetValue("min_tip")), 10, 64)
	if err != nil {
		return bundler.FeeSchedule{}, false
	}
	percent, err := strconv.ParseUint(strings.TrimSpace(s.form.GetValue("tip_percent")), 10, 64)
	if err != nil || percent > 100 {
		return bundler.FeeSchedule{}, false
	}
	return bundler.FeeSchedule{
		MinTipLamports: minTip,
		TipPercent:     percent,
		Recipient:      strings.TrimSpace(s.form.GetValue("fee_recipient")),
	}, true
}

// submit validates all fields and persists the schedule in one save.
func (s *FeesScreen) submit() tea.Cmd {
	if !s.form.Validate() {
		return nil
	}

	schedule, ok := s.currentSchedule()
	if !ok {
		return nil
	}

	if err := s.deps.Store.ConfigureFees(schedule); err != nil {
		ui.PublishError(err, "Fees not saved")
		return nil
	}

	ui.PublishSuccess("Bundle fees saved", "Fees")
	return func() tea.Msg {
		return ui.RouterMsg{To: ui.RouteMainMenu}
	}
}

// View renders the screen
func (s *FeesScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("💰 Configure bundle fees"))
	content.WriteString("\n\n")
	content.WriteString(s.form.View())
	content.WriteString("\n")
	content.WriteString(s.renderPreview())
	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// renderPreview projects the live field values onto the preview amount
func (s *FeesScreen) renderPreview() string {
	amount := s.deps.Store.Defaults().PreviewAmount

	schedule, ok := s.currentSchedule()
	if !ok {
		return s.previewStyle.Render(s.invalidStyle.Render("Preview unavailable until tip fields are numeric"))
	}

	preview := schedule.Preview(amount)
	lines := []string{
		fmt.Sprintf("Preview on a %s SOL buy", bundler.FormatSOL(preview.AmountLamports)),
		fmt.Sprintf("  tip    %s SOL  (%d lamports)", bundler.FormatSOL(preview.TipLamports), preview.TipLamports),
		fmt.Sprintf("  total  %s SOL  (%d lamports, incl. %d base fee)", bundler.FormatSOL(preview.TotalLamports), preview.TotalLamports, bundler.BaseFeeLamports),
	}

	return s.previewStyle.Render(strings.Join(lines, "\n"))
}

// SetSize sets the screen dimensions
func (s *FeesScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.form.SetWidth(width)
	s.helpBar.SetWidth(width)
}
