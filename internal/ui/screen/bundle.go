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

// BundleScreen runs the final checklist step: it resolves every signer,
// projects the tip schedule and records the bundle checkpoint. The result
// is a plan, not a submission; transactions are built by the launch
// tooling that reads the env file.
type BundleScreen struct {
	width  int
	height int
	deps   Deps

	plan *bundler.BundlePlan

	statusHeader *component.StatusHeader
	helpBar      *component.HelpBar

	titleStyle   lipgloss.Style
	confirmStyle lipgloss.Style
	sectionStyle lipgloss.Style
	valueStyle   lipgloss.Style
	hintStyle    lipgloss.Style
}

// NewBundleScreen creates the bundle plan screen
func NewBundleScreen(deps Deps) *BundleScreen {
	palette := style.DefaultPalette()
	keyMap := ui.DefaultKeyMap()

	statusHeader := component.NewStatusHeader(deps.Store.Path())
	statusHeader.SetStatus(deps.Store.Status())

	helpBar := component.NewHelpBar().
		SetKeyBindings(keyMap.ContextualHelp(ui.RouteBundle))

	return &BundleScreen{
		deps:         deps,
		statusHeader: statusHeader,
		helpBar:      helpBar,

		titleStyle: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0),

		confirmStyle: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true).
			Margin(1, 0),

		sectionStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			MarginTop(1),

		valueStyle: lipgloss.NewStyle().
			Foreground(palette.Text),

		hintStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			MarginTop(1),
	}
}

// Init initializes the screen
func (s *BundleScreen) Init() tea.Cmd {
	s.statusHeader.SetStatus(s.deps.Store.Status())
	return nil
}

// Update handles screen updates
func (s *BundleScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return s, tea.Quit
		case tea.KeyEnter:
			s.run()
		}
	}
	return s, nil
}

// run builds the plan. Prerequisite failures name the first unmet
// checklist step; decode failures name the offending env key.
func (s *BundleScreen) run() {
	plan, err := s.deps.Store.CreateBundle()
	if err != nil {
		ui.PublishError(err, "Bundle not created")
		return
	}

	s.plan = plan
	s.statusHeader.SetStatus(s.deps.Store.Status())
	ui.PublishSuccess(fmt.Sprintf("Bundle plan ready with %d signers", len(plan.Signers)), "Bundle")
}

// View renders the screen
func (s *BundleScreen) View() string {
	var content strings.Builder

	content.WriteString(s.titleStyle.Render("📦 Create pool bundle"))
	content.WriteString("\n")
	content.WriteString(s.statusHeader.View())
	content.WriteString("\n")

	if s.plan == nil {
		content.WriteString(s.confirmStyle.Render("Press enter to verify the checklist and build the bundle plan."))
		content.WriteString("\n")
		content.WriteString(s.hintStyle.Render("Nothing is sent on-chain; the plan marks the env file ready for launch."))
	} else {
		content.WriteString(s.renderPlan())
	}

	content.WriteString("\n")
	content.WriteString(s.helpBar.SetWidth(s.width).View())

	return content.String()
}

// renderPlan renders the signer table and the fee summary
func (s *BundleScreen) renderPlan() string {
	var content strings.Builder

	content.WriteString(s.sectionStyle.Render(fmt.Sprintf("Plan %s", s.plan.ID)))
	content.WriteString("\n")
	content.WriteString(s.valueStyle.Render(fmt.Sprintf("created %s", s.plan.CreatedAt.Format("2006-01-02 15:04:05"))))
	content.WriteString("\n")

	table := component.NewTable().
		AddColumn("Role", 7, lipgloss.Left).
		AddColumn("Env key", 26, lipgloss.Left).
		AddColumn("Public key", 46, lipgloss.Left).
		SetZebra(true)
	for _, signer := range s.plan.Signers {
		table.AddRow([]string{string(signer.Role), signer.EnvKey, signer.PublicKey.String()})
	}
	if s.width > 0 {
		table.SetSize(s.width-4, 0)
	}
	content.WriteString(table.View())
	content.WriteString("\n")

	content.WriteString(s.sectionStyle.Render("Fees"))
	content.WriteString("\n")
	fees := []string{
		fmt.Sprintf("recipient  %s", s.plan.Recipient.String()),
		fmt.Sprintf("min tip    %d lamports", s.plan.Fees.MinTipLamports),
		fmt.Sprintf("percent    %d%%", s.plan.Fees.TipPercent),
		fmt.Sprintf("on a %s SOL buy: tip %s SOL, total %s SOL",
			bundler.FormatSOL(s.plan.Preview.AmountLamports),
			bundler.FormatSOL(s.plan.Preview.TipLamports),
			bundler.FormatSOL(s.plan.Preview.TotalLamports)),
	}
	content.WriteString(s.valueStyle.Render(strings.Join(fees, "\n")))
	content.WriteString("\n")
	content.WriteString(s.hintStyle.Render("Press enter to rebuild the plan, esc to return."))

	return content.String()
}

// SetSize sets the screen dimensions
func (s *BundleScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.statusHeader.SetWidth(width)
	s.helpBar.SetWidth(width)
}
