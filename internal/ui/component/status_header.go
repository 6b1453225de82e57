package component

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// StatusHeader renders the launch checklist across the top of a screen:
// every step in order with a done/pending marker, plus the env document
// path the tool is editing.
type StatusHeader struct {
	envPath string
	status  bundler.Status
	style   StatusHeaderStyle
	width   int
}

// StatusHeaderStyle contains all styling for the status header
type StatusHeaderStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	envPath   lipgloss.Style
	done      lipgloss.Style
	pending   lipgloss.Style
}

// NewStatusHeader creates a new status header component
func NewStatusHeader(envPath string) *StatusHeader {
	palette := style.DefaultPalette()

	return &StatusHeader{
		envPath: envPath,
		style: StatusHeaderStyle{
			container: lipgloss.NewStyle().
				Background(palette.Background).
				Foreground(palette.Text).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 2).
				MarginBottom(1),

			title: lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true),

			envPath: lipgloss.NewStyle().
				Foreground(palette.TextSecondary),

			done: lipgloss.NewStyle().
				Foreground(palette.Done).
				Bold(true),

			pending: lipgloss.NewStyle().
				Foreground(palette.Pending),
		},
	}
}

// SetStatus updates the checklist state to render
func (sh *StatusHeader) SetStatus(status bundler.Status) {
	sh.status = status
}

// SetWidth sets the component width for responsive layout
func (sh *StatusHeader) SetWidth(width int) {
	sh.width = width
	sh.style.container = sh.style.container.Width(width - 4)
}

// View renders the status header
func (sh *StatusHeader) View() string {
	title := sh.style.title.Render("📦 Pool Bundler")
	envPath := sh.style.envPath.Render(fmt.Sprintf("env: %s", sh.envPath))

	parts := []string{title, " | ", envPath}
	for _, step := range sh.status.Checklist() {
		parts = append(parts, " | ", sh.renderStep(step))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return sh.style.container.Render(content)
}

// renderStep renders one checklist entry with its completion marker
func (sh *StatusHeader) renderStep(step bundler.StepStatus) string {
	if step.Done {
		return sh.style.done.Render("✓ " + step.Step.Title())
	}
	return sh.style.pending.Render("○ " + step.Step.Title())
}

// GetHeight returns the component height for layout calculations
func (sh *StatusHeader) GetHeight() int {
	return 3 // Border + padding + content
}
