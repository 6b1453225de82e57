package screen

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
)

func TestFeesPrefilledFromDefaults(t *testing.T) {
	s := NewFeesScreen(newTestDeps(t))

	if got := s.form.GetValue("min_tip"); got != "10000" {
		t.Errorf("min_tip prefill = %q, want 10000", got)
	}
	if got := s.form.GetValue("tip_percent"); got != "50" {
		t.Errorf("tip_percent prefill = %q, want 50", got)
	}
	if got := s.form.GetValue("fee_recipient"); got != testRecipient {
		t.Errorf("fee_recipient prefill = %q, want default recipient", got)
	}
}

func TestFeesPrefilledFromDocument(t *testing.T) {
	deps := newTestDeps(t)
	err := deps.Store.ConfigureFees(bundler.FeeSchedule{
		MinTipLamports: 25_000,
		TipPercent:     10,
		Recipient:      testRecipient,
	})
	if err != nil {
		t.Fatalf("ConfigureFees() error = %v", err)
	}

	s := NewFeesScreen(deps)
	if got := s.form.GetValue("min_tip"); got != "25000" {
		t.Errorf("min_tip prefill = %q, want the stored 25000", got)
	}
	if got := s.form.GetValue("tip_percent"); got != "10" {
		t.Errorf("tip_percent prefill = %q, want the stored 10", got)
	}
}

func TestFeesPreviewTracksFieldValues(t *testing.T) {
	s := NewFeesScreen(newTestDeps(t))
	s.SetSize(100, 40)

	// Defaults: min 10000, 50% of 1 SOL -> tip 0.5 SOL, total 0.500005.
	view := s.View()
	if !strings.Contains(view, "0.5 SOL") {
		t.Errorf("View() missing the tip projection, got:\n%s", view)
	}
	if !strings.Contains(view, "0.500005 SOL") {
		t.Errorf("View() missing the total projection, got:\n%s", view)
	}

	s.form.SetFieldValue("tip_percent", "not-a-number")
	if view := s.View(); !strings.Contains(view, "Preview unavailable") {
		t.Error("View() should fall back to a placeholder while fields are unparsable")
	}
}

func TestFeesSubmitPersistsSchedule(t *testing.T) {
	deps := newTestDeps(t)
	s := NewFeesScreen(deps)
	drainBus()

	s.form.SetFieldValue("min_tip", "20000")
	s.form.SetFieldValue("tip_percent", "10")
	s.form.SetFieldValue("fee_recipient", testRecipient)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("ctrl+s with a valid schedule should navigate back")
	}
	if msg, ok := cmd().(ui.RouterMsg); !ok || msg.To != ui.RouteMainMenu {
		t.Errorf("submit produced %v, want navigation to the main menu", cmd())
	}

	fees, err := deps.Store.FeeSchedule()
	if err != nil {
		t.Fatalf("FeeSchedule() error = %v", err)
	}
	want := bundler.FeeSchedule{MinTipLamports: 20_000, TipPercent: 10, Recipient: testRecipient}
	if fees != want {
		t.Errorf("stored schedule = %+v, want %+v", fees, want)
	}
	if !deps.Store.Status().FeesConfigured {
		t.Error("FeesConfigured should flip after submit")
	}
}

func TestFeesRejectsBadPercent(t *testing.T) {
	deps := newTestDeps(t)
	s := NewFeesScreen(deps)

	s.form.SetFieldValue("tip_percent", "101")
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("invalid percent should not navigate away")
	}
	if deps.Store.Status().FeesConfigured {
		t.Error("invalid percent must not be persisted")
	}
	if view := s.View(); !strings.Contains(view, "percent must be between 0 and 100") {
		t.Error("View() missing the validation message")
	}
}

func TestFeesRejectsBadRecipient(t *testing.T) {
	deps := newTestDeps(t)
	s := NewFeesScreen(deps)

	s.form.SetFieldValue("fee_recipient", strings.Repeat("0", 40))
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("invalid recipient should not navigate away")
	}
	if view := s.View(); !strings.Contains(view, "not a valid Solana address") {
		t.Error("View() missing the recipient validation message")
	}
}

func TestFeesEnterCyclesFields(t *testing.T) {
	s := NewFeesScreen(newTestDeps(t))

	before := s.form.GetValues()
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	after := s.form.GetValues()

	// Enter moves focus instead of submitting a partial form.
	if len(before) != len(after) {
		t.Fatalf("field count changed: %d -> %d", len(before), len(after))
	}
	if s.deps.Store.Status().FeesConfigured {
		t.Error("enter alone must not persist the schedule")
	}
}
