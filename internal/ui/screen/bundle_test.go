package screen

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
)

func readyForBundle(t *testing.T) Deps {
	t.Helper()
	deps := readyForKeypairs(t)
	if _, err := deps.Store.CreateKeypairs(2); err != nil {
		t.Fatalf("CreateKeypairs() error = %v", err)
	}
	err := deps.Store.ConfigureFees(bundler.FeeSchedule{
		MinTipLamports: 10_000,
		TipPercent:     50,
		Recipient:      testRecipient,
	})
	if err != nil {
		t.Fatalf("ConfigureFees() error = %v", err)
	}
	return deps
}

func TestBundleBlockedWithoutFees(t *testing.T) {
	deps := readyForKeypairs(t)
	if _, err := deps.Store.CreateKeypairs(1); err != nil {
		t.Fatalf("CreateKeypairs() error = %v", err)
	}

	s := NewBundleScreen(deps)
	drainBus()
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if s.plan != nil {
		t.Error("bundle should be blocked without the fees step")
	}
	if deps.Store.Status().BundleCreated {
		t.Error("checkpoint must not be written")
	}

	select {
	case busMsg := <-ui.Bus:
		errMsg, ok := busMsg.(ui.ErrorMsg)
		if !ok {
			t.Fatalf("bus delivered %T, want ui.ErrorMsg", busMsg)
		}
		if !errors.Is(errMsg.Error, bundler.ErrPrerequisite) {
			t.Errorf("error = %v, want a prerequisite error", errMsg.Error)
		}
		if !strings.Contains(errMsg.Error.Error(), "bundle fees not configured") {
			t.Errorf("error = %v, want it to name the fees step", errMsg.Error)
		}
	default:
		t.Error("no error toast published")
	}
}

func TestBundleBuildsPlan(t *testing.T) {
	deps := readyForBundle(t)
	s := NewBundleScreen(deps)
	s.SetSize(130, 50)
	drainBus()

	s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if s.plan == nil {
		t.Fatal("plan not built")
	}
	// Dev wallet plus the two generated buyers.
	if got := len(s.plan.Signers); got != 3 {
		t.Errorf("signers = %d, want 3", got)
	}
	if s.plan.ID == "" {
		t.Error("plan ID is empty")
	}
	if !deps.Store.Status().BundleCreated {
		t.Error("BundleCreated should flip after the plan")
	}

	view := s.View()
	for _, want := range []string{"Plan ", "dev", "WALLET_1_PRIVATE_KEY", testRecipient, "0.5 SOL"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestBundleConfirmBeforePlan(t *testing.T) {
	deps := readyForBundle(t)
	s := NewBundleScreen(deps)
	s.SetSize(130, 50)

	view := s.View()
	if !strings.Contains(view, "Press enter") {
		t.Error("View() missing the confirm prompt")
	}
	if strings.Contains(view, "Plan ") {
		t.Error("View() should not render a plan before enter")
	}
}
