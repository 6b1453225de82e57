package screen

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/ui"
)

func TestRPCSavesEndpoint(t *testing.T) {
	deps := newTestDeps(t)
	s := NewRPCScreen(deps)

	s.form.SetFieldValue("rpc_url", "https://mainnet.helius-rpc.com/?api-key=secret")
	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("valid URL should navigate back")
	}
	if msg, ok := cmd().(ui.RouterMsg); !ok || msg.To != ui.RouteMainMenu {
		t.Errorf("submit produced %v, want navigation to the main menu", cmd())
	}

	got, _ := deps.Store.Get(bundler.EnvRPCURL)
	if got != "https://mainnet.helius-rpc.com/?api-key=secret" {
		t.Errorf("stored URL = %q", got)
	}
}

func TestRPCRejectsEmpty(t *testing.T) {
	deps := newTestDeps(t)
	s := NewRPCScreen(deps)

	_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty URL should not navigate away")
	}
	if deps.Store.Status().RPCConfigured {
		t.Error("empty URL must not be persisted")
	}
}

func TestRPCAcceptsSchemelessURL(t *testing.T) {
	deps := newTestDeps(t)
	s := NewRPCScreen(deps)

	s.form.SetFieldValue("rpc_url", "rpc.example.com:8899")
	s.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if !deps.Store.Status().RPCConfigured {
		t.Error("schemeless URL should be accepted")
	}
}

func TestRPCPrefillsExistingValue(t *testing.T) {
	deps := newTestDeps(t)
	if err := deps.Store.SetRPCURL("https://old.example.com"); err != nil {
		t.Fatalf("SetRPCURL() error = %v", err)
	}

	s := NewRPCScreen(deps)
	if got := s.form.GetValue("rpc_url"); got != "https://old.example.com" {
		t.Errorf("prefilled value = %q, want the stored URL", got)
	}
}
