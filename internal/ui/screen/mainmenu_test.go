package screen

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/logger"
	"github.com/clearmetax/bundler/internal/ui"
)

// Jito mainnet tip account, used as a known-good recipient.
const testRecipient = "96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	dir := t.TempDir()
	store, err := bundler.Open(filepath.Join(dir, ".env"), bundler.Defaults{
		MinTipLamports: 10_000,
		TipPercent:     50,
		FeeRecipient:   testRecipient,
		PreviewAmount:  bundler.LamportsPerSOL,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	logs, err := logger.NewLogBuffer(16, filepath.Join(dir, "spill.log"), zap.NewNop())
	if err != nil {
		t.Fatalf("NewLogBuffer() error = %v", err)
	}
	t.Cleanup(func() { _ = logs.Close() })
	return Deps{Store: store, Logs: logs}
}

func testWalletKey(t *testing.T) string {
	t.Helper()
	pk, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error = %v", err)
	}
	return pk.String()
}

// drainBus clears toasts published by earlier operations.
func drainBus() {
	for {
		select {
		case <-ui.Bus:
		default:
			return
		}
	}
}

func digitKey(d string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(d)}
}

func TestMainMenuDigitNavigation(t *testing.T) {
	tests := []struct {
		digit string
		want  ui.Route
	}{
		{"1", ui.RouteWalletKey},
		{"2", ui.RouteRPC},
		{"3", ui.RouteKeypairs},
		{"4", ui.RouteFees},
		{"5", ui.RouteBundle},
		{"6", ui.RouteWallets},
		{"7", ui.RouteViewConfig},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			menu := NewMainMenuScreen(newTestDeps(t))

			_, cmd := menu.Update(digitKey(tt.digit))
			if cmd == nil {
				t.Fatalf("digit %q produced no command", tt.digit)
			}

			msg, ok := cmd().(ui.RouterMsg)
			if !ok {
				t.Fatalf("digit %q produced %T, want ui.RouterMsg", tt.digit, cmd())
			}
			if msg.To != tt.want {
				t.Errorf("digit %q routed to %v, want %v", tt.digit, msg.To, tt.want)
			}
		})
	}
}

func TestMainMenuExitDigitQuits(t *testing.T) {
	menu := NewMainMenuScreen(newTestDeps(t))

	_, cmd := menu.Update(digitKey("8"))
	if cmd == nil {
		t.Fatal("digit 8 produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("digit 8 produced %T, want tea.QuitMsg", cmd())
	}
}

func TestMainMenuEnterActivatesSelection(t *testing.T) {
	menu := NewMainMenuScreen(newTestDeps(t))

	menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter produced no command")
	}

	msg, ok := cmd().(ui.RouterMsg)
	if !ok {
		t.Fatalf("enter produced %T, want ui.RouterMsg", cmd())
	}
	if msg.To != ui.RouteRPC {
		t.Errorf("enter routed to %v, want %v", msg.To, ui.RouteRPC)
	}
}

func TestMainMenuSelectionWraps(t *testing.T) {
	menu := NewMainMenuScreen(newTestDeps(t))

	menu.Update(tea.KeyMsg{Type: tea.KeyUp})
	if menu.selectedIndex != len(menu.menuItems)-1 {
		t.Errorf("up from first item selected %d, want last", menu.selectedIndex)
	}

	menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	if menu.selectedIndex != 0 {
		t.Errorf("down from last item selected %d, want 0", menu.selectedIndex)
	}
}

func TestMainMenuViewShowsChecklistAndItems(t *testing.T) {
	deps := newTestDeps(t)
	menu := NewMainMenuScreen(deps)
	menu.SetSize(110, 40)

	view := menu.View()
	for _, want := range []string{
		"Pool Bundler",
		"1) Set dev wallet private key",
		"8) Exit",
		"Recent activity",
		deps.Store.Path(),
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
