package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Tea message types for UI communication

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// ErrorMsg represents a failed operation surfaced to the operator
type ErrorMsg struct {
	Error error
	Title string
}

// SuccessMsg represents a completed operation surfaced to the operator
type SuccessMsg struct {
	Message string
	Title   string
}

// Event Bus for UI communication
var (
	// Bus carries operation results between screens. Operations are
	// user-paced, so a small buffer is enough; a full bus drops.
	Bus = make(chan tea.Msg, 64)
)

// PublishError publishes an error message to the UI bus
func PublishError(err error, title string) {
	select {
	case Bus <- ErrorMsg{Error: err, Title: title}:
	default:
	}
}

// PublishSuccess publishes a success message to the UI bus
func PublishSuccess(message, title string) {
	select {
	case Bus <- SuccessMsg{Message: message, Title: title}:
	default:
	}
}

// ListenBus returns a tea.Cmd that delivers the next bus message. The
// program re-arms it after every delivery.
func ListenBus() tea.Cmd {
	return func() tea.Msg {
		return <-Bus
	}
}

// Route represents different screens in the application
type Route int

const (
	RouteMainMenu Route = iota
	RouteWalletKey
	RouteRPC
	RouteKeypairs
	RouteFees
	RouteBundle
	RouteWallets
	RouteViewConfig
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteMainMenu:
		return "main_menu"
	case RouteWalletKey:
		return "wallet_key"
	case RouteRPC:
		return "rpc"
	case RouteKeypairs:
		return "keypairs"
	case RouteFees:
		return "fees"
	case RouteBundle:
		return "bundle"
	case RouteWallets:
		return "wallets"
	case RouteViewConfig:
		return "view_config"
	default:
		return "unknown"
	}
}
