// Package screen contains the Bubble Tea screens of the bundler TUI.
package screen

import (
	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/logger"
)

// Deps carries the shared dependencies every screen constructor receives.
type Deps struct {
	Store *bundler.Store
	Logs  *logger.LogBuffer
}
