package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/clearmetax/bundler/internal/bundler"
	"github.com/clearmetax/bundler/internal/config"
	"github.com/clearmetax/bundler/internal/license"
	"github.com/clearmetax/bundler/internal/logger"
	"github.com/clearmetax/bundler/internal/ui"
	"github.com/clearmetax/bundler/internal/ui/router"
	"github.com/clearmetax/bundler/internal/ui/screen"
	"github.com/clearmetax/bundler/internal/ui/style"
)

// logBufferSize is how many entries stay in memory for the TUI footer
// before the oldest spill to the session file.
const logBufferSize = 200

// AppModel is the root Bubble Tea model: it owns the screen router,
// resolves navigation messages and renders the toast footer fed by the
// message bus.
type AppModel struct {
	router *router.Router
	deps   screen.Deps
	width  int
	height int

	toast        string
	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewAppModel creates the application model rooted at the main menu
func NewAppModel(deps screen.Deps) *AppModel {
	palette := style.DefaultPalette()

	return &AppModel{
		router: router.New(screen.NewMainMenuScreen(deps)),
		deps:   deps,

		successStyle: lipgloss.NewStyle().
			Foreground(palette.Success).
			Padding(0, 1),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error).
			Padding(0, 1),
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Init(),
		ui.ListenBus(),
	)
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.forward(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, m.forward(msg)

	case ui.RouterMsg:
		return m, m.handleNavigation(msg.To)

	case ui.ErrorMsg:
		m.toast = m.errorStyle.Render(fmt.Sprintf("❌ %s: %v", msg.Title, msg.Error))
		return m, ui.ListenBus()

	case ui.SuccessMsg:
		m.toast = m.successStyle.Render(fmt.Sprintf("✅ %s: %s", msg.Title, msg.Message))
		return m, ui.ListenBus()

	default:
		return m, m.forward(msg)
	}
}

// forward passes a message to the router and keeps the updated instance.
func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	updated, cmd := m.router.Update(msg)
	m.router = updated.(*router.Router)
	return cmd
}

// handleNavigation resolves a route into a stack operation: going back to
// the main menu pops the finished operation screen (which re-reads the
// store), anything else pushes on top of the menu.
func (m *AppModel) handleNavigation(route ui.Route) tea.Cmd {
	if route == ui.RouteMainMenu {
		if m.router.Depth() > 1 {
			return m.router.Pop()
		}
		return nil
	}

	next := m.newScreen(route)
	if next == nil {
		return nil
	}
	return m.router.Push(next)
}

// newScreen constructs the screen for a route.
func (m *AppModel) newScreen(route ui.Route) router.Screen {
	switch route {
	case ui.RouteWalletKey:
		return screen.NewWalletKeyScreen(m.deps)
	case ui.RouteRPC:
		return screen.NewRPCScreen(m.deps)
	case ui.RouteKeypairs:
		return screen.NewKeypairsScreen(m.deps)
	case ui.RouteFees:
		return screen.NewFeesScreen(m.deps)
	case ui.RouteBundle:
		return screen.NewBundleScreen(m.deps)
	case ui.RouteWallets:
		return screen.NewWalletsScreen(m.deps)
	case ui.RouteViewConfig:
		return screen.NewViewConfigScreen(m.deps)
	default:
		return nil
	}
}

// View renders the application with the toast footer
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	view := m.router.View()
	if m.toast != "" {
		view += "\n" + m.toast
	}
	return view
}

func main() {
	configPath := flag.String("config", "configs/bundler.json", "Path to config file")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Footer buffer plus a per-session spill file so a closed terminal
	// does not eat the history.
	sessionID := uuid.NewString()
	spillPath := filepath.Join(os.TempDir(), fmt.Sprintf("bundler-%s.log", sessionID))
	buffer, err := logger.NewLogBuffer(logBufferSize, spillPath, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to init log buffer: %v", err)
	}
	defer func() {
		_ = buffer.Close()
	}()

	var extraCores []zapcore.Core
	if cfg.LogFile != "" {
		fileWriter, err := logger.NewSafeFileWriter(cfg.LogFile, 2*time.Second, zap.NewNop())
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer func() {
			_ = fileWriter.Close()
		}()
		extraCores = append(extraCores, logger.NewFileCore(fileWriter, cfg.DebugLogging))
	}

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, buffer, extraCores...)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	appLogger.Info("🚀 Starting pool bundler",
		zap.String("session_id", sessionID),
		zap.String("env_path", cfg.EnvPath),
		zap.String("spill_file", spillPath))

	gate := license.NewGate(license.Options{
		License:      cfg.License,
		AccountID:    cfg.KeygenAccountID,
		ProductToken: cfg.KeygenProductToken,
		ProductID:    cfg.KeygenProductID,
	}, appLogger)
	if err := gate.Check(rootCtx); err != nil {
		log.Fatalf("License check failed: %v", err)
	}
	go gate.StartHeartbeat(rootCtx, license.DefaultHeartbeatInterval)

	store, err := bundler.Open(cfg.EnvPath, bundler.Defaults{
		MinTipLamports: cfg.DefaultMinTipLamports,
		TipPercent:     cfg.DefaultTipPercent,
		FeeRecipient:   cfg.DefaultFeeRecipient,
		PreviewAmount:  cfg.PreviewAmountLamports,
	}, appLogger)
	if err != nil {
		log.Fatalf("Failed to open env document: %v", err)
	}

	program := tea.NewProgram(
		NewAppModel(screen.Deps{Store: store, Logs: buffer}),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// A signal quits the program; normal menu exit ends Run on its own.
	go func() {
		<-rootCtx.Done()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.Fatalf("TUI application failed: %v", err)
	}

	appLogger.Info("👋 Bundler exited", zap.String("session_id", sessionID))
}
