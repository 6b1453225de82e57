// Package license gates startup behind a license check. Three modes are
// supported: an empty key runs the tool unlicensed with a warning, a key
// plus Keygen.sh credentials is validated online against the machine
// fingerprint, and a key without credentials gets a basic offline check.
package license

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const minLicenseLength = 8

// DefaultHeartbeatInterval is how often an online-validated license is
// re-validated to keep its machine activation alive.
const DefaultHeartbeatInterval = 10 * time.Minute

// Options carries the licensing fields from application config.
type Options struct {
	License      string
	AccountID    string
	ProductToken string
	ProductID    string
}

// Gate decides which validation mode applies and runs it.
type Gate struct {
	opts      Options
	logger    *zap.Logger
	validator *KeygenValidator
}

func NewGate(opts Options, logger *zap.Logger) *Gate {
	g := &Gate{opts: opts, logger: logger}
	if opts.License != "" && opts.AccountID != "" && opts.ProductToken != "" && opts.ProductID != "" {
		g.validator = NewKeygenValidator(opts.AccountID, opts.ProductToken, opts.ProductID, logger)
	}
	return g
}

// Check enforces the startup license gate.
func (g *Gate) Check(ctx context.Context) error {
	if g.opts.License == "" {
		g.logger.Warn("⚠️ No license key configured, running unlicensed")
		return nil
	}

	if g.validator != nil {
		if err := g.validator.ValidateLicense(ctx, g.opts.License); err != nil {
			return fmt.Errorf("keygen validation failed: %w", err)
		}
		g.logger.Info("✅ License validated with Keygen.sh")
		return nil
	}

	return g.checkOffline()
}

// checkOffline performs basic license validation when no Keygen credentials
// are configured.
func (g *Gate) checkOffline() error {
	if len(g.opts.License) < minLicenseLength {
		return fmt.Errorf("license key is too short")
	}
	g.logger.Info("✅ License validated (basic mode)")
	return nil
}

// StartHeartbeat periodically re-validates an online license until the
// context is cancelled. It returns immediately in unlicensed and offline
// modes. Heartbeat failures are logged and do not end a running session.
func (g *Gate) StartHeartbeat(ctx context.Context, interval time.Duration) {
	if g.validator == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.validator.HeartbeatLicense(ctx, g.opts.License); err != nil {
				g.logger.Warn("License heartbeat failed", zap.Error(err))
			}
		}
	}
}
