// internal/license/keygen.go
package license

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/keygen-sh/keygen-go/v3"
	"go.uber.org/zap"
)

const maxValidateTries = 5

// KeygenValidator handles license validation using Keygen.sh
type KeygenValidator struct {
	logger    *zap.Logger
	accountID string
	productID string
}

// NewKeygenValidator creates a new Keygen license validator
func NewKeygenValidator(accountID, productToken, productID string, logger *zap.Logger) *KeygenValidator {
	// Configure global Keygen settings
	keygen.Account = accountID
	keygen.Product = productID
	keygen.Token = productToken
	keygen.PublicKey = "" // Will be fetched automatically

	return &KeygenValidator{
		logger:    logger,
		accountID: accountID,
		productID: productID,
	}
}

// ValidateLicense validates a license key with Keygen. Transient API failures
// are retried with exponential backoff; activation and expiry outcomes are
// final and end the retry loop.
func (kv *KeygenValidator) ValidateLicense(ctx context.Context, licenseKey string) error {
	kv.logger.Info("🔑 Validating license: " + maskLicenseKey(licenseKey))

	fingerprint, err := kv.generateFingerprint()
	if err != nil {
		return fmt.Errorf("failed to generate machine fingerprint: %w", err)
	}

	keygen.LicenseKey = licenseKey

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = time.Second
	policy.MaxInterval = 10 * time.Second

	notify := func(err error, duration time.Duration) {
		kv.logger.Warn("Retrying license validation", zap.Error(err), zap.Duration("backoff", duration))
	}

	operation := func() (*keygen.License, error) {
		lic, err := keygen.Validate(ctx, fingerprint)
		switch {
		case errors.Is(err, keygen.ErrLicenseNotActivated):
			kv.logger.Info("License not activated, attempting activation")
			machine, activateErr := lic.Activate(ctx, fingerprint)
			if activateErr != nil {
				return nil, backoff.Permanent(fmt.Errorf("failed to activate license: %w", activateErr))
			}
			kv.logger.Info("License activated successfully",
				zap.String("machine_id", machine.ID),
				zap.String("fingerprint", fingerprint),
			)
			return lic, nil

		case errors.Is(err, keygen.ErrLicenseExpired):
			return nil, backoff.Permanent(errors.New("license has expired"))

		case err != nil:
			return nil, err
		}
		return lic, nil
	}

	lic, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(maxValidateTries),
		backoff.WithNotify(notify))
	if err != nil {
		return fmt.Errorf("license validation failed: %w", err)
	}
	if lic == nil {
		return errors.New("license not found")
	}

	kv.logger.Info("License validation successful",
		zap.String("license_id", lic.ID),
	)

	return nil
}

// HeartbeatLicense sends a heartbeat to keep the license active
func (kv *KeygenValidator) HeartbeatLicense(ctx context.Context, licenseKey string) error {
	keygen.LicenseKey = licenseKey

	fingerprint, err := kv.generateFingerprint()
	if err != nil {
		return fmt.Errorf("failed to generate machine fingerprint: %w", err)
	}

	_, err = keygen.Validate(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("heartbeat failed: %w", err)
	}

	kv.logger.Debug("License heartbeat sent successfully")
	return nil
}

// generateFingerprint creates a unique machine fingerprint from the hostname,
// the first active MAC address and the OS name.
func (kv *KeygenValidator) generateFingerprint() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}

	var mac string
	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 && len(iface.HardwareAddr) > 0 {
			mac = iface.HardwareAddr.String()
			break
		}
	}
	if mac == "" {
		return "", errors.New("no active network interfaces found")
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return fingerprintFrom(hostname, mac, runtime.GOOS), nil
}

func fingerprintFrom(hostname, mac, goos string) string {
	data := fmt.Sprintf("%s-%s-%s", hostname, mac, goos)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

func maskLicenseKey(key string) string {
	if len(key) <= 8 {
		return key
	}
	return key[:8] + "..."
}
