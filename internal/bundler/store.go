// Package bundler is the domain core of the launch configuration tool: an
// explicit store over the env document, the derived checklist status, fee
// arithmetic, the wallet family and bundle planning. All mutations follow
// one sequence: validate, edit the document, reconcile, save.
package bundler

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/clearmetax/bundler/internal/envfile"
)

// Env document keys the tool manages. Anything else in the file passes
// through untouched.
const (
	EnvWalletKey     = "WALLET_PRIVATE_KEY"
	EnvRPCURL        = "RPC_URL"
	EnvMinTip        = "MIN_TIP_LAMPORTS"
	EnvTipPercent    = "TIP_PERCENT"
	EnvFeeRecipient  = "FEE_RECIPIENT"
	EnvBundleCreated = "POOL_BUNDLE_CREATED"
)

// MinKeyLength is the minimum accepted length for key material and
// addresses entered by the operator.
const MinKeyLength = 32

// Defaults seeds values offered before the operator has configured fees,
// plus the sample amount used by fee previews.
type Defaults struct {
	MinTipLamports uint64
	TipPercent     uint64
	FeeRecipient   string
	PreviewAmount  uint64
}

// Store owns the env document and everything derived from it. It is the
// single configuration context threaded through the UI; operations are not
// safe for concurrent use and are only called from the program loop.
type Store struct {
	path     string
	doc      *envfile.Document
	status   Status
	defaults Defaults
	logger   *zap.Logger
}

// Open loads the env document at path (creating an empty one in memory if
// the file does not exist yet) and reconciles the checklist status.
func Open(path string, defaults Defaults, logger *zap.Logger) (*Store, error) {
	doc, err := envfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env document: %w", err)
	}
	s := &Store{
		path:     path,
		doc:      doc,
		defaults: defaults,
		logger:   logger.Named("bundler"),
	}
	s.status = Reconcile(doc)
	s.logger.Info("📋 Env document loaded",
		zap.String("path", path),
		zap.Int("entries", doc.Len()))
	return s, nil
}

// Path returns the env document location.
func (s *Store) Path() string {
	return s.path
}

// Status returns the current checklist state.
func (s *Store) Status() Status {
	return s.status
}

// Defaults returns the configured fallback values.
func (s *Store) Defaults() Defaults {
	return s.defaults
}

// Get reads a raw value from the document.
func (s *Store) Get(key string) (string, bool) {
	return s.doc.Get(key)
}

// Pairs returns every KEY=VALUE entry in document order.
func (s *Store) Pairs() []envfile.Pair {
	return s.doc.Pairs()
}

// persist reconciles status from the mutated document, then saves it.
// When the save fails the in-memory state keeps the edit; the next
// successful save writes the full document.
func (s *Store) persist() error {
	s.status = Reconcile(s.doc)
	if err := s.doc.Save(s.path); err != nil {
		s.logger.Error("❌ Failed to save env document", zap.String("path", s.path), zap.Error(err))
		return err
	}
	return nil
}

// require checks checklist steps in order and reports the first unmet one.
func (s *Store) require(steps ...Step) error {
	for _, step := range steps {
		if !s.status.Done(step) {
			return fmt.Errorf("%w: %s", ErrPrerequisite, step.Requirement())
		}
	}
	return nil
}

// SetWalletKey stores the primary dev wallet private key. Only the length
// is checked here; full base58 decoding happens where key material is
// actually used, so a typo surfaces before the bundle step at the latest.
func (s *Store) SetWalletKey(raw string) error {
	key := strings.TrimSpace(raw)
	if len(key) < MinKeyLength {
		return fmt.Errorf("wallet key must be at least %d characters, got %d", MinKeyLength, len(key))
	}
	s.doc.Set(EnvWalletKey, key)
	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Info("✅ Dev wallet key saved")
	return nil
}

// SetRPCURL stores the RPC endpoint.
func (s *Store) SetRPCURL(raw string) error {
	url := strings.TrimSpace(raw)
	if url == "" {
		return fmt.Errorf("RPC URL cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		s.logger.Warn("⚠️ RPC URL has no http(s) scheme", zap.String("url", MaskRPCURL(url)))
	}
	s.doc.Set(EnvRPCURL, url)
	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Info("✅ RPC endpoint saved", zap.String("url", MaskRPCURL(url)))
	return nil
}

// ConfigureFees validates and stores the full tip schedule in one save.
func (s *Store) ConfigureFees(fees FeeSchedule) error {
	if err := fees.Validate(); err != nil {
		return err
	}
	s.doc.Set(EnvMinTip, strconv.FormatUint(fees.MinTipLamports, 10))
	s.doc.Set(EnvTipPercent, strconv.FormatUint(fees.TipPercent, 10))
	s.doc.Set(EnvFeeRecipient, strings.TrimSpace(fees.Recipient))
	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Info("✅ Bundle fees saved",
		zap.Uint64("min_tip_lamports", fees.MinTipLamports),
		zap.Uint64("tip_percent", fees.TipPercent))
	return nil
}

// FeeSchedule assembles the current schedule from the document, falling
// back to defaults for absent keys. Malformed stored values are reported
// with the offending key name.
func (s *Store) FeeSchedule() (FeeSchedule, error) {
	fees := FeeSchedule{
		MinTipLamports: s.defaults.MinTipLamports,
		TipPercent:     s.defaults.TipPercent,
		Recipient:      s.defaults.FeeRecipient,
	}
	if v, ok := s.doc.Get(EnvMinTip); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fees, fmt.Errorf("%s is not a valid integer: %w", EnvMinTip, err)
		}
		fees.MinTipLamports = n
	}
	if v, ok := s.doc.Get(EnvTipPercent); ok {
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fees, fmt.Errorf("%s is not a valid integer: %w", EnvTipPercent, err)
		}
		fees.TipPercent = n
	}
	if v, ok := s.doc.Get(EnvFeeRecipient); ok && strings.TrimSpace(v) != "" {
		fees.Recipient = strings.TrimSpace(v)
	}
	return fees, nil
}

// MaskRPCURL hides credential-looking query parameters in RPC URLs before
// they reach logs.
func MaskRPCURL(url string) string {
	idx := strings.Index(url, "api-key=")
	if idx < 0 {
		return url
	}
	end := strings.IndexByte(url[idx:], '&')
	if end < 0 {
		return url[:idx] + "api-key=***"
	}
	return url[:idx] + "api-key=***" + url[idx+end:]
}
