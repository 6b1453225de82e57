package bundler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"
)

const (
	walletKeyPrefix = "WALLET_"
	walletKeySuffix = "_PRIVATE_KEY"
)

// MaxKeypairBatch bounds a single keypair generation run.
const MaxKeypairBatch = 100

// WalletRole distinguishes the primary dev wallet from numbered buyers.
type WalletRole string

const (
	RoleDev   WalletRole = "dev"
	RoleBuyer WalletRole = "buyer"
)

// WalletEntry is one member of the wallet family in document order. Err is
// set when the stored key material does not decode; PublicKey is empty in
// that case.
type WalletEntry struct {
	Role      WalletRole
	EnvKey    string
	Index     int
	Value     string
	PublicKey string
	Err       error
}

// GeneratedWallet reports one freshly generated keypair.
type GeneratedWallet struct {
	EnvKey    string
	PublicKey string
}

// decodePrivateKey turns base58 key material into a usable keypair. Solana
// private keys are 64 bytes: the seed plus the embedded public key.
func decodePrivateKey(value string) (solana.PrivateKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(raw) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(raw))
	}
	return solana.PrivateKey(raw), nil
}

func numberedWalletKey(index int) string {
	return fmt.Sprintf("WALLET_%d_PRIVATE_KEY", index)
}

// numberedWalletIndex extracts N from WALLET_<N>_PRIVATE_KEY. The primary
// WALLET_PRIVATE_KEY does not match.
func numberedWalletIndex(key string) (int, bool) {
	if !strings.HasPrefix(key, walletKeyPrefix) || !strings.HasSuffix(key, walletKeySuffix) {
		return 0, false
	}
	middle := key[len(walletKeyPrefix) : len(key)-len(walletKeySuffix)]
	if middle == "" {
		return 0, false
	}
	n, err := strconv.Atoi(middle)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// IsWalletKey reports whether key holds private key material and must be
// masked before display.
func IsWalletKey(key string) bool {
	if key == EnvWalletKey {
		return true
	}
	_, ok := numberedWalletIndex(key)
	return ok
}

// IsManagedKey reports whether the tool recognizes key; anything else is a
// passthrough line the tool never touches.
func IsManagedKey(key string) bool {
	switch key {
	case EnvWalletKey, EnvRPCURL, EnvMinTip, EnvTipPercent, EnvFeeRecipient, EnvBundleCreated:
		return true
	}
	_, ok := numberedWalletIndex(key)
	return ok
}

// ListWallets returns the wallet family in document order: the dev wallet
// first if present, then every numbered wallet as stored in the file.
func (s *Store) ListWallets() []WalletEntry {
	var entries []WalletEntry
	if v, ok := s.doc.Get(EnvWalletKey); ok && strings.TrimSpace(v) != "" {
		entries = append(entries, newWalletEntry(RoleDev, EnvWalletKey, 0, v))
	}
	for _, p := range s.doc.PairsWithPrefix(walletKeyPrefix) {
		idx, ok := numberedWalletIndex(p.Key)
		if !ok {
			continue
		}
		entries = append(entries, newWalletEntry(RoleBuyer, p.Key, idx, p.Value))
	}
	return entries
}

func newWalletEntry(role WalletRole, envKey string, index int, value string) WalletEntry {
	entry := WalletEntry{Role: role, EnvKey: envKey, Index: index, Value: strings.TrimSpace(value)}
	pk, err := decodePrivateKey(entry.Value)
	if err != nil {
		entry.Err = err
		return entry
	}
	entry.PublicKey = pk.PublicKey().String()
	return entry
}

// numberedWallets is ListWallets without the dev entry.
func (s *Store) numberedWallets() []WalletEntry {
	var entries []WalletEntry
	for _, e := range s.ListWallets() {
		if e.Role == RoleBuyer {
			entries = append(entries, e)
		}
	}
	return entries
}

// nextWalletIndex allocates the next numbered slot: one past the highest
// existing suffix. Indices freed by removal are not reused.
func (s *Store) nextWalletIndex() int {
	next := 1
	for _, e := range s.numberedWallets() {
		if e.Index >= next {
			next = e.Index + 1
		}
	}
	return next
}

// AddWallet appends an operator-supplied key as the next numbered wallet.
func (s *Store) AddWallet(raw string) (WalletEntry, error) {
	key := strings.TrimSpace(raw)
	if len(key) < MinKeyLength {
		return WalletEntry{}, fmt.Errorf("wallet key must be at least %d characters, got %d", MinKeyLength, len(key))
	}
	idx := s.nextWalletIndex()
	envKey := numberedWalletKey(idx)
	s.doc.Set(envKey, key)
	if err := s.persist(); err != nil {
		return WalletEntry{}, err
	}
	entry := newWalletEntry(RoleBuyer, envKey, idx, key)
	s.logger.Info("✅ Wallet added", zap.String("env_key", envKey))
	return entry, nil
}

// RemoveWallet deletes the k-th numbered wallet (1-based, document order).
// Remaining wallets keep their indices.
func (s *Store) RemoveWallet(k int) (string, error) {
	wallets := s.numberedWallets()
	if k < 1 || k > len(wallets) {
		return "", fmt.Errorf("wallet %d does not exist: %d wallets configured", k, len(wallets))
	}
	target := wallets[k-1]
	s.doc.Unset(target.EnvKey)
	if err := s.persist(); err != nil {
		return "", err
	}
	s.logger.Info("🗑️ Wallet removed", zap.String("env_key", target.EnvKey))
	return target.EnvKey, nil
}

// PromoteWallet makes the k-th numbered wallet the dev wallet. An existing
// dev key swaps into the numbered slot; with no dev key the numbered line
// is simply removed.
func (s *Store) PromoteWallet(k int) error {
	wallets := s.numberedWallets()
	if k < 1 || k > len(wallets) {
		return fmt.Errorf("wallet %d does not exist: %d wallets configured", k, len(wallets))
	}
	target := wallets[k-1]

	if prev, ok := s.doc.Get(EnvWalletKey); ok && strings.TrimSpace(prev) != "" {
		s.doc.Set(EnvWalletKey, target.Value)
		s.doc.Set(target.EnvKey, strings.TrimSpace(prev))
	} else {
		s.doc.Set(EnvWalletKey, target.Value)
		s.doc.Unset(target.EnvKey)
	}
	if err := s.persist(); err != nil {
		return err
	}
	s.logger.Info("⭐ Wallet promoted to dev", zap.String("env_key", target.EnvKey))
	return nil
}

// CreateKeypairs generates count fresh Ed25519 keypairs and stores them in
// the next free numbered slots. Requires the wallet and RPC steps; also
// deep-validates the dev key so a bad paste surfaces here instead of at
// the bundle step.
func (s *Store) CreateKeypairs(count int) ([]GeneratedWallet, error) {
	if err := s.require(StepWallet, StepRPC); err != nil {
		return nil, err
	}
	if count < 1 || count > MaxKeypairBatch {
		return nil, fmt.Errorf("keypair count must be between 1 and %d, got %d", MaxKeypairBatch, count)
	}

	devKey, _ := s.doc.Get(EnvWalletKey)
	if _, err := decodePrivateKey(devKey); err != nil {
		return nil, fmt.Errorf("dev wallet key is not usable: %w", err)
	}

	next := s.nextWalletIndex()
	generated := make([]GeneratedWallet, 0, count)
	for i := 0; i < count; i++ {
		pk, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate keypair: %w", err)
		}
		envKey := numberedWalletKey(next + i)
		s.doc.Set(envKey, pk.String())
		generated = append(generated, GeneratedWallet{
			EnvKey:    envKey,
			PublicKey: pk.PublicKey().String(),
		})
	}
	if err := s.persist(); err != nil {
		return nil, err
	}

	s.logger.Info("🔑 Keypairs generated", zap.Int("count", count), zap.Int("first_index", next))
	for _, g := range generated {
		s.logger.Debug("Generated wallet", zap.String("env_key", g.EnvKey), zap.String("public_key", g.PublicKey))
	}
	return generated, nil
}
