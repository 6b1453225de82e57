package bundler

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BundleSigner is one wallet that would sign the launch bundle.
type BundleSigner struct {
	Role      WalletRole
	EnvKey    string
	PublicKey solana.PublicKey
}

// BundlePlan is the dry-run result of the final checklist step: every
// signer resolved from the env document plus the tip schedule projected on
// the preview amount. No transactions are built or submitted. ID ties log
// lines and the rendered plan to one run.
type BundlePlan struct {
	ID        string
	Signers   []BundleSigner
	Fees      FeeSchedule
	Recipient solana.PublicKey
	Preview   FeePreview
	CreatedAt time.Time
}

// CreateBundle verifies the whole checklist, resolves and deep-validates
// every wallet key, projects the fees, and records the bundle checkpoint
// in the document. Re-running refreshes the plan and rewrites the marker.
func (s *Store) CreateBundle() (*BundlePlan, error) {
	if err := s.require(StepWallet, StepRPC, StepKeypairs, StepFees); err != nil {
		return nil, err
	}

	fees, err := s.FeeSchedule()
	if err != nil {
		return nil, err
	}
	if err := fees.Validate(); err != nil {
		return nil, err
	}
	recipient, err := solana.PublicKeyFromBase58(fees.Recipient)
	if err != nil {
		return nil, fmt.Errorf("fee recipient is not a valid Solana address: %w", err)
	}

	var signers []BundleSigner
	for _, entry := range s.ListWallets() {
		pk, err := decodePrivateKey(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.EnvKey, err)
		}
		signers = append(signers, BundleSigner{
			Role:      entry.Role,
			EnvKey:    entry.EnvKey,
			PublicKey: pk.PublicKey(),
		})
	}

	plan := &BundlePlan{
		ID:        uuid.NewString(),
		Signers:   signers,
		Fees:      fees,
		Recipient: recipient,
		Preview:   fees.Preview(s.defaults.PreviewAmount),
		CreatedAt: time.Now(),
	}

	s.doc.Set(EnvBundleCreated, "true")
	if err := s.persist(); err != nil {
		return nil, err
	}

	s.logger.Info("📦 Pool bundle plan created",
		zap.String("plan_id", plan.ID),
		zap.Int("signers", len(signers)),
		zap.String("recipient", recipient.String()),
		zap.Uint64("tip_lamports", plan.Preview.TipLamports),
		zap.Uint64("total_lamports", plan.Preview.TotalLamports))
	return plan, nil
}
