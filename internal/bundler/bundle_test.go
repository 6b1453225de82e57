package bundler

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestCreateBundleGating(t *testing.T) {
	s := newTestStore(t)

	steps := []struct {
		name    string
		prepare func(t *testing.T)
		missing Step
	}{
		{
			name:    "nothing configured",
			prepare: func(t *testing.T) {},
			missing: StepWallet,
		},
		{
			name: "wallet only",
			prepare: func(t *testing.T) {
				if err := s.SetWalletKey(testWalletKey(t)); err != nil {
					t.Fatal(err)
				}
			},
			missing: StepRPC,
		},
		{
			name: "wallet and rpc",
			prepare: func(t *testing.T) {
				if err := s.SetRPCURL("https://api.mainnet-beta.solana.com"); err != nil {
					t.Fatal(err)
				}
			},
			missing: StepKeypairs,
		},
		{
			name: "everything but fees",
			prepare: func(t *testing.T) {
				if _, err := s.CreateKeypairs(2); err != nil {
					t.Fatal(err)
				}
			},
			missing: StepFees,
		},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepare(t)
			_, err := s.CreateBundle()
			if !errors.Is(err, ErrPrerequisite) {
				t.Fatalf("CreateBundle() error = %v, want ErrPrerequisite", err)
			}
			if !strings.Contains(err.Error(), tt.missing.Requirement()) {
				t.Errorf("error %q does not name %q", err, tt.missing.Requirement())
			}
		})
	}
}

func TestCreateBundle(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetWalletKey(testWalletKey(t)); err != nil {
		t.Fatalf("SetWalletKey() error = %v", err)
	}
	if err := s.SetRPCURL("https://api.mainnet-beta.solana.com"); err != nil {
		t.Fatalf("SetRPCURL() error = %v", err)
	}
	if _, err := s.CreateKeypairs(2); err != nil {
		t.Fatalf("CreateKeypairs() error = %v", err)
	}
	if err := s.ConfigureFees(FeeSchedule{MinTipLamports: 10_000, TipPercent: 50, Recipient: testRecipient}); err != nil {
		t.Fatalf("ConfigureFees() error = %v", err)
	}

	plan, err := s.CreateBundle()
	if err != nil {
		t.Fatalf("CreateBundle() error = %v", err)
	}

	if plan.ID == "" {
		t.Error("plan ID is empty")
	}
	if len(plan.Signers) != 3 {
		t.Errorf("plan has %d signers, want 3 (dev + 2 buyers)", len(plan.Signers))
	}
	if plan.Signers[0].Role != RoleDev {
		t.Errorf("first signer role = %s, want dev", plan.Signers[0].Role)
	}
	if plan.Recipient.String() != testRecipient {
		t.Errorf("plan recipient = %s, want %s", plan.Recipient, testRecipient)
	}
	if plan.Preview.TipLamports != 500_000_000 || plan.Preview.TotalLamports != 500_005_000 {
		t.Errorf("plan preview = %+v, want tip 500000000, total 500005000", plan.Preview)
	}

	if !s.Status().BundleCreated {
		t.Error("Status().BundleCreated = false after CreateBundle")
	}

	// the checkpoint survives a reopen
	reopened, err := Open(s.Path(), testDefaults(), zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !reopened.Status().BundleCreated {
		t.Error("BundleCreated not persisted across reopen")
	}
}

func TestCreateBundleReportsBadWalletKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	pk := testWalletKey(t)
	content := strings.Join([]string{
		"WALLET_PRIVATE_KEY=" + pk,
		"RPC_URL=https://api.mainnet-beta.solana.com",
		"WALLET_5_PRIVATE_KEY=" + strings.Repeat("x", 40),
		"MIN_TIP_LAMPORTS=10000",
		"TIP_PERCENT=50",
		"FEE_RECIPIENT=" + testRecipient,
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	s, err := Open(path, testDefaults(), zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err = s.CreateBundle()
	if err == nil || !strings.Contains(err.Error(), "WALLET_5_PRIVATE_KEY") {
		t.Errorf("CreateBundle() error = %v, want failure naming WALLET_5_PRIVATE_KEY", err)
	}
}
