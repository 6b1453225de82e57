package bundler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/clearmetax/bundler/internal/envfile"
)

// ErrPrerequisite marks an operation rejected because an earlier checklist
// step is incomplete. The wrapped message names the first missing step.
var ErrPrerequisite = errors.New("prerequisite not met")

// Step identifies one entry of the launch checklist, in order:
// wallet -> rpc -> keypairs -> fees -> bundle.
type Step string

const (
	StepWallet   Step = "wallet"
	StepRPC      Step = "rpc"
	StepKeypairs Step = "keypairs"
	StepFees     Step = "fees"
	StepBundle   Step = "bundle"
)

// Title returns the checklist label shown in the UI.
func (s Step) Title() string {
	switch s {
	case StepWallet:
		return "Dev wallet key"
	case StepRPC:
		return "RPC endpoint"
	case StepKeypairs:
		return "Wallet keypairs"
	case StepFees:
		return "Bundle fees"
	case StepBundle:
		return "Pool bundle"
	}
	return string(s)
}

// Requirement returns the message used when the step blocks an operation.
func (s Step) Requirement() string {
	switch s {
	case StepWallet:
		return "wallet key not configured"
	case StepRPC:
		return "RPC endpoint not configured"
	case StepKeypairs:
		return "wallet keypairs not created"
	case StepFees:
		return "bundle fees not configured"
	case StepBundle:
		return "pool bundle not created"
	}
	return string(s) + " not ready"
}

// Status is the derived progress model. It is recomputed from the env
// document by Reconcile after load and after every mutation, never patched
// field by field.
type Status struct {
	WalletConfigured bool
	RPCConfigured    bool
	KeypairsCreated  bool
	FeesConfigured   bool
	BundleCreated    bool
}

// Done reports whether the given checklist step is complete.
func (st Status) Done(step Step) bool {
	switch step {
	case StepWallet:
		return st.WalletConfigured
	case StepRPC:
		return st.RPCConfigured
	case StepKeypairs:
		return st.KeypairsCreated
	case StepFees:
		return st.FeesConfigured
	case StepBundle:
		return st.BundleCreated
	}
	return false
}

// StepStatus pairs a checklist step with its completion state.
type StepStatus struct {
	Step Step
	Done bool
}

// Checklist returns every step with its state, in checklist order.
func (st Status) Checklist() []StepStatus {
	steps := []Step{StepWallet, StepRPC, StepKeypairs, StepFees, StepBundle}
	out := make([]StepStatus, 0, len(steps))
	for _, s := range steps {
		out = append(out, StepStatus{Step: s, Done: st.Done(s)})
	}
	return out
}

// Reconcile derives the full status from the document contents.
func Reconcile(doc *envfile.Document) Status {
	st := Status{
		WalletConfigured: doc.Has(EnvWalletKey),
		RPCConfigured:    doc.Has(EnvRPCURL),
		FeesConfigured:   doc.Has(EnvMinTip) && doc.Has(EnvTipPercent) && doc.Has(EnvFeeRecipient),
	}

	for _, p := range doc.PairsWithPrefix(walletKeyPrefix) {
		if _, ok := numberedWalletIndex(p.Key); ok && strings.TrimSpace(p.Value) != "" {
			st.KeypairsCreated = true
			break
		}
	}

	if v, ok := doc.Get(EnvBundleCreated); ok {
		created, err := strconv.ParseBool(strings.TrimSpace(v))
		st.BundleCreated = err == nil && created
	}

	return st
}
