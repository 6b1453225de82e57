package bundler

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
)

const (
	// LamportsPerSOL is the number of lamports in one SOL.
	LamportsPerSOL = 1_000_000_000

	// BaseFeeLamports is the flat per-transaction signature fee baked into
	// every total the tool reports.
	BaseFeeLamports = 5_000
)

// FeeSchedule describes the MEV tip settings for a bundle: an absolute
// floor, a percentage of the spend amount, and the tip destination.
type FeeSchedule struct {
	MinTipLamports uint64
	TipPercent     uint64
	Recipient      string
}

// Validate checks the schedule against the documented ranges.
func (f FeeSchedule) Validate() error {
	if f.TipPercent > 100 {
		return fmt.Errorf("tip percent must be between 0 and 100, got %d", f.TipPercent)
	}
	recipient := strings.TrimSpace(f.Recipient)
	if len(recipient) < MinKeyLength {
		return fmt.Errorf("fee recipient must be at least %d characters, got %d", MinKeyLength, len(recipient))
	}
	if _, err := solana.PublicKeyFromBase58(recipient); err != nil {
		return fmt.Errorf("fee recipient is not a valid Solana address: %w", err)
	}
	return nil
}

// Tip returns the tip for a spend amount: the percentage share of the
// amount, floored, but never below the configured minimum. The product is
// computed in 128 bits so large amounts cannot wrap.
func (f FeeSchedule) Tip(amount uint64) uint64 {
	percent := f.TipPercent
	if percent > 100 {
		percent = 100 // keeps Div64 in range
	}
	hi, lo := bits.Mul64(amount, percent)
	share, _ := bits.Div64(hi, lo, 100)
	if share < f.MinTipLamports {
		return f.MinTipLamports
	}
	return share
}

// Total returns base fee plus tip, saturating at the uint64 ceiling.
func (f FeeSchedule) Total(amount uint64) uint64 {
	tip := f.Tip(amount)
	if tip > math.MaxUint64-BaseFeeLamports {
		return math.MaxUint64
	}
	return BaseFeeLamports + tip
}

// FeePreview is a rendered cost projection for one spend amount.
type FeePreview struct {
	AmountLamports uint64
	TipLamports    uint64
	TotalLamports  uint64
}

// Preview projects the schedule onto a sample amount.
func (f FeeSchedule) Preview(amount uint64) FeePreview {
	return FeePreview{
		AmountLamports: amount,
		TipLamports:    f.Tip(amount),
		TotalLamports:  f.Total(amount),
	}
}

// FormatSOL renders lamports as a decimal SOL string without float
// rounding, trimming trailing zeros ("500005000" -> "0.500005").
func FormatSOL(lamports uint64) string {
	whole := lamports / LamportsPerSOL
	frac := lamports % LamportsPerSOL
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fracStr := strings.TrimRight(fmt.Sprintf("%09d", frac), "0")
	return fmt.Sprintf("%d.%s", whole, fracStr)
}
