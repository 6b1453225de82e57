package bundler

import (
	"math"
	"strings"
	"testing"
)

func TestFeeScheduleTip(t *testing.T) {
	tests := []struct {
		name      string
		minTip    uint64
		percent   uint64
		amount    uint64
		wantTip   uint64
		wantTotal uint64
	}{
		{
			name:      "half of one SOL",
			minTip:    10_000,
			percent:   50,
			amount:    1_000_000_000,
			wantTip:   500_000_000,
			wantTotal: 500_005_000,
		},
		{
			name:      "percent share floors",
			minTip:    0,
			percent:   50,
			amount:    3,
			wantTip:   1,
			wantTotal: 5_001,
		},
		{
			name:      "min tip dominates small share",
			minTip:    10_000,
			percent:   1,
			amount:    100,
			wantTip:   10_000,
			wantTotal: 15_000,
		},
		{
			name:      "zero percent falls back to min tip",
			minTip:    7_777,
			percent:   0,
			amount:    1_000_000_000,
			wantTip:   7_777,
			wantTotal: 12_777,
		},
		{
			name:      "max amount does not wrap",
			minTip:    0,
			percent:   100,
			amount:    math.MaxUint64,
			wantTip:   math.MaxUint64,
			wantTotal: math.MaxUint64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fees := FeeSchedule{MinTipLamports: tt.minTip, TipPercent: tt.percent}
			if got := fees.Tip(tt.amount); got != tt.wantTip {
				t.Errorf("Tip(%d) = %d, want %d", tt.amount, got, tt.wantTip)
			}
			if got := fees.Total(tt.amount); got != tt.wantTotal {
				t.Errorf("Total(%d) = %d, want %d", tt.amount, got, tt.wantTotal)
			}
		})
	}
}

func TestFeeScheduleValidate(t *testing.T) {
	tests := []struct {
		name    string
		fees    FeeSchedule
		wantErr bool
	}{
		{
			name:    "valid schedule",
			fees:    FeeSchedule{MinTipLamports: 10_000, TipPercent: 50, Recipient: testRecipient},
			wantErr: false,
		},
		{
			name:    "percent over limit",
			fees:    FeeSchedule{TipPercent: 101, Recipient: testRecipient},
			wantErr: true,
		},
		{
			name:    "percent at limit",
			fees:    FeeSchedule{TipPercent: 100, Recipient: testRecipient},
			wantErr: false,
		},
		{
			name:    "recipient too short",
			fees:    FeeSchedule{TipPercent: 50, Recipient: "abc"},
			wantErr: true,
		},
		{
			name:    "recipient not base58",
			fees:    FeeSchedule{TipPercent: 50, Recipient: strings.Repeat("0", 44)},
			wantErr: true,
		},
		{
			name:    "recipient empty",
			fees:    FeeSchedule{TipPercent: 50},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fees.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatSOL(t *testing.T) {
	tests := []struct {
		lamports uint64
		want     string
	}{
		{0, "0"},
		{5_000, "0.000005"},
		{500_005_000, "0.500005"},
		{1_000_000_000, "1"},
		{1_500_000_000, "1.5"},
		{2_000_000_001, "2.000000001"},
	}

	for _, tt := range tests {
		if got := FormatSOL(tt.lamports); got != tt.want {
			t.Errorf("FormatSOL(%d) = %q, want %q", tt.lamports, got, tt.want)
		}
	}
}

func TestFeePreview(t *testing.T) {
	fees := FeeSchedule{MinTipLamports: 10_000, TipPercent: 50, Recipient: testRecipient}
	p := fees.Preview(1_000_000_000)
	if p.AmountLamports != 1_000_000_000 || p.TipLamports != 500_000_000 || p.TotalLamports != 500_005_000 {
		t.Errorf("Preview() = %+v, want amount 1000000000, tip 500000000, total 500005000", p)
	}
}
