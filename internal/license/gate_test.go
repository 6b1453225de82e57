package license

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGateCheckOfflineModes(t *testing.T) {
	tests := []struct {
		name    string
		license string
		wantErr bool
	}{
		{
			name:    "empty license runs unlicensed",
			license: "",
			wantErr: false,
		},
		{
			name:    "short license rejected",
			license: "abc",
			wantErr: true,
		},
		{
			name:    "minimum length accepted",
			license: "12345678",
			wantErr: false,
		},
		{
			name:    "long license accepted",
			license: "BUNDLER-AAAA-BBBB-CCCC-DDDD",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(Options{License: tt.license}, zap.NewNop())
			err := gate.Check(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewGateModeSelection(t *testing.T) {
	tests := []struct {
		name          string
		opts          Options
		wantValidator bool
	}{
		{
			name:          "no credentials stays offline",
			opts:          Options{License: "BUNDLER-AAAA-BBBB"},
			wantValidator: false,
		},
		{
			name: "partial credentials stay offline",
			opts: Options{
				License:   "BUNDLER-AAAA-BBBB",
				AccountID: "acct",
				ProductID: "prod",
			},
			wantValidator: false,
		},
		{
			name: "full credentials select keygen",
			opts: Options{
				License:      "BUNDLER-AAAA-BBBB",
				AccountID:    "acct",
				ProductToken: "token",
				ProductID:    "prod",
			},
			wantValidator: true,
		},
		{
			name: "credentials without license stay offline",
			opts: Options{
				AccountID:    "acct",
				ProductToken: "token",
				ProductID:    "prod",
			},
			wantValidator: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(tt.opts, zap.NewNop())
			if (gate.validator != nil) != tt.wantValidator {
				t.Errorf("NewGate() validator = %v, want %v", gate.validator != nil, tt.wantValidator)
			}
		})
	}
}

func TestStartHeartbeatReturnsWithoutValidator(t *testing.T) {
	gate := NewGate(Options{License: "BUNDLER-AAAA-BBBB"}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		gate.StartHeartbeat(context.Background(), time.Minute)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartHeartbeat() did not return for an offline gate")
	}
}

func TestFingerprintFrom(t *testing.T) {
	fp := fingerprintFrom("host", "aa:bb:cc:dd:ee:ff", "linux")

	if len(fp) != 64 {
		t.Errorf("fingerprintFrom() length = %d, want 64", len(fp))
	}
	if strings.ToLower(fp) != fp {
		t.Errorf("fingerprintFrom() = %q, want lowercase hex", fp)
	}
	if again := fingerprintFrom("host", "aa:bb:cc:dd:ee:ff", "linux"); again != fp {
		t.Errorf("fingerprintFrom() not deterministic: %q vs %q", fp, again)
	}
	if other := fingerprintFrom("host", "11:22:33:44:55:66", "linux"); other == fp {
		t.Error("fingerprintFrom() should change when the MAC changes")
	}
}

func TestMaskLicenseKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{name: "long key masked", key: "BUNDLER-AAAA-BBBB-CCCC", want: "BUNDLER-..."},
		{name: "short key untouched", key: "short", want: "short"},
		{name: "exact boundary untouched", key: "12345678", want: "12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := maskLicenseKey(tt.key); got != tt.want {
				t.Errorf("maskLicenseKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
