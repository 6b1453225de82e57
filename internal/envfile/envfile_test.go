package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "pairs with comments and blanks",
			data: "# launch config\nWALLET_PRIVATE_KEY=abc\n\nRPC_URL=https://example.com\n# trailing note\n",
		},
		{
			name: "unknown keys preserved",
			data: "CUSTOM_FLAG=yes\nWALLET_PRIVATE_KEY=abc\nANOTHER=1\n",
		},
		{
			name: "malformed lines kept verbatim",
			data: "=nokey\nnot a pair\n1BAD=value\nGOOD=1\n",
		},
		{
			name: "empty file",
			data: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.data)
			if got := doc.String(); got != tt.data {
				t.Errorf("String() = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestDocumentSet(t *testing.T) {
	t.Run("upsert keeps a single line", func(t *testing.T) {
		doc := Parse("RPC_URL=old\n")
		doc.Set("WALLET_PRIVATE_KEY", "first")
		doc.Set("WALLET_PRIVATE_KEY", "second")

		count := 0
		for _, p := range doc.Pairs() {
			if p.Key == "WALLET_PRIVATE_KEY" {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("WALLET_PRIVATE_KEY appears %d times, want 1", count)
		}
		if v, _ := doc.Get("WALLET_PRIVATE_KEY"); v != "second" {
			t.Errorf("Get() = %q, want %q", v, "second")
		}
	})

	t.Run("update rewrites only the target line", func(t *testing.T) {
		doc := Parse("# header\nA=1\nRPC_URL=old\nB=2\n")
		doc.Set("RPC_URL", "new")
		want := "# header\nA=1\nRPC_URL=new\nB=2\n"
		if got := doc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("missing key appended at end", func(t *testing.T) {
		doc := Parse("A=1\n")
		doc.Set("RPC_URL", "https://example.com")
		want := "A=1\nRPC_URL=https://example.com\n"
		if got := doc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("duplicates collapse to the first line", func(t *testing.T) {
		doc := Parse("K=1\nMID=x\nK=2\n")
		doc.Set("K", "3")
		want := "K=3\nMID=x\n"
		if got := doc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})
}

func TestDocumentUnset(t *testing.T) {
	doc := Parse("A=1\nB=2\nC=3\n")
	if !doc.Unset("B") {
		t.Fatal("Unset(B) = false, want true")
	}
	if doc.Unset("B") {
		t.Error("second Unset(B) = true, want false")
	}
	want := "A=1\nC=3\n"
	if got := doc.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestDocumentGet(t *testing.T) {
	doc := Parse("A=1\nA=2\n")
	if v, ok := doc.Get("A"); !ok || v != "1" {
		t.Errorf("Get(A) = %q, %v, want %q, true", v, ok, "1")
	}
	if _, ok := doc.Get("MISSING"); ok {
		t.Error("Get(MISSING) ok = true, want false")
	}
}

func TestDocumentHas(t *testing.T) {
	doc := Parse("A=1\nEMPTY=\nSPACES=   \n")
	tests := []struct {
		key  string
		want bool
	}{
		{"A", true},
		{"EMPTY", false},
		{"SPACES", false},
		{"MISSING", false},
	}
	for _, tt := range tests {
		if got := doc.Has(tt.key); got != tt.want {
			t.Errorf("Has(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestPairsWithPrefix(t *testing.T) {
	doc := Parse("WALLET_PRIVATE_KEY=dev\nRPC_URL=u\nWALLET_1_PRIVATE_KEY=a\nWALLET_3_PRIVATE_KEY=b\n")
	pairs := doc.PairsWithPrefix("WALLET_")
	wantKeys := []string{"WALLET_PRIVATE_KEY", "WALLET_1_PRIVATE_KEY", "WALLET_3_PRIVATE_KEY"}
	if len(pairs) != len(wantKeys) {
		t.Fatalf("PairsWithPrefix() returned %d entries, want %d", len(pairs), len(wantKeys))
	}
	for i, p := range pairs {
		if p.Key != wantKeys[i] {
			t.Errorf("pair[%d].Key = %q, want %q", i, p.Key, wantKeys[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	doc := New()
	doc.Set("WALLET_PRIVATE_KEY", "abc")
	doc.Set("RPC_URL", "https://example.com")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := loaded.String(); got != doc.String() {
		t.Errorf("round trip = %q, want %q", got, doc.String())
	}

	// saving again must be byte-identical
	if err := loaded.Save(path); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != doc.String() {
		t.Errorf("file content = %q, want %q", string(data), doc.String())
	}
}
