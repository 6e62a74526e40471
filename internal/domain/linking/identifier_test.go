package linking

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveShareableID_Deterministic(t *testing.T) {
	codec := NewCodec("shareable-id-secret")

	ids := []string{"acc-1", "acc-2", "k7Qx93jf", ""}
	for _, id := range ids {
		first := codec.DeriveShareableID(id)
		second := codec.DeriveShareableID(id)
		if first != second {
			t.Errorf("DeriveShareableID(%q) not deterministic: %q != %q", id, first, second)
		}
	}
}

func TestDeriveShareableID_DoesNotRevealInput(t *testing.T) {
	codec := NewCodec("shareable-id-secret")

	accountID := "plaid-account-8842"
	shareable := codec.DeriveShareableID(accountID)

	if strings.Contains(shareable, accountID) {
		t.Errorf("DeriveShareableID(%q) = %q reveals the account id", accountID, shareable)
	}
	if shareable == "" {
		t.Error("DeriveShareableID() returned empty string")
	}
}

func TestDeriveShareableID_DistinctInputs(t *testing.T) {
	codec := NewCodec("shareable-id-secret")

	if codec.DeriveShareableID("acc-1") == codec.DeriveShareableID("acc-2") {
		t.Error("DeriveShareableID() collided for distinct inputs")
	}
}

func TestDeriveShareableID_KeyDependent(t *testing.T) {
	a := NewCodec("secret-a")
	b := NewCodec("secret-b")

	if a.DeriveShareableID("acc-1") == b.DeriveShareableID("acc-1") {
		t.Error("DeriveShareableID() ignored the derivation secret")
	}
}

func TestExtractCustomerReference(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "customer url",
			url:  "https://api.example.com/customers/8a2cdc8d-629d-4a24-98ac-40b735229fe2",
			want: "8a2cdc8d-629d-4a24-98ac-40b735229fe2",
		},
		{
			name: "funding source url",
			url:  "https://api.example.com/funding-sources/fs-17",
			want: "fs-17",
		},
		{
			name: "trailing slash",
			url:  "https://api.example.com/customers/cust-1/",
			want: "cust-1",
		},
		{
			name:    "no path segments",
			url:     "https://api.example.com",
			wantErr: true,
		},
		{
			name:    "root path only",
			url:     "https://api.example.com/",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractCustomerReference(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractCustomerReference(%q) expected error, got %q", tt.url, got)
				}
				if !errors.Is(err, ErrMalformedResourceURL) {
					t.Errorf("ExtractCustomerReference(%q) error = %v, want ErrMalformedResourceURL", tt.url, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractCustomerReference(%q) failed: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ExtractCustomerReference(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
