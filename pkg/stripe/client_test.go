package stripe

import (
	"context"
	"testing"

	"github.com/spectra-eyewear/spectra-backend/pkg/config"
)

func TestNewClientRejectsMissingKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.StripeConfig{Env: "test"}, nil)
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNewClientRejectsEnvKeyMismatch(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StripeConfig
	}{
		{name: "live key in test env", cfg: config.StripeConfig{APIKey: "sk_live_abc", Env: "test"}},
		{name: "test key in live env", cfg: config.StripeConfig{APIKey: "sk_test_abc", Env: "live"}},
		{name: "unknown env", cfg: config.StripeConfig{APIKey: "sk_test_abc", Env: "sandbox"}},
	}

	for _, tt := range tests {
		if _, err := NewClient(context.Background(), tt.cfg, nil); err == nil {
			t.Fatalf("%s: expected error", tt.name)
		}
	}
}

func TestNewClientAcceptsMatchingKey(t *testing.T) {
	client, err := NewClient(context.Background(), config.StripeConfig{APIKey: "sk_test_abc", Env: ""}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.Environment() != "test" {
		t.Fatalf("expected test environment, got %q", client.Environment())
	}
	if client.API() == nil {
		t.Fatal("expected initialized api client")
	}
}
