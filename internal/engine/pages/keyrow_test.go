package pages

import (
	"testing"

	"gwconsole/internal/gateway"
)

func TestNewKeyRow(t *testing.T) {
	past := strPtr("2026-01-01T00:00:00Z")
	future := strPtr("2027-01-01T00:00:00Z")

	tests := []struct {
		name        string
		key         gateway.APIKey
		policy      RotatePolicy
		wantExpired bool
		wantRotate  bool
		wantRevoke  bool
	}{
		{name: "expired active key offers rotate", key: gateway.APIKey{Status: gateway.KeyActive, ExpiresAt: past}, policy: RotateExpired, wantExpired: true, wantRotate: true, wantRevoke: true},
		{name: "valid active key on detail page", key: gateway.APIKey{Status: gateway.KeyActive, ExpiresAt: future}, policy: RotateExpired, wantRevoke: true},
		{name: "unlimited active key on keys page", key: gateway.APIKey{Status: gateway.KeyActive}, policy: RotateActive, wantRotate: true, wantRevoke: true},
		{name: "revoked key never offers actions", key: gateway.APIKey{Status: gateway.KeyRevoked, ExpiresAt: past}, policy: RotateActive},
		{name: "portal is read only", key: gateway.APIKey{Status: gateway.KeyActive, ExpiresAt: past}, policy: ReadOnly, wantExpired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := NewKeyRow(tt.key, fixedNow, tt.policy)
			if row.Expired != tt.wantExpired {
				t.Errorf("Expected Expired=%v, got %v", tt.wantExpired, row.Expired)
			}
			if row.Can(ActionRotate) != tt.wantRotate {
				t.Errorf("Expected rotate=%v, got actions %v", tt.wantRotate, row.Actions)
			}
			if row.Can(ActionRevoke) != tt.wantRevoke {
				t.Errorf("Expected revoke=%v, got actions %v", tt.wantRevoke, row.Actions)
			}
			if row.Actions == nil {
				t.Error("Expected non-nil actions slice")
			}
		})
	}
}

func TestNewKeyRow_Text(t *testing.T) {
	row := NewKeyRow(gateway.APIKey{
		ID:                 "k1",
		Status:             gateway.KeyActive,
		MonthlyQuotaTokens: intPtr(1000),
		CreatedAt:          strPtr("2026-02-03T10:00:00"),
	}, fixedNow, RotateActive)

	if row.Expires != Unlimited || row.MonthlyQuota != "1000" || row.DailyQuota != Infinity || row.Created != "03/02/2026" {
		t.Errorf("Unexpected row text %+v", row)
	}

	row = NewKeyRow(gateway.APIKey{Status: gateway.KeyActive}, fixedNow, RotateActive)
	if row.Created != Placeholder {
		t.Errorf("Expected placeholder created text, got %s", row.Created)
	}
}
