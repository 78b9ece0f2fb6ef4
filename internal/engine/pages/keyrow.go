package pages

import (
	"time"

	"gwconsole/internal/gateway"
)

type Action string

const (
	ActionRevoke Action = "revoke"
	ActionRotate Action = "rotate"
)

// RotatePolicy decides which active keys offer a rotate action.
type RotatePolicy int

const (
	// RotateExpired offers rotate only on expired keys (user detail page).
	RotateExpired RotatePolicy = iota
	// RotateActive offers rotate on every active key (keys page).
	RotateActive
	// ReadOnly offers no actions at all (end-user portal).
	ReadOnly
)

type KeyRow struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Name         string   `json:"name"`
	Role         string   `json:"role"`
	Status       string   `json:"status"`
	Last4        string   `json:"last4"`
	Expired      bool     `json:"expired"`
	Expires      string   `json:"expires"`
	MonthlyQuota string   `json:"monthly_quota"`
	DailyQuota   string   `json:"daily_quota"`
	Created      string   `json:"created"`
	Actions      []Action `json:"actions"`
}

// IsExpired is true for an active key whose expiry has passed.
func IsExpired(key gateway.APIKey, now time.Time) bool {
	if key.Status != gateway.KeyActive || key.ExpiresAt == nil {
		return false
	}
	t, ok := gateway.ParseTimestamp(*key.ExpiresAt)
	return ok && t.Before(now)
}

func NewKeyRow(key gateway.APIKey, now time.Time, policy RotatePolicy) KeyRow {
	row := KeyRow{
		ID:           key.ID,
		UserID:       key.UserID,
		Name:         key.Name,
		Role:         string(key.Role),
		Status:       string(key.Status),
		Last4:        key.Last4,
		Expired:      IsExpired(key, now),
		Expires:      ExpiryText(key.ExpiresAt, now),
		MonthlyQuota: QuotaText(key.MonthlyQuotaTokens),
		DailyQuota:   QuotaText(key.DailyRequestQuota),
		Created:      FormatDate(key.CreatedAt),
		Actions:      []Action{},
	}

	if key.Status != gateway.KeyActive || policy == ReadOnly {
		return row
	}
	if policy == RotateActive || row.Expired {
		row.Actions = append(row.Actions, ActionRotate)
	}
	row.Actions = append(row.Actions, ActionRevoke)
	return row
}

// Can reports whether action is offered on the row.
func (r KeyRow) Can(action Action) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func newKeyRows(keys []gateway.APIKey, now time.Time, policy RotatePolicy) []KeyRow {
	rows := make([]KeyRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, NewKeyRow(key, now, policy))
	}
	return rows
}

// SecretView carries a freshly issued plaintext key. It is returned once and
// never stored.
type SecretView struct {
	KeyID        string `json:"key_id"`
	Name         string `json:"name"`
	PlaintextKey string `json:"plaintext_key"`
}

func newSecretView(key *gateway.CreatedKey) *SecretView {
	if key == nil || key.PlaintextKey == "" {
		return nil
	}
	return &SecretView{KeyID: key.ID, Name: key.Name, PlaintextKey: key.PlaintextKey}
}
