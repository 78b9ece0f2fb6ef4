package gateway

import (
	"encoding/json"
	"strings"
	"time"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

type KeyRole string

const (
	RoleUser  KeyRole = "user"
	RoleAdmin KeyRole = "admin"
)

type KeyStatus string

const (
	KeyActive  KeyStatus = "active"
	KeyRevoked KeyStatus = "revoked"
)

type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserDisabled UserStatus = "disabled"
)

// Page is a paginated listing. The gateway sometimes answers list endpoints
// with a bare JSON array; that decodes as a single page whose total is the
// number of items.
type Page[T any] struct {
	Items    []T  `json:"items"`
	Page     *int `json:"page,omitempty"`
	PageSize *int `json:"page_size,omitempty"`
	Total    int  `json:"total"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*p = Page[T]{Items: items, Total: len(items)}
		return nil
	}

	var decoded struct {
		Items    []T  `json:"items"`
		Page     *int `json:"page"`
		PageSize *int `json:"page_size"`
		Total    *int `json:"total"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*p = Page[T]{Items: decoded.Items, Page: decoded.Page, PageSize: decoded.PageSize}
	if decoded.Total != nil {
		p.Total = *decoded.Total
	} else {
		p.Total = len(p.Items)
	}
	if p.Items == nil {
		p.Items = []T{}
	}
	return nil
}

type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     *string     `json:"email,omitempty"`
	Status    *UserStatus `json:"status,omitempty"`
	CreatedAt *string     `json:"created_at,omitempty"`
}

type UserDetail struct {
	User
	Keys []APIKey `json:"keys"`
}

type CreateUser struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

type UpdateUser struct {
	Name   *string     `json:"name,omitempty"`
	Email  *string     `json:"email,omitempty"`
	Status *UserStatus `json:"status,omitempty"`
}

type APIKey struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	Role               KeyRole   `json:"role"`
	Status             KeyStatus `json:"status"`
	Last4              string    `json:"last4"`
	MonthlyQuotaTokens *int64    `json:"monthly_quota_tokens,omitempty"`
	DailyRequestQuota  *int64    `json:"daily_request_quota,omitempty"`
	ExpiresAt          *string   `json:"expires_at,omitempty"`
	CreatedAt          *string   `json:"created_at,omitempty"`
}

// CreatedKey is returned by create and rotate. PlaintextKey is the only time
// the secret is visible.
type CreatedKey struct {
	APIKey
	PlaintextKey string `json:"plaintext_key,omitempty"`
}

type CreateKeyRequest struct {
	UserID             string  `json:"user_id"`
	Name               string  `json:"name"`
	Role               KeyRole `json:"role"`
	MonthlyQuotaTokens *int64  `json:"monthly_quota_tokens,omitempty"`
	DailyRequestQuota  *int64  `json:"daily_request_quota,omitempty"`
	ExpiresAt          *string `json:"expires_at,omitempty"`
}

type Organization struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Status            *string `json:"status,omitempty"`
	MonthlyTokenQuota *int64  `json:"monthly_token_quota,omitempty"`
}

type OrganizationInput struct {
	Name              *string `json:"name,omitempty"`
	Status            *string `json:"status,omitempty"`
	MonthlyTokenQuota *int64  `json:"monthly_token_quota,omitempty"`
}

type Team struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
}

type TeamInput struct {
	OrganizationID *string `json:"organization_id,omitempty"`
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
}

type Membership struct {
	ID     string  `json:"id"`
	TeamID string  `json:"team_id"`
	UserID string  `json:"user_id"`
	Role   *string `json:"role,omitempty"`
}

type MembershipInput struct {
	TeamID *string `json:"team_id,omitempty"`
	UserID *string `json:"user_id,omitempty"`
	Role   *string `json:"role,omitempty"`
}

type UsageTotals struct {
	TotalTokens  int64 `json:"total_tokens"`
	RequestCount int64 `json:"request_count"`
}

type UsagePoint struct {
	Day          string `json:"day"`
	TotalTokens  int64  `json:"total_tokens"`
	RequestCount int64  `json:"request_count"`
}

type UsageData struct {
	Totals     UsageTotals  `json:"totals"`
	Timeseries []UsagePoint `json:"timeseries"`
}

// KeyUsage is the per-key 30 day aggregate served to end users.
type KeyUsage struct {
	KeyID        string `json:"key_id"`
	RequestCount int64  `json:"request_count"`
	TotalTokens  int64  `json:"total_tokens"`
}

type RequestLog struct {
	ID             string   `json:"id,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
	Method         string   `json:"method,omitempty"`
	Endpoint       string   `json:"endpoint,omitempty"`
	StatusCode     int      `json:"status_code,omitempty"`
	ResponseTimeMS *float64 `json:"response_time_ms,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
	KeyID          string   `json:"key_id,omitempty"`
	TokensUsed     int64    `json:"tokens_used,omitempty"`
	ErrorMessage   string   `json:"error_message,omitempty"`
	RequestBody    string   `json:"request_body,omitempty"`
	ResponseBody   string   `json:"response_body,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

type RegisterResult struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes the gateway emits: RFC 3339,
// ISO 8601 without a zone (read as UTC) and bare dates.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
