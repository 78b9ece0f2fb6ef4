// Package forms validates console input before anything is sent to the
// gateway and converts it into gateway request bodies.
package forms

import (
	"strconv"
	"strings"
	"time"

	"gwconsole/internal/gateway"
	"gwconsole/internal/pkg/validator"
)

const (
	MsgInvalidInput      = "Invalid form input"
	MsgNameRequired      = "Name is required"
	MsgEmailInvalid      = "Email must be valid"
	MsgNameOrEmail       = "Provide a name or email"
	MsgStatusInvalid     = "Invalid status"
	MsgUserInvalid       = "Select a valid user"
	MsgKeyNameRequired   = "Key name is required"
	MsgRoleInvalid       = "Role must be user or admin"
	MsgNonNegativeInt    = "Must be a non-negative integer"
	MsgExpiryRequired    = "Expiry date is required"
	MsgExpiryInvalid     = "Expiry date must be a valid date"
	MsgOrgRequired       = "Select an organization"
	MsgTeamRequired      = "Select a team"
	MsgEmailRequired     = "Email is required"
	MsgPasswordRequired  = "Password is required"
	MsgTeamNameRequired  = "Team name is required"
	MsgOrgNameRequired   = "Organization name is required"
	MsgMembershipUserReq = "Select a user"
	MsgMembershipRoleReq = "Role is required"
)

// ValidationError lists every failed rule in field order.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return MsgInvalidInput
	}
	return strings.Join(e.Messages, "; ")
}

type collector struct {
	messages []string
}

func (c *collector) add(msg string) {
	c.messages = append(c.messages, msg)
}

func (c *collector) err() error {
	if len(c.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: c.messages}
}

// optionalString trims v and maps "" to nil.
func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// optionalInt parses a non-negative integer; "" means unset.
func (c *collector) optionalInt(v string) *int64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		c.add(MsgNonNegativeInt)
		return nil
	}
	return &n
}

func (c *collector) optionalEmail(v string) *string {
	email := optionalString(v)
	if email != nil && !validator.IsEmail(*email) {
		c.add(MsgEmailInvalid)
	}
	return email
}

func (c *collector) role(v string) gateway.KeyRole {
	switch gateway.KeyRole(strings.TrimSpace(v)) {
	case "", gateway.RoleUser:
		return gateway.RoleUser
	case gateway.RoleAdmin:
		return gateway.RoleAdmin
	default:
		c.add(MsgRoleInvalid)
		return ""
	}
}

type CreateUserForm struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (f CreateUserForm) Validate() (gateway.CreateUser, error) {
	var c collector
	name := strings.TrimSpace(f.Name)
	if name == "" {
		c.add(MsgNameRequired)
	}
	email := c.optionalEmail(f.Email)
	return gateway.CreateUser{Name: name, Email: email}, c.err()
}

type UpdateUserForm struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

func (f UpdateUserForm) Validate() (gateway.UpdateUser, error) {
	var c collector
	input := gateway.UpdateUser{
		Name:  optionalString(f.Name),
		Email: c.optionalEmail(f.Email),
	}
	if status := strings.TrimSpace(f.Status); status != "" {
		s := gateway.UserStatus(status)
		switch s {
		case gateway.UserPending, gateway.UserApproved, gateway.UserDisabled:
			input.Status = &s
		default:
			c.add(MsgStatusInvalid)
		}
	}
	if input.Name == nil && input.Email == nil && input.Status == nil {
		c.add(MsgNameOrEmail)
	}
	return input, c.err()
}

// KeyFields are shared by the keys page modal and the inline form on the
// user detail page.
type KeyFields struct {
	Name         string `json:"name"`
	Role         string `json:"role"`
	MonthlyQuota string `json:"monthly_quota"`
	DailyQuota   string `json:"daily_quota"`
	// Unlimited defaults to true when nil.
	Unlimited *bool  `json:"unlimited,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

func (f KeyFields) unlimited() bool {
	return f.Unlimited == nil || *f.Unlimited
}

func (f KeyFields) validate(c *collector, userID string) gateway.CreateKeyRequest {
	req := gateway.CreateKeyRequest{UserID: userID}

	req.Name = strings.TrimSpace(f.Name)
	if req.Name == "" {
		c.add(MsgKeyNameRequired)
	}
	req.Role = c.role(f.Role)
	req.MonthlyQuotaTokens = c.optionalInt(f.MonthlyQuota)
	req.DailyRequestQuota = c.optionalInt(f.DailyQuota)

	if !f.unlimited() {
		expires := strings.TrimSpace(f.ExpiresAt)
		switch {
		case expires == "":
			c.add(MsgExpiryRequired)
		case !isDate(expires):
			c.add(MsgExpiryInvalid)
		default:
			req.ExpiresAt = &expires
		}
	}
	return req
}

func isDate(v string) bool {
	if _, err := time.Parse("2006-01-02", v); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, v)
	return err == nil
}

type CreateKeyForm struct {
	UserID string `json:"user_id"`
	KeyFields
}

func (f CreateKeyForm) Validate() (gateway.CreateKeyRequest, error) {
	var c collector
	userID := strings.TrimSpace(f.UserID)
	if !validator.IsUUID(userID) {
		c.add(MsgUserInvalid)
	}
	req := f.KeyFields.validate(&c, userID)
	return req, c.err()
}

// CreateKeyInlineForm is CreateKeyForm without the user picker; the user
// detail page supplies the owner.
type CreateKeyInlineForm struct {
	KeyFields
}

func (f CreateKeyInlineForm) Validate(userID string) (gateway.CreateKeyRequest, error) {
	var c collector
	req := f.KeyFields.validate(&c, userID)
	return req, c.err()
}

type OrganizationForm struct {
	Name              string `json:"name"`
	Status            string `json:"status"`
	MonthlyTokenQuota string `json:"monthly_token_quota"`
}

func (f OrganizationForm) Validate() (gateway.OrganizationInput, error) {
	var c collector
	input := f.input(&c)
	if input.Name == nil {
		c.messages = append([]string{MsgOrgNameRequired}, c.messages...)
	}
	return input, c.err()
}

// ValidateUpdate allows a partial update; at least one field must be set.
func (f OrganizationForm) ValidateUpdate() (gateway.OrganizationInput, error) {
	var c collector
	input := f.input(&c)
	if input.Name == nil && input.Status == nil && input.MonthlyTokenQuota == nil && len(c.messages) == 0 {
		c.add(MsgInvalidInput)
	}
	return input, c.err()
}

func (f OrganizationForm) input(c *collector) gateway.OrganizationInput {
	return gateway.OrganizationInput{
		Name:              optionalString(f.Name),
		Status:            optionalString(f.Status),
		MonthlyTokenQuota: c.optionalInt(f.MonthlyTokenQuota),
	}
}

type TeamForm struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
}

func (f TeamForm) Validate() (gateway.TeamInput, error) {
	var c collector
	input := gateway.TeamInput{
		OrganizationID: optionalString(f.OrganizationID),
		Name:           optionalString(f.Name),
		Description:    optionalString(f.Description),
	}
	if input.OrganizationID == nil {
		c.add(MsgOrgRequired)
	}
	if input.Name == nil {
		c.add(MsgTeamNameRequired)
	}
	return input, c.err()
}

func (f TeamForm) ValidateUpdate() (gateway.TeamInput, error) {
	var c collector
	input := gateway.TeamInput{
		Name:        optionalString(f.Name),
		Description: optionalString(f.Description),
	}
	if input.Name == nil && input.Description == nil {
		c.add(MsgTeamNameRequired)
	}
	return input, c.err()
}

type MembershipForm struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (f MembershipForm) Validate() (gateway.MembershipInput, error) {
	var c collector
	input := gateway.MembershipInput{
		TeamID: optionalString(f.TeamID),
		UserID: optionalString(f.UserID),
		Role:   optionalString(f.Role),
	}
	if input.TeamID == nil {
		c.add(MsgTeamRequired)
	}
	if input.UserID == nil {
		c.add(MsgMembershipUserReq)
	}
	return input, c.err()
}

// ValidateRole is used when only a membership's role changes.
func (f MembershipForm) ValidateRole() (gateway.MembershipInput, error) {
	var c collector
	role := optionalString(f.Role)
	if role == nil {
		c.add(MsgMembershipRoleReq)
	}
	return gateway.MembershipInput{Role: role}, c.err()
}

type RegisterForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f RegisterForm) Validate() (RegisterForm, error) {
	var c collector
	out := RegisterForm{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email), Password: f.Password}
	if out.Name == "" {
		c.add(MsgNameRequired)
	}
	switch {
	case out.Email == "":
		c.add(MsgEmailRequired)
	case !validator.IsEmail(out.Email):
		c.add(MsgEmailInvalid)
	}
	if out.Password == "" {
		c.add(MsgPasswordRequired)
	}
	return out, c.err()
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() (LoginForm, error) {
	var c collector
	out := LoginForm{Email: strings.TrimSpace(f.Email), Password: f.Password}
	if out.Email == "" {
		c.add(MsgEmailRequired)
	}
	if out.Password == "" {
		c.add(MsgPasswordRequired)
	}
	return out, c.err()
}
