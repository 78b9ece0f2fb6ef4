package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gwconsole/internal/app"
	"gwconsole/internal/engine/adminauth"
	"gwconsole/internal/engine/forms"
	"gwconsole/internal/engine/pages"
	"gwconsole/internal/engine/userauth"
	"gwconsole/internal/gateway"
)

// ErrAdminRequired is returned by admin commands before any gateway call
// when no validated admin key is held.
var ErrAdminRequired = errors.New("admin API key required; run 'gwconsole admin login <key>'")

type console struct {
	c *app.Console
	p *Printer
}

// NewRoot builds the full command tree over an assembled console.
func NewRoot(c *app.Console, p *Printer) *Command {
	k := &console{c: c, p: p}
	return &Command{
		Name:    "gwconsole",
		Summary: "Administration and self-service console for the LLM gateway.",
		Subcommands: []*Command{
			k.adminCommand(),
			k.usersCommand(),
			k.keysCommand(),
			k.usageCommand(),
			{
				Name:    "requests",
				Summary: "Most recent gateway requests",
				Run:     k.admin(k.requests),
				Subcommands: []*Command{
					{Name: "show", Summary: "Show one request with its bodies", Usage: "gwconsole requests show <request-id>", Run: k.admin(k.requestDetail)},
				},
			},
			{Name: "dashboard", Summary: "Headline counts", Run: k.admin(k.dashboard)},
			k.orgsCommand(),
			k.teamsCommand(),
			k.membersCommand(),
			k.portalCommand(),
			k.themeCommand(),
		},
	}
}

func (k *console) admin(run func(ctx context.Context, args []string) error) func(ctx context.Context, args []string) error {
	return func(ctx context.Context, args []string) error {
		if !k.c.Admin.Authenticated() {
			return ErrAdminRequired
		}
		return run(ctx, args)
	}
}

func exactArgs(args []string, names ...string) error {
	if len(args) != len(names) {
		return fmt.Errorf("expected %d argument(s): %s", len(names), strings.Join(names, " "))
	}
	return nil
}

// --- admin session ---

func (k *console) adminCommand() *Command {
	return &Command{
		Name:    "admin",
		Summary: "Manage the stored admin API key",
		Subcommands: []*Command{
			{Name: "status", Summary: "Show whether an admin key is held", Run: k.adminStatus},
			{Name: "login", Summary: "Validate and store an admin API key", Usage: "gwconsole admin login <api-key>", Run: k.adminLogin},
			{Name: "logout", Summary: "Forget the stored admin API key", Run: k.adminLogout},
		},
	}
}

func (k *console) adminStatus(ctx context.Context, args []string) error {
	status := k.c.Admin.Status()
	hint := status.KeyHint
	if hint == "" {
		hint = pages.Placeholder
	}
	k.p.Fields([][2]string{
		{"Gateway", k.c.Gateway.BaseURL()},
		{"Authenticated", strconv.FormatBool(status.Authenticated)},
		{"Key", hint},
	})
	return nil
}

func (k *console) adminLogin(ctx context.Context, args []string) error {
	key := ""
	if len(args) > 0 {
		key = strings.TrimSpace(args[0])
	}
	if key == "" {
		return errors.New(adminauth.MsgKeyRequired)
	}
	if err := k.c.Admin.Login(ctx, key); err != nil {
		var apiErr *gateway.APIError
		if errors.As(err, &apiErr) {
			return errors.New(adminauth.MsgKeyInvalid)
		}
		return err
	}
	k.p.Notice(pages.Notice{Message: "Admin API key saved"})
	return nil
}

func (k *console) adminLogout(ctx context.Context, args []string) error {
	if err := k.c.Admin.Logout(ctx); err != nil {
		return err
	}
	k.p.Notice(pages.Notice{Message: "Signed out"})
	return nil
}

// --- users ---

func (k *console) usersCommand() *Command {
	var (
		query  = pages.DefaultUsersQuery()
		dir    string
		create forms.CreateUserForm
		update forms.UpdateUserForm
	)
	listFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("users list", pflag.ContinueOnError)
		fs.IntVar(&query.Page, "page", pages.FirstPage, "page number")
		fs.IntVar(&query.PageSize, "page-size", pages.DefaultPageSize, "rows per page")
		fs.StringVar(&query.SortBy, "sort", "created_at", "sort column")
		fs.StringVar(&dir, "dir", string(gateway.SortDesc), "sort direction (asc or desc)")
		fs.StringVarP(&query.Search, "search", "q", "", "filter by name or email")
		return fs
	}
	createFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("users create", pflag.ContinueOnError)
		fs.StringVar(&create.Name, "name", "", "display name")
		fs.StringVar(&create.Email, "email", "", "email address")
		return fs
	}
	updateFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("users update", pflag.ContinueOnError)
		fs.StringVar(&update.Name, "name", "", "new display name")
		fs.StringVar(&update.Email, "email", "", "new email address")
		fs.StringVar(&update.Status, "status", "", "new status")
		return fs
	}

	return &Command{
		Name:    "users",
		Summary: "List, create and edit users",
		Subcommands: []*Command{
			{Name: "list", Summary: "List users", Flags: listFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				query.SortDir = gateway.SortDir(dir)
				view, err := k.c.Pages.Users.Load(ctx, query)
				if err != nil {
					return err
				}
				k.printUsers(view)
				return nil
			})},
			{Name: "create", Summary: "Create a user", Flags: createFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Users.Create(ctx, pages.DefaultUsersQuery(), create)
				if err != nil {
					return err
				}
				k.printUsers(view)
				return nil
			})},
			{Name: "show", Summary: "Show a user and their keys", Usage: "gwconsole users show <user-id>", Run: k.admin(func(ctx context.Context, args []string) error {
				if err := exactArgs(args, "user-id"); err != nil {
					return err
				}
				view, err := k.c.Pages.UserDetail.Load(ctx, args[0])
				if err != nil {
					return err
				}
				k.printUserDetail(view)
				return nil
			})},
			{Name: "update", Summary: "Update a user's name, email or status", Usage: "gwconsole users update <user-id> [flags]", Flags: updateFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				if err := exactArgs(args, "user-id"); err != nil {
					return err
				}
				view, err := k.c.Pages.UserDetail.Update(ctx, args[0], update)
				if err != nil {
					return err
				}
				k.printUserDetail(view)
				return nil
			})},
		},
	}
}

func (k *console) printUsers(view *pages.UsersView) {
	if view == nil {
		return
	}
	k.p.Notice(view.Notice)
	rows := make([][]string, 0, len(view.Users))
	for _, u := range view.Users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Status, u.Created})
	}
	k.p.Table([]string{"ID", "NAME", "EMAIL", "STATUS", "CREATED"}, rows)
	k.p.Pager(view.Pager)
}

func (k *console) printUserDetail(view *pages.UserDetailView) {
	k.p.Notice(view.Notice)
	k.p.Println(view.Breadcrumb)
	if view.User != nil {
		k.p.Fields([][2]string{
			{"ID", view.User.ID},
			{"Name", view.User.Name},
			{"Email", view.User.Email},
			{"Status", view.User.Status},
			{"Created", view.User.Created},
		})
	}
	k.p.Secret(view.Secret)
	k.printKeyRows(view.Keys)
}

func (k *console) printKeyRows(keys []pages.KeyRow) {
	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		actions := make([]string, 0, len(key.Actions))
		for _, a := range key.Actions {
			actions = append(actions, string(a))
		}
		rows = append(rows, []string{
			key.ID, key.Name, "…" + key.Last4, key.Role, key.Status,
			key.Expires, key.MonthlyQuota, key.DailyQuota, key.Created,
			strings.Join(actions, ","),
		})
	}
	k.p.Table([]string{"ID", "NAME", "KEY", "ROLE", "STATUS", "EXPIRES", "MONTHLY", "DAILY", "CREATED", "ACTIONS"}, rows)
}

// --- keys ---

func (k *console) keysCommand() *Command {
	var (
		query   = pages.DefaultKeysQuery()
		dir     string
		expired string
		form    forms.CreateKeyForm
	)
	listFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("keys list", pflag.ContinueOnError)
		fs.IntVar(&query.Page, "page", pages.FirstPage, "page number")
		fs.IntVar(&query.PageSize, "page-size", pages.DefaultPageSize, "rows per page")
		fs.StringVar(&query.SortBy, "sort", "created_at", "sort column")
		fs.StringVar(&dir, "dir", string(gateway.SortDesc), "sort direction (asc or desc)")
		fs.StringVar(&query.Status, "status", pages.StatusAll, "all, active or revoked")
		fs.StringVarP(&query.Search, "search", "q", "", "filter by key name")
		fs.StringVar(&expired, "expired", "", "true lists only expired keys, false only unexpired ones")
		return fs
	}
	createFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("keys create", pflag.ContinueOnError)
		fs.StringVar(&form.UserID, "user", "", "owner user id")
		k.keyFieldFlags(fs, &form.KeyFields)
		return fs
	}
	keyAction := func(do func(ctx context.Context, q pages.KeysQuery, id string) (*pages.KeysView, error)) func(ctx context.Context, args []string) error {
		return k.admin(func(ctx context.Context, args []string) error {
			if err := exactArgs(args, "key-id"); err != nil {
				return err
			}
			view, err := do(ctx, pages.DefaultKeysQuery(), args[0])
			if err != nil {
				return err
			}
			k.printKeys(view)
			return nil
		})
	}

	return &Command{
		Name:    "keys",
		Summary: "List, issue, revoke and rotate API keys",
		Subcommands: []*Command{
			{Name: "list", Summary: "List API keys", Flags: listFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				query.SortDir = gateway.SortDir(dir)
				filter, err := expiryFilter(expired)
				if err != nil {
					return err
				}
				query.Expired = filter
				view, err := k.c.Pages.Keys.Load(ctx, query)
				if err != nil {
					return err
				}
				k.printKeys(view)
				return nil
			})},
			{Name: "create", Summary: "Issue a key; the secret is shown once", Flags: createFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				form.KeyFields = limitedByExpiry(form.KeyFields)
				view, err := k.c.Pages.Keys.Create(ctx, pages.DefaultKeysQuery(), form)
				if err != nil {
					return err
				}
				k.printKeys(view)
				return nil
			})},
			{Name: "revoke", Summary: "Revoke a key", Usage: "gwconsole keys revoke <key-id>", Run: keyAction(k.c.Pages.Keys.Revoke)},
			{Name: "rotate", Summary: "Rotate a key; the new secret is shown once", Usage: "gwconsole keys rotate <key-id>", Run: keyAction(k.c.Pages.Keys.Rotate)},
		},
	}
}

// keyFieldFlags binds the shared key form. A key without --expires is
// unlimited.
func (k *console) keyFieldFlags(fs *pflag.FlagSet, f *forms.KeyFields) {
	fs.StringVar(&f.Name, "name", "", "key name")
	fs.StringVar(&f.Role, "role", string(gateway.RoleUser), "user or admin")
	fs.StringVar(&f.MonthlyQuota, "monthly-quota", "", "monthly token quota (empty for none)")
	fs.StringVar(&f.DailyQuota, "daily-quota", "", "daily request quota (empty for none)")
	fs.StringVar(&f.ExpiresAt, "expires", "", "expiry date (YYYY-MM-DD); omit for an unlimited key")
}

func limitedByExpiry(f forms.KeyFields) forms.KeyFields {
	unlimited := strings.TrimSpace(f.ExpiresAt) == ""
	f.Unlimited = &unlimited
	return f
}

// expiryFilter maps --expired onto the list filter; empty means no filter.
func expiryFilter(raw string) (*bool, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("--expired must be true or false, got %q", raw)
	}
	return &b, nil
}

func (k *console) printKeys(view *pages.KeysView) {
	if view == nil {
		return
	}
	k.p.Notice(view.Notice)
	k.p.Secret(view.Secret)
	k.printKeyRows(view.Keys)
	k.p.Pager(view.Pager)
}

// --- usage, requests, dashboard ---

func (k *console) usageCommand() *Command {
	var q pages.UsageQuery
	flags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("usage", pflag.ContinueOnError)
		fs.StringVar(&q.From, "from", "", "first day (YYYY-MM-DD), default 30 days ago")
		fs.StringVar(&q.To, "to", "", "last day (YYYY-MM-DD), default today")
		fs.StringVar(&q.KeyID, "key", "", "restrict to one key id")
		return fs
	}
	return &Command{
		Name:    "usage",
		Summary: "Token usage over a date range",
		Usage:   "gwconsole usage [--from DATE] [--to DATE] [--key KEY_ID]",
		Flags:   flags,
		Run: k.admin(func(ctx context.Context, args []string) error {
			view, err := k.c.Pages.Usage.Load(ctx, q)
			if err != nil {
				return err
			}
			k.p.Fields([][2]string{
				{"Range", view.Query.From + " to " + view.Query.To},
				{"Tokens", view.Tokens},
				{"Requests", view.Requests},
			})
			rows := make([][]string, 0, len(view.Timeseries))
			for _, point := range view.Timeseries {
				rows = append(rows, []string{point.Day, point.Tokens, point.Requests})
			}
			k.p.Table([]string{"DAY", "TOKENS", "REQUESTS"}, rows)
			return nil
		}),
	}
}

func (k *console) requests(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q\n\nRun 'gwconsole requests --help' for usage.", args[0])
	}
	view, err := k.c.Pages.Requests.Load(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(view.Requests))
	for _, r := range view.Requests {
		rows = append(rows, []string{r.ID, r.Time, r.Method, r.Endpoint, strconv.Itoa(r.StatusCode), r.ResponseTime, r.Tokens, r.ErrorMessage})
	}
	k.p.Table([]string{"ID", "TIME", "METHOD", "ENDPOINT", "STATUS", "LATENCY", "TOKENS", "ERROR"}, rows)
	return nil
}

func (k *console) requestDetail(ctx context.Context, args []string) error {
	if err := exactArgs(args, "request-id"); err != nil {
		return err
	}
	view, err := k.c.Pages.Requests.Load(ctx)
	if err != nil {
		return err
	}
	row := view.Find(args[0])
	if row == nil {
		return fmt.Errorf("request %q not found in recent logs", args[0])
	}

	k.p.Fields([][2]string{
		{"ID", row.ID},
		{"Time", row.Time},
		{"Request", row.Method + " " + row.Endpoint},
		{"Status", strconv.Itoa(row.StatusCode)},
		{"Latency", row.ResponseTime},
		{"Tokens", row.Tokens},
		{"User", orPlaceholder(row.UserID)},
		{"Key", orPlaceholder(row.KeyID)},
		{"Error", orPlaceholder(row.ErrorMessage)},
	})
	k.p.Body("Request body", row.RequestBody)
	k.p.Body("Response body", row.ResponseBody)
	return nil
}

func orPlaceholder(v string) string {
	if v == "" {
		return pages.Placeholder
	}
	return v
}

func (k *console) dashboard(ctx context.Context, args []string) error {
	view, err := k.c.Pages.Dashboard.Load(ctx)
	if err != nil {
		return err
	}
	k.p.Fields([][2]string{
		{"Users", strconv.Itoa(view.Users)},
		{"Keys", strconv.Itoa(view.Keys)},
		{"Active keys", strconv.Itoa(view.ActiveKeys)},
		{"Tokens (30d)", view.Tokens},
		{"Requests (30d)", view.Requests},
	})
	return nil
}

// --- organizations, teams, memberships ---

func (k *console) orgsCommand() *Command {
	var form forms.OrganizationForm
	createFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("orgs create", pflag.ContinueOnError)
		fs.StringVar(&form.Name, "name", "", "organization name")
		fs.StringVar(&form.Status, "status", "", "organization status")
		fs.StringVar(&form.MonthlyTokenQuota, "quota", "", "monthly token quota (empty for none)")
		return fs
	}
	show := func(view *pages.OrganizationsView) {
		k.p.Notice(view.Notice)
		rows := make([][]string, 0, len(view.Organizations))
		for _, o := range view.Organizations {
			rows = append(rows, []string{o.ID, o.Name, o.Status, o.Quota})
		}
		k.p.Table([]string{"ID", "NAME", "STATUS", "QUOTA"}, rows)
	}

	return &Command{
		Name:    "orgs",
		Summary: "Manage organizations",
		Subcommands: []*Command{
			{Name: "list", Summary: "List organizations", Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Organizations.Load(ctx)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "create", Summary: "Create an organization", Flags: createFlags, Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Organizations.Create(ctx, form)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "delete", Summary: "Delete an organization", Usage: "gwconsole orgs delete <org-id>", Run: k.admin(func(ctx context.Context, args []string) error {
				if err := exactArgs(args, "org-id"); err != nil {
					return err
				}
				view, err := k.c.Pages.Organizations.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
		},
	}
}

func (k *console) teamsCommand() *Command {
	var (
		orgID string
		form  forms.TeamForm
	)
	orgFlag := func(name string) func() *pflag.FlagSet {
		return func() *pflag.FlagSet {
			fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
			fs.StringVar(&orgID, "org", "", "organization id, default the first organization")
			if name == "teams create" {
				fs.StringVar(&form.Name, "name", "", "team name")
				fs.StringVar(&form.Description, "description", "", "team description")
			}
			return fs
		}
	}
	show := func(view *pages.TeamsView) {
		k.p.Notice(view.Notice)
		if view.OrganizationID == "" {
			k.p.Println("No organizations yet. Create one with 'gwconsole orgs create'.")
			return
		}
		k.p.Fields([][2]string{{"Organization", view.OrganizationID}})
		rows := make([][]string, 0, len(view.Teams))
		for _, t := range view.Teams {
			rows = append(rows, []string{t.ID, t.Name, t.Description})
		}
		k.p.Table([]string{"ID", "NAME", "DESCRIPTION"}, rows)
	}

	return &Command{
		Name:    "teams",
		Summary: "Manage teams within an organization",
		Subcommands: []*Command{
			{Name: "list", Summary: "List teams", Flags: orgFlag("teams list"), Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Teams.Load(ctx, orgID)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "create", Summary: "Create a team", Flags: orgFlag("teams create"), Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Teams.Create(ctx, orgID, form)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "delete", Summary: "Delete a team", Usage: "gwconsole teams delete <team-id> [--org ORG_ID]", Flags: orgFlag("teams delete"), Run: k.admin(func(ctx context.Context, args []string) error {
				if err := exactArgs(args, "team-id"); err != nil {
					return err
				}
				view, err := k.c.Pages.Teams.Delete(ctx, orgID, args[0])
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
		},
	}
}

func (k *console) membersCommand() *Command {
	var form forms.MembershipForm
	flags := func(name string) func() *pflag.FlagSet {
		return func() *pflag.FlagSet {
			fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
			fs.StringVar(&form.TeamID, "team", "", "team id")
			if name == "members add" {
				fs.StringVar(&form.UserID, "user", "", "user id")
				fs.StringVar(&form.Role, "role", "", "membership role")
			}
			return fs
		}
	}
	show := func(view *pages.MembershipsView) {
		k.p.Notice(view.Notice)
		rows := make([][]string, 0, len(view.Memberships))
		for _, m := range view.Memberships {
			rows = append(rows, []string{m.ID, m.TeamID, m.UserID, m.Role})
		}
		k.p.Table([]string{"ID", "TEAM", "USER", "ROLE"}, rows)
	}

	return &Command{
		Name:    "members",
		Summary: "Manage team memberships",
		Subcommands: []*Command{
			{Name: "list", Summary: "List memberships, optionally for one team", Flags: flags("members list"), Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Memberships.Load(ctx, form.TeamID)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "add", Summary: "Add a user to a team", Flags: flags("members add"), Run: k.admin(func(ctx context.Context, args []string) error {
				view, err := k.c.Pages.Memberships.Create(ctx, form.TeamID, form)
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
			{Name: "remove", Summary: "Remove a membership", Usage: "gwconsole members remove <membership-id> [--team TEAM_ID]", Flags: flags("members remove"), Run: k.admin(func(ctx context.Context, args []string) error {
				if err := exactArgs(args, "membership-id"); err != nil {
					return err
				}
				view, err := k.c.Pages.Memberships.Delete(ctx, form.TeamID, args[0])
				if err != nil {
					return err
				}
				show(view)
				return nil
			})},
		},
	}
}

// --- portal ---

func (k *console) portalCommand() *Command {
	var (
		register forms.RegisterForm
		login    forms.LoginForm
	)
	registerFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("portal register", pflag.ContinueOnError)
		fs.StringVar(&register.Name, "name", "", "display name")
		fs.StringVar(&register.Email, "email", "", "email address")
		fs.StringVar(&register.Password, "password", "", "password")
		return fs
	}
	loginFlags := func() *pflag.FlagSet {
		fs := pflag.NewFlagSet("portal login", pflag.ContinueOnError)
		fs.StringVar(&login.Email, "email", "", "email address")
		fs.StringVar(&login.Password, "password", "", "password")
		return fs
	}

	return &Command{
		Name:    "portal",
		Summary: "Self-service access for end users",
		Subcommands: []*Command{
			{Name: "register", Summary: "Request an account", Flags: registerFlags, Run: func(ctx context.Context, args []string) error {
				form, err := register.Validate()
				if err != nil {
					return err
				}
				message, err := k.c.Users.Register(ctx, form.Name, form.Email, form.Password)
				if err != nil {
					return err
				}
				k.p.Notice(pages.Notice{Message: message})
				return nil
			}},
			{Name: "login", Summary: "Sign in and store the session", Flags: loginFlags, Run: func(ctx context.Context, args []string) error {
				form, err := login.Validate()
				if err != nil {
					return err
				}
				if err := k.c.Users.Login(ctx, form.Email, form.Password); err != nil {
					return err
				}
				k.p.Notice(pages.Notice{Message: "Signed in"})
				return nil
			}},
			{Name: "refresh", Summary: "Exchange the refresh token for a new access token", Run: func(ctx context.Context, args []string) error {
				ok, err := k.c.Users.Refresh(ctx)
				switch {
				case err != nil && gateway.StatusCode(err) == 0:
					return err
				case err != nil:
					return &userauth.Error{Message: userauth.MsgSessionExpired, Err: err}
				case !ok:
					return &userauth.Error{Message: userauth.MsgNotSignedIn, Err: userauth.ErrNotSignedIn}
				}
				k.p.Notice(pages.Notice{Message: "Session refreshed"})
				return nil
			}},
			{Name: "logout", Summary: "Clear the stored session", Run: func(ctx context.Context, args []string) error {
				if err := k.c.Users.Logout(ctx); err != nil {
					return err
				}
				k.p.Notice(pages.Notice{Message: "Signed out"})
				return nil
			}},
			{Name: "keys", Summary: "Show your keys with 30 day usage", Run: k.portalKeys},
		},
	}
}

func (k *console) portalKeys(ctx context.Context, args []string) error {
	view, err := k.c.Pages.Portal.Load(ctx)
	if err != nil {
		return err
	}
	if view.User != "" {
		k.p.Fields([][2]string{{"Signed in as", view.User}})
	}
	rows := make([][]string, 0, len(view.Keys))
	for _, key := range view.Keys {
		rows = append(rows, []string{
			key.ID, key.Name, "…" + key.Last4, key.Status, key.Expires,
			pages.FormatNumber(key.Requests), pages.FormatNumber(key.Tokens),
		})
	}
	k.p.Table([]string{"ID", "NAME", "KEY", "STATUS", "EXPIRES", "REQUESTS", "TOKENS"}, rows)
	return nil
}

// --- theme ---

func (k *console) themeCommand() *Command {
	return &Command{
		Name:    "theme",
		Summary: "Show or toggle the light/dark theme",
		Subcommands: []*Command{
			{Name: "show", Summary: "Print the current theme", Run: func(ctx context.Context, args []string) error {
				theme, err := k.c.Store.Theme(ctx)
				if err != nil {
					return err
				}
				k.p.Println(string(theme))
				return nil
			}},
			{Name: "toggle", Summary: "Switch between light and dark", Run: func(ctx context.Context, args []string) error {
				theme, err := k.c.Store.Theme(ctx)
				if err != nil {
					return err
				}
				theme = theme.Toggle()
				if err := k.c.Store.SaveTheme(ctx, theme); err != nil {
					return err
				}
				k.p.SetTheme(theme)
				k.p.Notice(pages.Notice{Message: "Theme set to " + string(theme)})
				return nil
			}},
		},
	}
}

// Run executes args against the console and returns the process exit code.
// The printer starts in the stored theme.
func Run(ctx context.Context, c *app.Console, args []string, stdout, stderr io.Writer) int {
	theme, err := c.Store.Theme(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read theme")
	}
	p := NewPrinter(stdout, theme)

	root := NewRoot(c, p)
	if len(args) == 0 {
		root.PrintHelp(stdout)
		return 0
	}
	if err := root.Execute(ctx, args, stdout); err != nil {
		NewPrinter(stderr, theme).Error(err)
		return 1
	}
	return 0
}
