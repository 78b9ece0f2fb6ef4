package pages

import (
	"context"
	"strings"

	"gwconsole/internal/engine/forms"
	"gwconsole/internal/gateway"
)

var UserSortFields = []string{"created_at", "name", "email", "status"}

type UsersGateway interface {
	ListUsers(ctx context.Context, params gateway.UserListParams) (*gateway.Page[gateway.User], error)
	CreateUser(ctx context.Context, input gateway.CreateUser) (*gateway.User, error)
}

type UsersQuery struct {
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	SortBy   string          `json:"sort_by"`
	SortDir  gateway.SortDir `json:"sort_dir"`
	Search   string          `json:"q,omitempty"`
}

func DefaultUsersQuery() UsersQuery {
	return UsersQuery{Page: FirstPage, PageSize: DefaultPageSize, SortBy: "created_at", SortDir: gateway.SortDesc}
}

func (q UsersQuery) WithPage(page int) UsersQuery {
	q.Page = NormalizePage(page)
	return q
}

// WithPageSize, WithSort and WithSearch reset to the first page.
func (q UsersQuery) WithPageSize(size int) UsersQuery {
	q.PageSize = NormalizePageSize(size)
	q.Page = FirstPage
	return q
}

func (q UsersQuery) WithSort(by string, dir gateway.SortDir) UsersQuery {
	q.SortBy = oneOf(by, UserSortFields, "created_at")
	q.SortDir = normalizeSortDir(dir)
	q.Page = FirstPage
	return q
}

func (q UsersQuery) WithSearch(search string) UsersQuery {
	q.Search = strings.TrimSpace(search)
	q.Page = FirstPage
	return q
}

func (q UsersQuery) params() gateway.UserListParams {
	return gateway.UserListParams{
		Page:     NormalizePage(q.Page),
		PageSize: NormalizePageSize(q.PageSize),
		SortBy:   oneOf(q.SortBy, UserSortFields, "created_at"),
		SortDir:  normalizeSortDir(q.SortDir),
		Query:    q.Search,
	}
}

type UserRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	Created string `json:"created"`
}

func newUserRow(u gateway.User) UserRow {
	row := UserRow{ID: u.ID, Name: u.Name, Email: optional(u.Email), Created: FormatDate(u.CreatedAt)}
	if u.Status != nil {
		row.Status = string(*u.Status)
	}
	return row
}

type UsersView struct {
	Notice
	Query UsersQuery `json:"query"`
	Users []UserRow  `json:"users"`
	Pager Pager      `json:"pager"`
}

type UsersPage struct {
	gw UsersGateway
}

func NewUsersPage(gw UsersGateway) *UsersPage {
	return &UsersPage{gw: gw}
}

func (p *UsersPage) Load(ctx context.Context, q UsersQuery) (*UsersView, error) {
	params := q.params()
	view := &UsersView{
		Query: UsersQuery{Page: params.Page, PageSize: params.PageSize, SortBy: params.SortBy, SortDir: params.SortDir, Search: params.Query},
		Users: []UserRow{},
		Pager: NewPager(params.Page, params.PageSize, 0),
	}

	page, err := p.gw.ListUsers(ctx, params)
	if err != nil {
		view.Error = errorText(err, "Failed to fetch users")
		return view, err
	}
	for _, u := range page.Items {
		view.Users = append(view.Users, newUserRow(u))
	}
	view.Pager = NewPager(params.Page, params.PageSize, page.Total)
	return view, nil
}

// Create validates the form, creates the user and reloads the list.
func (p *UsersPage) Create(ctx context.Context, q UsersQuery, form forms.CreateUserForm) (*UsersView, error) {
	input, err := form.Validate()
	if err == nil {
		_, err = p.gw.CreateUser(ctx, input)
	}

	view, loadErr := p.Load(ctx, q)
	if err != nil {
		view.Error = errorText(err, "Failed to create user")
		return view, err
	}
	if loadErr == nil {
		view.Message = "User created successfully"
	}
	return view, loadErr
}
