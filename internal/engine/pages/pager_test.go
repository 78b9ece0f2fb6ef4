package pages

import "testing"

func TestNewPager(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		total      int
		wantPages  int
		wantLabel  string
		wantNext   bool
	}{
		{name: "empty list has one page", page: 1, size: 25, total: 0, wantPages: 1, wantLabel: "Page 1 of 1 · 0 total"},
		{name: "exact multiple", page: 1, size: 10, total: 30, wantPages: 3, wantLabel: "Page 1 of 3 · 30 total", wantNext: true},
		{name: "rounds up", page: 2, size: 25, total: 51, wantPages: 3, wantLabel: "Page 2 of 3 · 51 total", wantNext: true},
		{name: "last page", page: 3, size: 50, total: 101, wantPages: 3, wantLabel: "Page 3 of 3 · 101 total"},
		{name: "invalid size falls back to default", page: 0, size: 7, total: 26, wantPages: 2, wantLabel: "Page 1 of 2 · 26 total", wantNext: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPager(tt.page, tt.size, tt.total)
			if p.TotalPages != tt.wantPages {
				t.Errorf("Expected %d pages, got %d", tt.wantPages, p.TotalPages)
			}
			if p.Label != tt.wantLabel {
				t.Errorf("Expected label %q, got %q", tt.wantLabel, p.Label)
			}
			if p.HasNext != tt.wantNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.wantNext, p.HasNext)
			}
		})
	}
}

func TestPager_Clamp(t *testing.T) {
	first := NewPager(1, 10, 25)
	if first.Prev() != 1 || first.Next() != 2 || first.HasPrev {
		t.Errorf("Unexpected first page navigation %+v", first)
	}

	last := NewPager(3, 10, 25)
	if last.Next() != 3 || last.Prev() != 2 {
		t.Errorf("Expected next clamped to 3 and prev 2, got %d and %d", last.Next(), last.Prev())
	}
}

func TestQuery_FiltersResetPage(t *testing.T) {
	q := DefaultKeysQuery().WithPage(4)
	if q.Page != 4 {
		t.Fatalf("Expected page 4, got %d", q.Page)
	}
	if got := q.WithPageSize(50); got.Page != 1 || got.PageSize != 50 {
		t.Errorf("Expected page size change to reset page, got %+v", got)
	}
	if got := q.WithStatus("revoked"); got.Page != 1 || got.Status != StatusRevoked {
		t.Errorf("Expected status change to reset page, got %+v", got)
	}
	if got := q.WithSearch(" ci "); got.Page != 1 || got.Search != "ci" {
		t.Errorf("Expected search change to reset page, got %+v", got)
	}
	if got := q.WithSort("bogus", "ASC"); got.Page != 1 || got.SortBy != "created_at" || got.SortDir != "asc" {
		t.Errorf("Expected sort normalized and page reset, got %+v", got)
	}
	if got := q.WithStatus("archived"); got.Status != StatusAll {
		t.Errorf("Expected unknown status to mean all, got %s", got.Status)
	}

	users := DefaultUsersQuery().WithPage(3).WithSort("email", "desc")
	if users.Page != 1 || users.SortBy != "email" {
		t.Errorf("Unexpected users query %+v", users)
	}
}
