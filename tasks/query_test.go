package tasks

import (
	"net/url"
	"strings"
	"testing"

	"github.com/user/taskmanager-go/apperror"
)

func TestParseListParamsDefaults(t *testing.T) {
	p, err := ParseListParams(7, url.Values{})
	if err != nil {
		t.Fatalf("ParseListParams failed: %v", err)
	}
	if p.UserID != 7 || p.Page != 1 || p.PerPage != 10 || p.SortBy != "created_at" || !p.Descending {
		t.Errorf("Unexpected defaults: %+v", p)
	}
	if p.CategoryID != nil || p.Status != "" || p.Priority != "" {
		t.Errorf("Expected no filters, got %+v", p)
	}
}

func TestParseListParamsValues(t *testing.T) {
	q := url.Values{
		"status":      {"completed"},
		"priority":    {"high"},
		"category_id": {"3"},
		"page":        {"2"},
		"per_page":    {"1"},
		"sort_by":     {"due_date"},
		"order":       {"asc"},
	}
	p, err := ParseListParams(1, q)
	if err != nil {
		t.Fatalf("ParseListParams failed: %v", err)
	}
	if p.Status != "completed" || p.Priority != "high" || p.CategoryID == nil || *p.CategoryID != 3 {
		t.Errorf("Unexpected filters: %+v", p)
	}
	if p.Page != 2 || p.PerPage != 1 || p.Offset() != 1 {
		t.Errorf("Unexpected paging: %+v (offset %d)", p, p.Offset())
	}
	if p.SortBy != "due_date" || p.Descending {
		t.Errorf("Unexpected sort: %+v", p)
	}
}

func TestParseListParamsLenientValues(t *testing.T) {
	q := url.Values{
		"page":     {"abc"},
		"per_page": {"100000"},
		"sort_by":  {"password_hash; DROP TABLE tasks"},
		"order":    {"sideways"},
	}
	p, err := ParseListParams(1, q)
	if err != nil {
		t.Fatalf("ParseListParams failed: %v", err)
	}
	if p.Page != DefaultPage {
		t.Errorf("Expected page fallback, got %d", p.Page)
	}
	if p.PerPage != MaxPerPage {
		t.Errorf("Expected per_page capped at %d, got %d", MaxPerPage, p.PerPage)
	}
	if p.SortBy != DefaultSortBy {
		t.Errorf("Expected sort fallback, got %q", p.SortBy)
	}
	if p.Descending {
		t.Error("Expected any order other than desc to sort ascending")
	}

	p, _ = ParseListParams(1, url.Values{"page": {"0"}, "per_page": {"-5"}})
	if p.Page != 1 || p.PerPage != DefaultPerPage {
		t.Errorf("Expected non-positive paging to reset, got %+v", p)
	}
}

func TestParseListParamsRejectsBadCategory(t *testing.T) {
	_, err := ParseListParams(1, url.Values{"category_id": {"work"}})
	if !apperror.IsValidationError(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestPageQueryAlwaysScopesToOwner(t *testing.T) {
	cat := int64(4)
	p := ListParams{UserID: 9, Status: "completed", Priority: "low", CategoryID: &cat, Page: 3, PerPage: 5, SortBy: "title", Descending: false}

	query, args := pageQuery(p)
	if !strings.Contains(query, "WHERE t.user_id = $1 AND t.status = $2 AND t.priority = $3 AND t.category_id = $4") {
		t.Errorf("Unexpected where clause: %s", query)
	}
	if !strings.Contains(query, "ORDER BY t.title ASC, t.id ASC LIMIT $5 OFFSET $6") {
		t.Errorf("Unexpected order/limit: %s", query)
	}
	want := []interface{}{int64(9), "completed", "low", int64(4), 5, 10}
	if len(args) != len(want) {
		t.Fatalf("Expected %d args, got %d: %v", len(want), len(args), args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %v, got %v", i, want[i], args[i])
		}
	}

	count, countArgs := countQuery(ListParams{UserID: 9, Page: 1, PerPage: 10})
	if count != "SELECT COUNT(*) FROM tasks t WHERE t.user_id = $1" || len(countArgs) != 1 {
		t.Errorf("Unexpected count query %q %v", count, countArgs)
	}
}

func TestPageQueryFallsBackToCreatedAt(t *testing.T) {
	query, _ := pageQuery(ListParams{UserID: 1, Page: 1, PerPage: 10, SortBy: "nonsense", Descending: true})
	if !strings.Contains(query, "ORDER BY t.created_at DESC, t.id DESC") {
		t.Errorf("Expected created_at fallback, got %s", query)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{3, 1, 3},
		{10, 10, 1},
		{11, 10, 2},
	}
	for _, tt := range tests {
		if got := PageCount(tt.total, tt.perPage); got != tt.want {
			t.Errorf("PageCount(%d, %d): expected %d, got %d", tt.total, tt.perPage, tt.want, got)
		}
	}
}

func TestParseListParamsKeepsOffsetInRange(t *testing.T) {
	for _, perPage := range []string{"1", "10", "100"} {
		q := url.Values{"page": {"1000000000000000000"}, "per_page": {perPage}}
		p, err := ParseListParams(1, q)
		if err != nil {
			t.Fatalf("ParseListParams failed: %v", err)
		}
		if p.Offset() < 0 {
			t.Errorf("per_page=%s: expected non-negative offset, got %d (page %d)", perPage, p.Offset(), p.Page)
		}
		if p.Page < 1 {
			t.Errorf("per_page=%s: expected positive page, got %d", perPage, p.Page)
		}
	}
}
