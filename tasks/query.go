package tasks

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/user/taskmanager-go/apperror"
)

// Listing defaults.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultSortBy  = "created_at"
)

// sortColumns maps the sortable Task fields to their SQL columns. Anything else
// silently falls back to DefaultSortBy.
var sortColumns = map[string]string{
	"id":           "t.id",
	"title":        "t.title",
	"description":  "t.description",
	"status":       "t.status",
	"priority":     "t.priority",
	"due_date":     "t.due_date",
	"completed_at": "t.completed_at",
	"created_at":   "t.created_at",
	"updated_at":   "t.updated_at",
	"user_id":      "t.user_id",
	"category_id":  "t.category_id",
}

// NormalizeSortBy returns field if it is a sortable Task field and DefaultSortBy otherwise.
func NormalizeSortBy(field string) string {
	if _, ok := sortColumns[field]; ok {
		return field
	}
	return DefaultSortBy
}

// ListParams describes one page of the caller's tasks. Empty Status/Priority
// and a nil CategoryID mean "no filter".
type ListParams struct {
	UserID     int64
	Status     string
	Priority   string
	CategoryID *int64
	Page       int
	PerPage    int
	SortBy     string
	Descending bool
}

// Offset is the number of rows skipped before the page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParseListParams reads the list query string for userID. Unparseable page
// numbers fall back to their defaults; a non-numeric category_id is an error.
func ParseListParams(userID int64, q url.Values) (ListParams, error) {
	p := ListParams{
		UserID:     userID,
		Status:     q.Get("status"),
		Priority:   q.Get("priority"),
		Page:       intParam(q, "page", DefaultPage),
		PerPage:    intParam(q, "per_page", DefaultPerPage),
		SortBy:     NormalizeSortBy(q.Get("sort_by")),
		Descending: true,
	}
	if order := q.Get("order"); order != "" {
		p.Descending = strings.EqualFold(order, "desc")
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ListParams{}, apperror.NewValidationError("category_id must be an integer", nil)
		}
		p.CategoryID = &id
	}

	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	// Keep Offset within int. Any page this far out is empty anyway.
	if maxPage := math.MaxInt / p.PerPage; p.Page > maxPage {
		p.Page = maxPage
	}
	return p, nil
}

func intParam(q url.Values, key string, fallback int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return fallback
	}
	return n
}

// PageCount is the number of pages needed for total rows.
func PageCount(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

// whereClause builds the filter shared by the count and page queries.
// Ownership is always the first condition.
func whereClause(p ListParams) (string, []interface{}) {
	conds := []string{"t.user_id = $1"}
	args := []interface{}{p.UserID}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if p.Status != "" {
		add("t.status = $%d", p.Status)
	}
	if p.Priority != "" {
		add("t.priority = $%d", p.Priority)
	}
	if p.CategoryID != nil {
		add("t.category_id = $%d", *p.CategoryID)
	}
	return strings.Join(conds, " AND "), args
}

func countQuery(p ListParams) (string, []interface{}) {
	where, args := whereClause(p)
	return "SELECT COUNT(*) FROM tasks t WHERE " + where, args
}

func pageQuery(p ListParams) (string, []interface{}) {
	where, args := whereClause(p)
	column := sortColumns[NormalizeSortBy(p.SortBy)]
	dir := "ASC"
	if p.Descending {
		dir = "DESC"
	}
	args = append(args, p.PerPage, p.Offset())
	query := fmt.Sprintf("%s WHERE %s ORDER BY %s %s, t.id %s LIMIT $%d OFFSET $%d",
		selectTask, where, column, dir, dir, len(args)-1, len(args))
	return query, args
}
