package tasks

import "github.com/shopspring/decimal"

// Counts is the per-status breakdown of one user's tasks.
type Counts struct {
	Total      int64
	Pending    int64
	InProgress int64
	Completed  int64
}

// Stats is the body of GET /api/stats.
type Stats struct {
	TotalTasks     int64   `json:"total_tasks" example:"4"`
	Pending        int64   `json:"pending" example:"2"`
	InProgress     int64   `json:"in_progress" example:"1"`
	Completed      int64   `json:"completed" example:"1"`
	CompletionRate float64 `json:"completion_rate" example:"25"`
}

// CompletionRate is completed/total as a percentage rounded half-to-even to two
// decimals, and 0 when there are no tasks.
func CompletionRate(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	rate := decimal.NewFromInt(completed).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(total), 8).
		RoundBank(2)
	return rate.InexactFloat64()
}

// NewStats turns status counts into the response body.
func NewStats(c Counts) Stats {
	return Stats{
		TotalTasks:     c.Total,
		Pending:        c.Pending,
		InProgress:     c.InProgress,
		Completed:      c.Completed,
		CompletionRate: CompletionRate(c.Completed, c.Total),
	}
}
