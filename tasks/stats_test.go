package tasks

import "testing"

func TestCompletionRate(t *testing.T) {
	tests := []struct {
		completed, total int64
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{1, 4, 25},
		{1, 3, 33.33},
		{2, 3, 66.67},
		{3, 3, 100},
		{1, 7, 14.29},
	}
	for _, tt := range tests {
		if got := CompletionRate(tt.completed, tt.total); got != tt.want {
			t.Errorf("CompletionRate(%d, %d): expected %v, got %v", tt.completed, tt.total, tt.want, got)
		}
	}
}

func TestNewStats(t *testing.T) {
	s := NewStats(Counts{Total: 4, Pending: 2, InProgress: 1, Completed: 1})
	if s.TotalTasks != 4 || s.Pending != 2 || s.InProgress != 1 || s.Completed != 1 || s.CompletionRate != 25 {
		t.Errorf("Unexpected stats: %+v", s)
	}
}
