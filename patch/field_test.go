package patch

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Title      Field[string] `json:"title"`
	CategoryID Field[int64]  `json:"category_id"`
	DueDate    Field[string] `json:"due_date"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"title":"Buy milk","category_id":null}`), &p); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !p.Title.HasValue() || p.Title.Value != "Buy milk" {
		t.Errorf("Expected title value, got %+v", p.Title)
	}
	if !p.CategoryID.Set || !p.CategoryID.Null {
		t.Errorf("Expected explicit null category_id, got %+v", p.CategoryID)
	}
	if p.CategoryID.Ptr() != nil {
		t.Error("Expected nil pointer for explicit null")
	}
	if p.DueDate.Set {
		t.Errorf("Expected due_date absent, got %+v", p.DueDate)
	}
}

func TestFieldRejectsWrongType(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"category_id":"seven"}`), &p); err == nil {
		t.Error("Expected type error for string category_id")
	}
}

func TestFieldPtrCopiesValue(t *testing.T) {
	f := Field[int64]{Set: true, Value: 7}
	p := f.Ptr()
	if p == nil || *p != 7 {
		t.Fatalf("Expected pointer to 7, got %v", p)
	}
	*p = 9
	if f.Value != 7 {
		t.Errorf("Expected Ptr to return a copy, field changed to %d", f.Value)
	}
}
