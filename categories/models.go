// Package categories manages the shared task categories: CRUD endpoints,
// name uniqueness, and the live task count shown with every category.
package categories

import "time"

// DefaultColor is used when a category is created without a color.
const DefaultColor = "#3498db"

// Category groups tasks. Categories are shared by all users.
type Category struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Work"`
	Description *string   `json:"description" example:"Things for the day job"`
	Color       string    `json:"color" example:"#3498db"`
	CreatedAt   time.Time `json:"created_at"`
	// TaskCount is computed when the category is read, never stored.
	TaskCount int64 `json:"task_count" example:"3"`
}
