package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/user/taskmanager-go/apperror"
	"github.com/user/taskmanager-go/categories"
	"github.com/user/taskmanager-go/db"
)

// Sentinel errors returned by Store implementations.
var (
	ErrNotFound         = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")

	// ErrOwnerNotFound means the owning user was deleted while the request ran.
	ErrOwnerNotFound = errors.New("task owner not found")
)

const (
	categoryFKey = "tasks_category_id_fkey"
	userFKey     = "tasks_user_id_fkey"
)

// Repository is the set of task queries. Reads embed the task's category.
type Repository interface {
	// GetByID fetches any task by id; ownership is checked by the caller.
	GetByID(ctx context.Context, id int64) (*Task, error)
	// Create inserts t and fills in its ID. A dangling category yields ErrCategoryNotFound.
	Create(ctx context.Context, t *Task) error
	// Update writes every mutable column of t. UserID is never changed.
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id int64) error
	// List returns one page of tasks matching p and the total number of matches.
	List(ctx context.Context, p ListParams) ([]Task, int64, error)
	CountByStatus(ctx context.Context, userID int64) (Counts, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

// Store is a Repository that can also run a group of calls in one transaction.
type Store interface {
	Repository
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// PostgresRepository implements Store on top of pgx.
type PostgresRepository struct {
	conn db.Conn
}

// NewPostgresRepository creates a repository over a pool or transaction.
func NewPostgresRepository(conn db.Conn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

// WithTx runs fn with a repository bound to a fresh transaction.
func (r *PostgresRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return db.InTx(ctx, r.conn, func(tx db.Conn) error {
		return fn(&PostgresRepository{conn: tx})
	})
}

const selectTask = `
	SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date, t.completed_at,
	       t.created_at, t.updated_at, t.user_id, t.category_id,
	       c.id, c.name, c.description, c.color, c.created_at,
	       (SELECT COUNT(*) FROM tasks ct WHERE ct.category_id = c.id)
	FROM tasks t
	LEFT JOIN categories c ON c.id = t.category_id`

func scanTask(row pgx.Row) (*Task, error) {
	var (
		t            Task
		catID        *int64
		catName      *string
		catDesc      *string
		catColor     *string
		catCreatedAt *time.Time
		catCount     int64
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt, &t.UserID, &t.CategoryID,
		&catID, &catName, &catDesc, &catColor, &catCreatedAt, &catCount,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		t.Category = &categories.Category{
			ID:          *catID,
			Name:        *catName,
			Description: catDesc,
			Color:       *catColor,
			CreatedAt:   *catCreatedAt,
			TaskCount:   catCount,
		}
	}
	return &t, nil
}

func dbErr(err error) error {
	return apperror.NewDatabaseError("Database error occurred", err)
}

func writeErr(err error) error {
	switch constraint, ok := db.ForeignKeyViolation(err); {
	case ok && constraint == categoryFKey:
		return ErrCategoryNotFound
	case ok && constraint == userFKey:
		return ErrOwnerNotFound
	}
	return dbErr(err)
}

// GetByID fetches one task with its category.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Task, error) {
	t, err := scanTask(r.conn.QueryRow(ctx, selectTask+" WHERE t.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, dbErr(err)
	}
	return t, nil
}

// Create inserts t.
func (r *PostgresRepository) Create(ctx context.Context, t *Task) error {
	err := r.conn.QueryRow(ctx, `
		INSERT INTO tasks (title, description, status, priority, due_date, completed_at,
		                   created_at, updated_at, user_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CompletedAt,
		t.CreatedAt, t.UpdatedAt, t.UserID, t.CategoryID,
	).Scan(&t.ID)
	if err != nil {
		return writeErr(err)
	}
	return nil
}

// Update writes t back.
func (r *PostgresRepository) Update(ctx context.Context, t *Task) error {
	tag, err := r.conn.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
		    completed_at = $6, updated_at = $7, category_id = $8
		WHERE id = $9`,
		t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.CompletedAt, t.UpdatedAt, t.CategoryID, t.ID,
	)
	if err != nil {
		return writeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return dbErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List counts the matches, then loads the requested page.
func (r *PostgresRepository) List(ctx context.Context, p ListParams) ([]Task, int64, error) {
	countSQL, countArgs := countQuery(p)
	var total int64
	if err := r.conn.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, dbErr(err)
	}

	pageSQL, pageArgs := pageQuery(p)
	rows, err := r.conn.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		return nil, 0, dbErr(err)
	}
	defer rows.Close()

	result := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, dbErr(err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dbErr(err)
	}
	return result, total, nil
}

// CountByStatus aggregates a user's tasks in a single scan.
func (r *PostgresRepository) CountByStatus(ctx context.Context, userID int64) (Counts, error) {
	var c Counts
	err := r.conn.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $2),
		       COUNT(*) FILTER (WHERE status = $3),
		       COUNT(*) FILTER (WHERE status = $4)
		FROM tasks
		WHERE user_id = $1`,
		userID, StatusPending, StatusInProgress, StatusCompleted,
	).Scan(&c.Total, &c.Pending, &c.InProgress, &c.Completed)
	if err != nil {
		return Counts{}, dbErr(err)
	}
	return c, nil
}

// CategoryExists reports whether category id exists.
func (r *PostgresRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, dbErr(err)
	}
	return found, nil
}
